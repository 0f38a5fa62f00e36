package v1

import (
	"net/http"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	config *config.Config
}

func NewAuthHandler(public, protected *gin.RouterGroup, authLimit gin.HandlerFunc, authUC domain.AuthUsecase, cfg *config.Config) {
	handler := &AuthHandler{authUC: authUC, config: cfg}

	// Public Routes
	publicAuth := public.Group("/auth", authLimit)
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/otp/send", handler.SendOTP)
		publicAuth.POST("/otp/verify", handler.VerifyOTP)
		publicAuth.POST("/refresh-token", handler.RefreshToken)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/logout", handler.Logout)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a job seeker, employer or volunteer account and sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary      User Login
// @Description  Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Login successful", result)
}

// SendOTP godoc
// @Summary      Send login code
// @Description  Email a one-time login code valid for a few minutes
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SendOTPRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /auth/otp/send [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.SendOTP(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "OTP sent to your email", nil)
}

// VerifyOTP godoc
// @Summary      Verify login code
// @Description  Sign in with a one-time code; marks the email as verified
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyOTPRequest  true  "Email and code"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.Success(c, http.StatusOK, "OTP verified successfully", result)
}

// RefreshToken godoc
// @Summary      Refresh token
// @Description  Exchange a still-valid token of an active user for a fresh one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshTokenRequest  true  "Current token"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, result.Token)
	response.Success(c, http.StatusOK, "Token refreshed", result)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the auth cookie. Bearer tokens simply expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.config.IsProduction(), true)
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, int(h.config.JWTExpiry.Seconds()), "/", "", h.config.IsProduction(), true)
}
