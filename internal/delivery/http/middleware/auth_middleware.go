package middleware

import (
	"net/http"
	"slices"
	"strings"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// AuthCookie carries the token for browser clients
const AuthCookie = "auth_token"

// TokenParser validates an access token
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid token for an active user. The role is read
// from the store, never from the token.
func AuthMiddleware(tokens TokenParser, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			unauthorized(c, "Authorization header or auth_token cookie required")
			return
		}
		if msg := authenticate(c, tokens, authUC, tokenString); msg != "" {
			unauthorized(c, msg)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise
func OptionalAuth(tokens TokenParser, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			authenticate(c, tokens, authUC, tokenString)
		}
		c.Next()
	}
}

// RequireRoles lets only the listed roles through
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(domain.KeyUserRole)))
		if !slices.Contains(roles, role) {
			appErr := apperror.Forbidden("You do not have permission to access this resource")
			response.Error(c, appErr.Code, appErr.Message, response.ErrorBody{Kind: string(appErr.Kind)})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated caller, or a zero actor for anonymous requests
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetString(string(domain.KeyUserID)),
		Role: domain.Role(c.GetString(string(domain.KeyUserRole))),
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// authenticate stores the caller in the context and returns a failure message otherwise
func authenticate(c *gin.Context, tokens TokenParser, authUC domain.AuthUsecase, tokenString string) string {
	claims, err := tokens.Parse(tokenString)
	if err != nil {
		return "Invalid token"
	}

	user, err := authUC.GetCurrentUser(c.Request.Context(), claims.Subject)
	if err != nil {
		return "User not found"
	}
	if !user.IsActive {
		return "Account has been deactivated"
	}

	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), user.Email)
	c.Set(string(domain.KeyUserRole), string(user.Role))
	return ""
}

func unauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, message, response.ErrorBody{Kind: string(apperror.KindUnauthorized)})
	c.Abort()
}
