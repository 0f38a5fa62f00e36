package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC domain.UserUsecase
}

func NewUserHandler(protected *gin.RouterGroup, userUC domain.UserUsecase) {
	handler := &UserHandler{userUC: userUC}

	profile := protected.Group("/users/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PUT("", handler.UpdateProfile)
		profile.POST("/visibility", handler.UpdateVisibility)
		profile.POST("/resume", handler.UpdateResume)
	}

	admin := protected.Group("/users", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("", handler.List)
		admin.GET("/volunteers", handler.ListVolunteers)
		admin.PATCH("/:id/approve", handler.ApproveVolunteer)
		admin.PATCH("/:id/role", handler.UpdateRole)
		admin.PATCH("/:id/active", handler.SetActive)
		admin.DELETE("/:id", handler.Delete)
	}
}

type ResumeRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
	Path     string `json:"path" binding:"required,max=1024"`
}

type ApproveVolunteerRequest struct {
	Approved *bool `json:"approved"`
}

type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,oneof=jobseeker employer admin volunteer"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /users/profile [get]
// @Security     BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userUC.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", user)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Only the listed profile fields are accepted; unknown keys are ignored
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.ProfileUpdate  true  "Profile fields"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/profile [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUC.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", user)
}

// UpdateVisibility godoc
// @Summary      Update profile visibility
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        visibility  body      domain.VisibilityUpdate  true  "Visibility"
// @Success      200         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Router       /users/profile/visibility [post]
// @Security     BearerAuth
func (h *UserHandler) UpdateVisibility(c *gin.Context) {
	var req domain.VisibilityUpdate
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.userUC.UpdateVisibility(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile visibility updated", profile)
}

// UpdateResume godoc
// @Summary      Set resume reference
// @Description  Records where the uploaded resume is stored
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        resume  body      ResumeRequest  true  "Resume reference"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /users/profile/resume [post]
// @Security     BearerAuth
func (h *UserHandler) UpdateResume(c *gin.Context) {
	var req ResumeRequest
	if !bindJSON(c, &req) {
		return
	}

	resume, err := h.userUC.UpdateResume(c.Request.Context(), middleware.ActorFrom(c), req.Filename, req.Path)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", resume)
}

// List godoc
// @Summary      List users (admin)
// @Tags         users
// @Produce      json
// @Param        role       query     string  false  "Role filter"
// @Param        search     query     string  false  "Name or email"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) List(c *gin.Context) {
	filter := domain.UserFilter{
		Role:   domain.Role(c.Query("role")),
		Search: c.Query("search"),
	}
	result, err := h.userUC.ListUsers(c.Request.Context(), middleware.ActorFrom(c), filter, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users", result)
}

// ListVolunteers godoc
// @Summary      List volunteers (admin)
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /users/volunteers [get]
// @Security     BearerAuth
func (h *UserHandler) ListVolunteers(c *gin.Context) {
	users, err := h.userUC.ListVolunteers(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Volunteers", users)
}

// ApproveVolunteer godoc
// @Summary      Approve or revoke a volunteer (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "User ID"
// @Param        request  body      ApproveVolunteerRequest  false  "Defaults to approved"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/approve [patch]
// @Security     BearerAuth
func (h *UserHandler) ApproveVolunteer(c *gin.Context) {
	var req ApproveVolunteerRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	approved := req.Approved == nil || *req.Approved

	user, err := h.userUC.ApproveVolunteer(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), approved)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Volunteer approval updated", user)
}

// UpdateRole godoc
// @Summary      Change a user's role (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "User ID"
// @Param        request  body      UpdateRoleRequest  true  "Role"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/role [patch]
// @Security     BearerAuth
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUC.UpdateRole(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User role updated", user)
}

// SetActive godoc
// @Summary      Activate or deactivate a user (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "User ID"
// @Param        request  body      SetActiveRequest  true  "Active flag"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/active [patch]
// @Security     BearerAuth
func (h *UserHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userUC.SetActive(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User status updated", user)
}

// Delete godoc
// @Summary      Delete a user (admin)
// @Description  Removes the user with their company, jobs and applications
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userUC.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
