package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/stats", handler.GetStats)
	}
}

// GetStats godoc
// @Summary      Dashboard statistics (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
// @Security     BearerAuth
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUC.GetStats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Admin statistics", stats)
}
