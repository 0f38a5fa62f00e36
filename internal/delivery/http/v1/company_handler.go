package v1

import (
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(public, protected *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	publicCompanies := public.Group("/companies")
	{
		publicCompanies.GET("", handler.List)
		publicCompanies.GET("/:id", handler.Get)
	}

	companies := protected.Group("/companies")
	{
		companies.POST("", handler.Create)
		companies.PUT("/:id", handler.Update)
		companies.DELETE("/:id", handler.Delete)
	}

	admin := protected.Group("/companies", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.PATCH("/:id/verify", handler.Verify)
		admin.PATCH("/:id/status", handler.SetStatus)
	}
}

type VerifyCompanyRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

type CompanyStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// List godoc
// @Summary      List companies
// @Description  Active companies, verified first
// @Tags         companies
// @Produce      json
// @Param        industry   query     string  false  "Industry"
// @Param        size       query     string  false  "Size bracket"
// @Param        search     query     string  false  "Name or description"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	filter := domain.CompanyFilter{
		Industry: c.Query("industry"),
		Size:     c.Query("size"),
		Search:   c.Query("search"),
	}
	result, err := h.companyUC.ListCompanies(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies", result)
}

// Get godoc
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companyUC.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company details", company)
}

// Create godoc
// @Summary      Create company
// @Description  Each employer owns at most one company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        company  body      domain.CompanyInput  true  "Company"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /companies [post]
// @Security     BearerAuth
func (h *CompanyHandler) Create(c *gin.Context) {
	var req domain.CompanyInput
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companyUC.CreateCompany(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created successfully", company)
}

// Update godoc
// @Summary      Update company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Company ID"
// @Param        company  body      domain.CompanyInput  true  "Company"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /companies/{id} [put]
// @Security     BearerAuth
func (h *CompanyHandler) Update(c *gin.Context) {
	var req domain.CompanyInput
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companyUC.UpdateCompany(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated successfully", company)
}

// Delete godoc
// @Summary      Delete company
// @Description  Removes the company with its jobs and their applications
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [delete]
// @Security     BearerAuth
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.companyUC.DeleteCompany(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company deleted successfully", nil)
}

// Verify godoc
// @Summary      Verify company (admin)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Company ID"
// @Param        request  body      VerifyCompanyRequest  true  "Verified flag"
// @Success      200      {object}  response.Response
// @Router       /companies/{id}/verify [patch]
// @Security     BearerAuth
func (h *CompanyHandler) Verify(c *gin.Context) {
	var req VerifyCompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companyUC.VerifyCompany(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), *req.Verified)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company verification updated", company)
}

// SetStatus godoc
// @Summary      Activate or deactivate company (admin)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Company ID"
// @Param        request  body      CompanyStatusRequest  true  "Active flag"
// @Success      200      {object}  response.Response
// @Router       /companies/{id}/status [patch]
// @Security     BearerAuth
func (h *CompanyHandler) SetStatus(c *gin.Context) {
	var req CompanyStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companyUC.SetCompanyActive(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company status updated", company)
}
