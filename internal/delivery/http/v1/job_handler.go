package v1

import (
	"cmp"
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler registers the job routes. optional carries OptionalAuth so
// posters and admins can read their unapproved jobs.
func NewJobHandler(optional, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// PUBLIC routes - approved and active jobs only (server-side enforced)
	publicJobs := optional.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.Get)
	}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("/mine", handler.ListMine)
		jobs.POST("", handler.Create)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.PATCH("/:id/status", handler.SetStatus)
	}

	admin := protected.Group("/jobs", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/pending", handler.ListPending)
		admin.PATCH("/:id/approve", handler.Approve)
		admin.PATCH("/:id/reject", handler.Reject)
		admin.PATCH("/:id/feature", handler.ToggleFeatured)
	}
}

type JobStatusRequest struct {
	Status domain.JobStatus `json:"status" binding:"required"`
}

// RejectJobRequest takes rejectionReason, or rejection_reason as an alias
type RejectJobRequest struct {
	RejectionReason    string `json:"rejectionReason" binding:"max=500"`
	RejectionReasonAlt string `json:"rejection_reason,omitempty" swaggerignore:"true" binding:"max=500"`
}

func (r RejectJobRequest) reason() string {
	return cmp.Or(r.RejectionReason, r.RejectionReasonAlt)
}

// List godoc
// @Summary      List jobs (public)
// @Description  Approved and active jobs, featured first
// @Tags         jobs
// @Produce      json
// @Param        search            query     string  false  "Title, description, company or skill"
// @Param        location          query     string  false  "City, state or country"
// @Param        job_type          query     string  false  "Job type"
// @Param        experience_level  query     string  false  "Experience level"
// @Param        salary_min        query     number  false  "Minimum salary"
// @Param        salary_max        query     number  false  "Maximum salary"
// @Param        remote            query     bool    false  "Remote only"
// @Param        featured          query     bool    false  "Featured only"
// @Param        page              query     int     false  "Page number"
// @Param        page_size         query     int     false  "Page size"
// @Success      200               {object}  response.Response
// @Failure      400               {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	salaryMin, ok := floatQuery(c, "salary_min")
	if !ok {
		return
	}
	salaryMax, ok := floatQuery(c, "salary_max")
	if !ok {
		return
	}

	filter := domain.JobFilter{
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		JobType:         c.Query("job_type"),
		ExperienceLevel: c.Query("experience_level"),
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
		Remote:          boolQuery(c, "remote"),
		Featured:        boolQuery(c, "featured"),
	}
	result, err := h.jobUC.ListPublicJobs(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job list", result)
}

// Get godoc
// @Summary      Get job details
// @Description  Counts a view. Unapproved jobs are visible to their poster and admins only.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job details", job)
}

// ListMine godoc
// @Summary      List own jobs
// @Description  Every job the caller posted, whatever its status
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /jobs/mine [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	result, err := h.jobUC.ListMyJobs(c.Request.Context(), middleware.ActorFrom(c), pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My jobs", result)
}

// Create godoc
// @Summary      Create a new job
// @Description  Create a job posting; it waits for admin approval
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.CreateJob(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created and submitted for approval", job)
}

// Update godoc
// @Summary      Update a job
// @Description  A rejected job returns to the approval queue when edited
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string           true  "Job ID"
// @Param        job  body      domain.JobInput  true  "Job JSON"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.UpdateJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// Delete godoc
// @Summary      Delete a job
// @Description  Removes the job and its applications
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// SetStatus godoc
// @Summary      Change job status
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Job ID"
// @Param        request  body      JobStatusRequest  true  "draft, active, paused or closed"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /jobs/{id}/status [patch]
// @Security     BearerAuth
func (h *JobHandler) SetStatus(c *gin.Context) {
	var req JobStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.SetStatus(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job status updated", job)
}

// ListPending godoc
// @Summary      Jobs awaiting approval (admin)
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /jobs/pending [get]
// @Security     BearerAuth
func (h *JobHandler) ListPending(c *gin.Context) {
	result, err := h.jobUC.ListPendingJobs(c.Request.Context(), middleware.ActorFrom(c), pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Pending jobs", result)
}

// Approve godoc
// @Summary      Approve a job (admin)
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response  "Job is not pending"
// @Router       /jobs/{id}/approve [patch]
// @Security     BearerAuth
func (h *JobHandler) Approve(c *gin.Context) {
	job, err := h.jobUC.ApproveJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job approved", job)
}

// Reject godoc
// @Summary      Reject a job (admin)
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Job ID"
// @Param        request  body      RejectJobRequest  true  "Reason"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /jobs/{id}/reject [patch]
// @Security     BearerAuth
func (h *JobHandler) Reject(c *gin.Context) {
	var req RejectJobRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	job, err := h.jobUC.RejectJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.reason())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job rejected", job)
}

// ToggleFeatured godoc
// @Summary      Toggle featured flag (admin)
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /jobs/{id}/feature [patch]
// @Security     BearerAuth
func (h *JobHandler) ToggleFeatured(c *gin.Context) {
	job, err := h.jobUC.ToggleFeatured(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job featured flag updated", job)
}
