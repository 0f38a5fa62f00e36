package v1

import (
	"cmp"
	"fmt"
	"net/http"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{appUC: appUC}

	applications := protected.Group("/applications")
	{
		// Candidate
		applications.POST("", handler.Apply)
		applications.GET("/my-applications", handler.ListMine)
		applications.DELETE("/:id", handler.Withdraw)
	}

	// Job poster or admin; ownership of the job is checked by the usecase
	review := protected.Group("/applications", middleware.RequireRoles(domain.RoleEmployer, domain.RoleAdmin))
	{
		review.GET("/job/:jobId", handler.ListByJob)
		review.GET("/job/:jobId/export", handler.ExportByJob)
		review.PATCH("/:id/status", handler.UpdateStatus)
		review.POST("/:id/notes", handler.AddNote)
		review.POST("/:id/interview", handler.ScheduleInterview)
	}

	admin := protected.Group("/applications", middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("", handler.ListAll)
	}
}

// ApplyRequest takes jobId and coverLetter. The snake_case spellings are
// accepted too for clients built against the other response naming.
type ApplyRequest struct {
	JobID       string `json:"jobId" binding:"required_without=JobIDAlt"`
	CoverLetter string `json:"coverLetter" binding:"max=2000"`

	JobIDAlt       string `json:"job_id,omitempty" swaggerignore:"true"`
	CoverLetterAlt string `json:"cover_letter,omitempty" swaggerignore:"true" binding:"max=2000"`
}

func (r ApplyRequest) jobID() string {
	return cmp.Or(r.JobID, r.JobIDAlt)
}

func (r ApplyRequest) coverLetter() string {
	return cmp.Or(r.CoverLetter, r.CoverLetterAlt)
}

type ApplicationStatusRequest struct {
	Status domain.ApplicationStatus `json:"status" binding:"required"`
}

type NoteRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Job seekers and volunteers apply once per job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request  body      ApplyRequest  true  "Application"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response  "Validation, closed job or DuplicateApplication"
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.Apply(c.Request.Context(), middleware.ActorFrom(c), req.jobID(), req.coverLetter())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted successfully", app)
}

// ListMine godoc
// @Summary      List own applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /applications/my-applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	apps, err := h.appUC.ListMyApplications(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "My applications", apps)
}

// Withdraw godoc
// @Summary      Withdraw an application
// @Description  Only the applicant may withdraw
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	if err := h.appUC.Withdraw(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application withdrawn successfully", nil)
}

// ListByJob godoc
// @Summary      List applications of a job
// @Tags         applications
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /applications/job/{jobId} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListByJob(c *gin.Context) {
	apps, err := h.appUC.ListByJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job applications", apps)
}

// ExportByJob godoc
// @Summary      Export applications of a job
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        jobId   path      string  true   "Job ID"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200     {file}    binary
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /applications/job/{jobId}/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ExportByJob(c *gin.Context) {
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportXLSX)))
	file, err := h.appUC.ExportByJob(c.Request.Context(), middleware.ActorFrom(c), c.Param("jobId"), format)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// UpdateStatus godoc
// @Summary      Move an application through review
// @Description  pending, reviewing, shortlisted, hired or rejected; interviews use their own endpoint
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Application ID"
// @Param        request  body      ApplicationStatusRequest  true  "Status"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /applications/{id}/status [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req ApplicationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// AddNote godoc
// @Summary      Add a reviewer note
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "Application ID"
// @Param        request  body      NoteRequest  true  "Note"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /applications/{id}/notes [post]
// @Security     BearerAuth
func (h *ApplicationHandler) AddNote(c *gin.Context) {
	var req NoteRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.AddNote(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Note added", app)
}

// ScheduleInterview godoc
// @Summary      Schedule an interview
// @Description  Only shortlisted applications can be scheduled
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Application ID"
// @Param        request  body      domain.InterviewInput  true  "Interview"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /applications/{id}/interview [post]
// @Security     BearerAuth
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	var req domain.InterviewInput
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appUC.ScheduleInterview(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview scheduled", app)
}

// ListAll godoc
// @Summary      List all applications (admin)
// @Tags         applications
// @Produce      json
// @Param        status        query     string  false  "Status"
// @Param        job_id        query     string  false  "Job ID"
// @Param        applicant_id  query     string  false  "Applicant ID"
// @Param        page          query     int     false  "Page number"
// @Param        page_size     query     int     false  "Page size"
// @Success      200           {object}  response.Response
// @Failure      403           {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	filter := domain.ApplicationFilter{
		JobID:       c.Query("job_id"),
		ApplicantID: c.Query("applicant_id"),
		Status:      domain.ApplicationStatus(c.Query("status")),
	}
	result, err := h.appUC.ListAll(c.Request.Context(), middleware.ActorFrom(c), filter, pageFromQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications", result)
}
