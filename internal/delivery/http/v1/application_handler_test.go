package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-board-backend/internal/delivery/http/middleware"
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockApplicationUC struct {
	mock.Mock
}

func (m *MockApplicationUC) Apply(ctx context.Context, actor domain.Actor, jobID, coverLetter string) (*domain.Application, error) {
	args := m.Called(ctx, actor, jobID, coverLetter)
	app, _ := args.Get(0).(*domain.Application)
	return app, args.Error(1)
}
func (m *MockApplicationUC) ListMyApplications(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	args := m.Called(ctx, actor)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, args.Error(1)
}
func (m *MockApplicationUC) Withdraw(ctx context.Context, actor domain.Actor, applicationID string) error {
	return m.Called(ctx, actor, applicationID).Error(0)
}
func (m *MockApplicationUC) ListByJob(ctx context.Context, actor domain.Actor, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, actor, jobID)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, args.Error(1)
}
func (m *MockApplicationUC) ExportByJob(ctx context.Context, actor domain.Actor, jobID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	args := m.Called(ctx, actor, jobID, format)
	file, _ := args.Get(0).(*domain.ExportFile)
	return file, args.Error(1)
}
func (m *MockApplicationUC) UpdateStatus(ctx context.Context, actor domain.Actor, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	args := m.Called(ctx, actor, applicationID, status)
	app, _ := args.Get(0).(*domain.Application)
	return app, args.Error(1)
}
func (m *MockApplicationUC) AddNote(ctx context.Context, actor domain.Actor, applicationID, content string) (*domain.Application, error) {
	args := m.Called(ctx, actor, applicationID, content)
	app, _ := args.Get(0).(*domain.Application)
	return app, args.Error(1)
}
func (m *MockApplicationUC) ScheduleInterview(ctx context.Context, actor domain.Actor, applicationID string, input domain.InterviewInput) (*domain.Application, error) {
	args := m.Called(ctx, actor, applicationID, input)
	app, _ := args.Get(0).(*domain.Application)
	return app, args.Error(1)
}
func (m *MockApplicationUC) ListAll(ctx context.Context, actor domain.Actor, filter domain.ApplicationFilter, page domain.Page) (*domain.PaginatedResult[domain.Application], error) {
	args := m.Called(ctx, actor, filter, page)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.Application])
	return result, args.Error(1)
}

// newApplicationRouter mounts the handler behind a fake authentication step
func newApplicationRouter(uc domain.ApplicationUsecase, actor domain.Actor) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	protected := r.Group("/v1", func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), actor.ID)
		c.Set(string(domain.KeyUserRole), string(actor.Role))
		c.Next()
	})
	v1.NewApplicationHandler(protected, uc)
	return r
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Kind   string   `json:"kind"`
		Errors []string `json:"errors"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestApplicationHandler_Apply(t *testing.T) {
	seeker := domain.Actor{ID: "seeker-1", Role: domain.RoleJobSeeker}

	t.Run("Success", func(t *testing.T) {
		uc := new(MockApplicationUC)
		uc.On("Apply", mock.Anything, seeker, "job-1", "hi").
			Return(&domain.Application{ID: "app-1", JobID: "job-1", ApplicantID: "seeker-1", Status: domain.ApplicationPending}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"jobId":"job-1","coverLetter":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		newApplicationRouter(uc, seeker).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
		uc.AssertExpectations(t)
	})

	t.Run("Snake case keys", func(t *testing.T) {
		uc := new(MockApplicationUC)
		uc.On("Apply", mock.Anything, seeker, "job-1", "Hello").
			Return(&domain.Application{ID: "app-1", JobID: "job-1", ApplicantID: "seeker-1", Status: domain.ApplicationPending}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"job_id":"job-1","cover_letter":"Hello"}`))
		req.Header.Set("Content-Type", "application/json")
		newApplicationRouter(uc, seeker).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
		uc.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		uc := new(MockApplicationUC)
		uc.On("Apply", mock.Anything, seeker, "job-1", "").
			Return(nil, apperror.DuplicateApplication("You have already applied for this job"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"jobId":"job-1"}`))
		req.Header.Set("Content-Type", "application/json")
		newApplicationRouter(uc, seeker).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DuplicateApplication", decodeError(t, w).Error.Kind)
	})

	t.Run("Missing job id", func(t *testing.T) {
		uc := new(MockApplicationUC)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		newApplicationRouter(uc, seeker).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "ValidationError", body.Error.Kind)
		assert.Equal(t, []string{"jobId: Job is required"}, body.Error.Errors)
		uc.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplicationHandler_Withdraw(t *testing.T) {
	employer := domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}

	t.Run("Not the applicant", func(t *testing.T) {
		uc := new(MockApplicationUC)
		uc.On("Withdraw", mock.Anything, employer, "app-1").
			Return(apperror.Forbidden("Only the applicant can withdraw an application"))

		w := httptest.NewRecorder()
		newApplicationRouter(uc, employer).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/applications/app-1", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "AccessDenied", decodeError(t, w).Error.Kind)
	})

	t.Run("Unknown application", func(t *testing.T) {
		uc := new(MockApplicationUC)
		uc.On("Withdraw", mock.Anything, employer, "missing").
			Return(apperror.NotFound("Application not found"))

		w := httptest.NewRecorder()
		newApplicationRouter(uc, employer).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/applications/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NotFound", decodeError(t, w).Error.Kind)
	})
}

func TestApplicationHandler_UpdateStatus(t *testing.T) {
	employer := domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}

	uc := new(MockApplicationUC)
	uc.On("UpdateStatus", mock.Anything, employer, "app-1", domain.ApplicationHired).
		Return(nil, apperror.InvalidState("cannot move application from pending to hired"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/v1/applications/app-1/status", strings.NewReader(`{"status":"hired"}`))
	req.Header.Set("Content-Type", "application/json")
	newApplicationRouter(uc, employer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidState", decodeError(t, w).Error.Kind)
	uc.AssertExpectations(t)
}

func TestApplicationHandler_Export(t *testing.T) {
	employer := domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}

	uc := new(MockApplicationUC)
	uc.On("ExportByJob", mock.Anything, employer, "job-1", domain.ExportCSV).
		Return(&domain.ExportFile{Filename: "applications.csv", ContentType: "text/csv", Data: []byte("a,b\n")}, nil)

	w := httptest.NewRecorder()
	newApplicationRouter(uc, employer).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/applications/job/job-1/export?format=csv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="applications.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestApplicationHandler_ListAllRequiresAdmin(t *testing.T) {
	uc := new(MockApplicationUC)

	w := httptest.NewRecorder()
	newApplicationRouter(uc, domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/applications", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	uc.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationHandler_ReviewRoutesRequireEmployerOrAdmin(t *testing.T) {
	seeker := domain.Actor{ID: "seeker-1", Role: domain.RoleJobSeeker}
	routes := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/v1/applications/job/job-1", ""},
		{http.MethodGet, "/v1/applications/job/job-1/export", ""},
		{http.MethodPatch, "/v1/applications/app-1/status", `{"status":"hired"}`},
		{http.MethodPost, "/v1/applications/app-1/notes", `{"content":"self review"}`},
		{http.MethodPost, "/v1/applications/app-1/interview", `{"date":"2026-11-02","time":"10:00","type":"phone"}`},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			uc := new(MockApplicationUC)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			req.Header.Set("Content-Type", "application/json")
			newApplicationRouter(uc, seeker).ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, "AccessDenied", decodeError(t, w).Error.Kind)
			assert.Empty(t, uc.Calls)
		})
	}

	t.Run("admin passes the gate", func(t *testing.T) {
		admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
		uc := new(MockApplicationUC)
		uc.On("ListByJob", mock.Anything, admin, "job-1").Return([]domain.Application{}, nil)

		w := httptest.NewRecorder()
		newApplicationRouter(uc, admin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/applications/job/job-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})
}
