package usecase_test

import (
	"context"
	"time"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, int64, error) {
	args := m.Called(ctx, filter, page)
	users, _ := args.Get(0).([]domain.User)
	return users, int64(args.Int(1)), args.Error(2)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}
func (m *MockCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}
func (m *MockCompanyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Company, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) List(ctx context.Context, filter domain.CompanyFilter, page domain.Page) ([]domain.Company, int64, error) {
	args := m.Called(ctx, filter, page)
	companies, _ := args.Get(0).([]domain.Company)
	return companies, int64(args.Int(1)), args.Error(2)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job, from domain.ApprovalStatus) error {
	return m.Called(ctx, job, from).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockJobRepo) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) GetByIDWithCompany(ctx context.Context, id string) (*domain.JobWithCompany, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobWithCompany), args.Error(1)
}
func (m *MockJobRepo) List(ctx context.Context, filter domain.JobFilter, page domain.Page) ([]domain.JobWithCompany, int64, error) {
	args := m.Called(ctx, filter, page)
	jobs, _ := args.Get(0).([]domain.JobWithCompany)
	return jobs, int64(args.Int(1)), args.Error(2)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) Transition(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	return m.Called(ctx, app, from).Error(0)
}
func (m *MockApplicationRepo) AppendNote(ctx context.Context, id string, note domain.Note, updatedAt time.Time) error {
	return m.Called(ctx, id, note, updatedAt).Error(0)
}
func (m *MockApplicationRepo) Delete(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) List(ctx context.Context, filter domain.ApplicationFilter, page domain.Page) ([]domain.Application, int64, error) {
	args := m.Called(ctx, filter, page)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, int64(args.Int(1)), args.Error(2)
}
func (m *MockApplicationRepo) ListByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, args.Error(1)
}
func (m *MockApplicationRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	args := m.Called(ctx, applicantID)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, args.Error(1)
}

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminStats), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockOtpIssuer struct {
	mock.Mock
}

func (m *MockOtpIssuer) Issue(ctx context.Context, subject string) (string, time.Time, error) {
	args := m.Called(ctx, subject)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockOtpIssuer) Verify(ctx context.Context, subject, code string) (bool, error) {
	args := m.Called(ctx, subject, code)
	return args.Bool(0), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}
func (m *MockTokenIssuer) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var (
	admin     = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	employer  = domain.Actor{ID: "employer-1", Role: domain.RoleEmployer}
	intruder  = domain.Actor{ID: "employer-2", Role: domain.RoleEmployer}
	jobseeker = domain.Actor{ID: "seeker-1", Role: domain.RoleJobSeeker}
	stranger  = domain.Actor{ID: "seeker-2", Role: domain.RoleJobSeeker}
)

func pendingJob() *domain.Job {
	return &domain.Job{
		ID:             "job-1",
		CompanyID:      "company-1",
		PostedBy:       employer.ID,
		Title:          "Senior Go Engineer",
		Status:         domain.JobStatusDraft,
		ApprovalStatus: domain.ApprovalPending,
	}
}

func openJob() *domain.Job {
	job := pendingJob()
	job.Status = domain.JobStatusActive
	job.ApprovalStatus = domain.ApprovalApproved
	return job
}

func appWithStatus(status domain.ApplicationStatus) *domain.Application {
	return &domain.Application{
		ID:          "app-1",
		JobID:       "job-1",
		ApplicantID: jobseeker.ID,
		Status:      status,
		Notes:       []domain.Note{},
	}
}

func seekerUser() *domain.User {
	return &domain.User{
		ID:        jobseeker.ID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      domain.RoleJobSeeker,
		IsActive:  true,
		Resume:    &domain.FileRef{Filename: "cv.pdf", Path: "/uploads/cv.pdf"},
	}
}

func employerUser() *domain.User {
	return &domain.User{
		ID:        employer.ID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Role:      domain.RoleEmployer,
		IsActive:  true,
	}
}

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) Blocked(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) RecordFailure(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) Clear(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
