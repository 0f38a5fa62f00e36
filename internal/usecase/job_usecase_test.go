package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	jobs      *MockJobRepo
	companies *MockCompanyRepo
	users     *MockUserRepo
	mailer    *MockEmailSender
	uc        domain.JobUsecase
}

func newJobFixture() *jobFixture {
	f := &jobFixture{
		jobs:      new(MockJobRepo),
		companies: new(MockCompanyRepo),
		users:     new(MockUserRepo),
		mailer:    new(MockEmailSender),
	}
	notifier := usecase.NewNotifier(f.mailer, nil, audit.Nop())
	f.uc = usecase.NewJobUsecase(f.jobs, f.companies, f.users, notifier, audit.Nop())
	return f
}

func validJobInput() domain.JobInput {
	return domain.JobInput{
		Title:           "Senior Go Engineer",
		Description:     strings.Repeat("Build and operate backend services. ", 3),
		Requirements:    "Five years of Go in production",
		Locations:       []domain.JobLocation{{City: "Berlin", Country: "DE"}},
		JobType:         "full-time",
		ExperienceLevel: "senior-level",
		Skills:          []string{"Go", " Go ", "Postgres"},
	}
}

func TestApproveJob(t *testing.T) {
	ctx := context.Background()

	t.Run("approves a pending job, activates it and notifies the poster", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)
		f.jobs.On("Update", mock.Anything, mock.AnythingOfType("*domain.Job"), mock.Anything).Return(nil)
		f.users.On("GetByID", mock.Anything, employer.ID).Return(employerUser(), nil)
		f.mailer.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg domain.Message) bool {
			return msg.To == "grace@example.com"
		})).Return(nil)

		job, err := f.uc.ApproveJob(ctx, admin, "job-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalApproved, job.ApprovalStatus)
		assert.Equal(t, domain.JobStatusActive, job.Status)
		assert.NotNil(t, job.ApprovedAt)
		f.mailer.AssertNumberOfCalls(t, "SendEmail", 1)
	})

	t.Run("approving twice fails with InvalidState and writes nothing", func(t *testing.T) {
		f := newJobFixture()
		stored := pendingJob()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(stored, nil)
		f.jobs.On("Update", mock.Anything, mock.AnythingOfType("*domain.Job"), mock.Anything).Return(nil).Once()
		f.users.On("GetByID", mock.Anything, employer.ID).Return(employerUser(), nil)
		f.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.ApproveJob(ctx, admin, "job-1")
		require.NoError(t, err)

		_, err = f.uc.ApproveJob(ctx, admin, "job-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
		f.jobs.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("non-admin cannot approve", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)

		_, err := f.uc.ApproveJob(ctx, employer, "job-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAccessDenied))
		f.jobs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the approval", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)
		f.jobs.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.users.On("GetByID", mock.Anything, employer.ID).Return(employerUser(), nil)
		f.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		job, err := f.uc.ApproveJob(ctx, admin, "job-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalApproved, job.ApprovalStatus)
	})
}

func TestRejectJob(t *testing.T) {
	ctx := context.Background()

	t.Run("empty reason is a validation error and the job is untouched", func(t *testing.T) {
		f := newJobFixture()
		stored := pendingJob()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(stored, nil)

		_, err := f.uc.RejectJob(ctx, admin, "job-1", "   ")
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Equal(t, domain.ApprovalPending, stored.ApprovalStatus)
		f.jobs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects with reason and notifies the poster", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)
		f.jobs.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.users.On("GetByID", mock.Anything, employer.ID).Return(employerUser(), nil)
		f.mailer.On("SendEmail", mock.Anything, mock.MatchedBy(func(msg domain.Message) bool {
			return strings.Contains(msg.Body, "Salary missing")
		})).Return(nil)

		job, err := f.uc.RejectJob(ctx, admin, "job-1", "Salary missing")
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalRejected, job.ApprovalStatus)
		assert.Equal(t, "Salary missing", job.RejectionReason)
		f.mailer.AssertExpectations(t)
	})

	t.Run("approved job cannot be rejected", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(openJob(), nil)

		_, err := f.uc.RejectJob(ctx, admin, "job-1", "late")
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	})
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a company profile", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByOwnerID", mock.Anything, employer.ID).Return(nil, domain.ErrNotFound)

		_, err := f.uc.CreateJob(ctx, employer, validJobInput())
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
		f.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("job seekers cannot post", func(t *testing.T) {
		f := newJobFixture()
		_, err := f.uc.CreateJob(ctx, jobseeker, validJobInput())
		assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))
	})

	t.Run("creates a draft awaiting approval", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByOwnerID", mock.Anything, employer.ID).Return(&domain.Company{ID: "company-1", OwnerID: employer.ID, IsActive: true}, nil)
		f.jobs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)

		job, err := f.uc.CreateJob(ctx, employer, validJobInput())
		require.NoError(t, err)
		assert.NotEmpty(t, job.ID)
		assert.Equal(t, "company-1", job.CompanyID)
		assert.Equal(t, domain.JobStatusDraft, job.Status)
		assert.Equal(t, domain.ApprovalPending, job.ApprovalStatus)
		assert.Equal(t, []string{"Go", "Postgres"}, job.Skills)
		assert.Equal(t, domain.DefaultSalaryCurrency, job.Salary.Currency)
	})
}

func TestUpdateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("other employers cannot edit", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)

		_, err := f.uc.UpdateJob(ctx, intruder, "job-1", validJobInput())
		assert.True(t, errors.Is(err, domain.ErrAccessDenied))
		f.jobs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("editing a rejected job resubmits it", func(t *testing.T) {
		f := newJobFixture()
		rejected := pendingJob()
		rejected.ApprovalStatus = domain.ApprovalRejected
		rejected.RejectionReason = "vague"
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(rejected, nil)
		f.jobs.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		job, err := f.uc.UpdateJob(ctx, employer, "job-1", validJobInput())
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalPending, job.ApprovalStatus)
		assert.Empty(t, job.RejectionReason)
	})
}

func TestSetJobStatus(t *testing.T) {
	ctx := context.Background()

	f := newJobFixture()
	f.jobs.On("GetByID", mock.Anything, "job-1").Return(openJob(), nil)
	f.jobs.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	job, err := f.uc.SetStatus(ctx, employer, "job-1", domain.JobStatusPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPaused, job.Status)

	_, err = f.uc.SetStatus(ctx, employer, "job-1", domain.JobStatus("archived"))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetJob(t *testing.T) {
	ctx := context.Background()

	t.Run("hides pending jobs from the public", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByIDWithCompany", mock.Anything, "job-1").Return(&domain.JobWithCompany{Job: *pendingJob()}, nil)

		_, err := f.uc.GetJob(ctx, domain.Actor{}, "job-1")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		f.jobs.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})

	t.Run("poster can view their pending job", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByIDWithCompany", mock.Anything, "job-1").Return(&domain.JobWithCompany{Job: *pendingJob()}, nil)
		f.jobs.On("IncrementViews", mock.Anything, "job-1").Return(nil)

		job, err := f.uc.GetJob(ctx, employer, "job-1")
		require.NoError(t, err)
		assert.Equal(t, 1, job.ViewsCount)
	})

	t.Run("view counter failure is not fatal", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByIDWithCompany", mock.Anything, "job-1").Return(&domain.JobWithCompany{Job: *openJob()}, nil)
		f.jobs.On("IncrementViews", mock.Anything, "job-1").Return(errors.New("timeout"))

		job, err := f.uc.GetJob(ctx, domain.Actor{}, "job-1")
		require.NoError(t, err)
		assert.Equal(t, 0, job.ViewsCount)
	})

	t.Run("missing job", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByIDWithCompany", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

		_, err := f.uc.GetJob(ctx, admin, "nope")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestListPublicJobsForcesVisibility(t *testing.T) {
	f := newJobFixture()
	f.jobs.On("List", mock.Anything, mock.MatchedBy(func(filter domain.JobFilter) bool {
		return filter.Status == domain.JobStatusActive && filter.ApprovalStatus == domain.ApprovalApproved && filter.JobType == "contract"
	}), domain.Page{Page: 1, PageSize: 10}).Return([]domain.JobWithCompany{{Job: *openJob()}}, 1, nil)

	result, err := f.uc.ListPublicJobs(context.Background(), domain.JobFilter{
		JobType:        "contract",
		ApprovalStatus: domain.ApprovalPending,
	}, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 1, result.TotalPages)
}
