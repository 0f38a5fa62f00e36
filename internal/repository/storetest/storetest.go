// Package storetest holds behavior every entity store must share. The postgres
// and mongo packages run it against a live database from their own tests.
package storetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"job-board-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repos is the subset of a store the shared checks drive
type Repos struct {
	Users        domain.UserRepository
	Companies    domain.CompanyRepository
	Jobs         domain.JobRepository
	Applications domain.ApplicationRepository
}

type seed struct {
	employer *domain.User
	seekers  []*domain.User
	job      *domain.Job
}

func newUser(role domain.Role, now time.Time) *domain.User {
	id := uuid.NewString()
	return &domain.User{
		ID:           id,
		FirstName:    "Test",
		LastName:     string(role),
		Email:        id + "@example.com",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplace",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// seedOpenJob stores an employer, their company, an approved active job and n candidates
func seedOpenJob(t *testing.T, ctx context.Context, r Repos, n int) *seed {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)

	s := &seed{employer: newUser(domain.RoleEmployer, now)}
	require.NoError(t, r.Users.Create(ctx, s.employer))

	company := &domain.Company{
		ID:        uuid.NewString(),
		OwnerID:   s.employer.ID,
		Name:      "Acme " + s.employer.ID[:8],
		Industry:  "Software",
		Size:      "11-50",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, r.Companies.Create(ctx, company))

	job, err := domain.NewJob(uuid.NewString(), company.ID, s.employer.ID, domain.JobInput{
		Title:           "Backend Engineer",
		Description:     strings.Repeat("Build and operate backend services. ", 3),
		Requirements:    "Go in production",
		Locations:       []domain.JobLocation{{City: "Berlin", Country: "DE"}},
		JobType:         "full-time",
		ExperienceLevel: "mid-level",
		Skills:          []string{"Go"},
	}, now)
	require.NoError(t, err)
	require.NoError(t, job.Approve(now))
	require.NoError(t, r.Jobs.Create(ctx, job))
	s.job = job

	for i := 0; i < n; i++ {
		seeker := newUser(domain.RoleJobSeeker, now)
		require.NoError(t, r.Users.Create(ctx, seeker))
		s.seekers = append(s.seekers, seeker)
	}
	return s
}

func apply(t *testing.T, ctx context.Context, r Repos, job *domain.Job, seeker *domain.User) (*domain.Application, error) {
	t.Helper()
	app, err := domain.NewApplication(uuid.NewString(), job, seeker, "", time.Now().UTC())
	require.NoError(t, err)
	return app, r.Applications.Create(ctx, app)
}

// assertCounter checks the job's denormalized counter against the live rows
func assertCounter(t *testing.T, ctx context.Context, r Repos, jobID string, want int) {
	t.Helper()
	job, err := r.Jobs.GetByID(ctx, jobID)
	require.NoError(t, err)
	live, err := r.Applications.ListByJobID(ctx, jobID)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, job.ApplicationsCount, 0)
	assert.Equal(t, len(live), job.ApplicationsCount, "counter must match live applications")
	assert.Equal(t, want, job.ApplicationsCount)
}

// RunApplicationCounter walks apply, duplicate apply, withdraw twice and
// applicant deletion, checking the job counter after every step.
func RunApplicationCounter(t *testing.T, r Repos) {
	ctx := context.Background()
	s := seedOpenJob(t, ctx, r, 2)

	first, err := apply(t, ctx, r, s.job, s.seekers[0])
	require.NoError(t, err)
	assertCounter(t, ctx, r, s.job.ID, 1)

	_, err = apply(t, ctx, r, s.job, s.seekers[0])
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	assertCounter(t, ctx, r, s.job.ID, 1)

	second, err := apply(t, ctx, r, s.job, s.seekers[1])
	require.NoError(t, err)
	assertCounter(t, ctx, r, s.job.ID, 2)

	require.NoError(t, r.Applications.Delete(ctx, second))
	assertCounter(t, ctx, r, s.job.ID, 1)

	err = r.Applications.Delete(ctx, second)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assertCounter(t, ctx, r, s.job.ID, 1)

	require.NoError(t, r.Users.Delete(ctx, s.seekers[0].ID))
	assertCounter(t, ctx, r, s.job.ID, 0)

	_, err = r.Applications.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// RunGuardedWrites checks that status writes compare against the status the
// caller read and that notes are appended rather than overwritten.
func RunGuardedWrites(t *testing.T, r Repos) {
	ctx := context.Background()
	s := seedOpenJob(t, ctx, r, 1)

	app, err := apply(t, ctx, r, s.job, s.seekers[0])
	require.NoError(t, err)

	t.Run("second writer from the same snapshot loses", func(t *testing.T) {
		hire := *app
		hire.Status = domain.ApplicationReviewing
		hire.UpdatedAt = time.Now().UTC()
		require.NoError(t, r.Applications.Transition(ctx, &hire, domain.ApplicationPending))

		reject := *app
		reject.Status = domain.ApplicationRejected
		reject.UpdatedAt = time.Now().UTC()
		err := r.Applications.Transition(ctx, &reject, domain.ApplicationPending)
		assert.ErrorIs(t, err, domain.ErrStaleWrite)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		stored, err := r.Applications.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationReviewing, stored.Status)
	})

	t.Run("missing application is not found", func(t *testing.T) {
		ghost := *app
		ghost.ID = uuid.NewString()
		err := r.Applications.Transition(ctx, &ghost, domain.ApplicationPending)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("notes from two writers are both kept", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, r.Applications.AppendNote(ctx, app.ID,
			domain.Note{Content: "Strong portfolio", AddedBy: s.employer.ID, AddedAt: now}, now))
		require.NoError(t, r.Applications.AppendNote(ctx, app.ID,
			domain.Note{Content: "Call back Monday", AddedBy: s.employer.ID, AddedAt: now}, now))

		stored, err := r.Applications.GetByID(ctx, app.ID)
		require.NoError(t, err)
		require.Len(t, stored.Notes, 2)
		assert.Equal(t, "Strong portfolio", stored.Notes[0].Content)
		assert.Equal(t, "Call back Monday", stored.Notes[1].Content)
	})

	t.Run("job moderation is guarded on approval status", func(t *testing.T) {
		job := *s.job
		job.RejectionReason = "late reject"
		job.ApprovalStatus = domain.ApprovalRejected
		err := r.Jobs.Update(ctx, &job, domain.ApprovalPending)
		assert.ErrorIs(t, err, domain.ErrStaleWrite)

		stored, err := r.Jobs.GetByID(ctx, s.job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalApproved, stored.ApprovalStatus)
	})
}
