package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// guardedApplications keeps one application in memory and applies the same
// compare-on-status rule as the real stores. Reads block until every expected
// reader has loaded, so racing callers all start from the same snapshot.
type guardedApplications struct {
	*MockApplicationRepo

	mu      sync.Mutex
	stored  domain.Application
	readers sync.WaitGroup
}

func newGuardedApplications(app *domain.Application, readers int) *guardedApplications {
	g := &guardedApplications{MockApplicationRepo: new(MockApplicationRepo), stored: *app}
	g.readers.Add(readers)
	return g
}

func (g *guardedApplications) GetByID(_ context.Context, id string) (*domain.Application, error) {
	g.mu.Lock()
	snapshot := g.stored
	snapshot.Notes = append([]domain.Note{}, g.stored.Notes...)
	g.mu.Unlock()

	g.readers.Done()
	g.readers.Wait()
	return &snapshot, nil
}

func (g *guardedApplications) Transition(_ context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stored.Status != from {
		return domain.ErrStaleWrite
	}
	g.stored.Status = app.Status
	g.stored.Interview = app.Interview
	return nil
}

func (g *guardedApplications) AppendNote(_ context.Context, _ string, note domain.Note, _ time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stored.Notes = append(g.stored.Notes, note)
	return nil
}

func (g *guardedApplications) current() domain.Application {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stored
}

func newGuardedUsecase(store *guardedApplications) (domain.ApplicationUsecase, *MockEmailSender) {
	jobs := new(MockJobRepo)
	jobs.On("GetByID", mock.Anything, "job-1").Return(openJob(), nil)
	users := new(MockUserRepo)
	users.On("GetByID", mock.Anything, jobseeker.ID).Return(seekerUser(), nil)
	mailer := new(MockEmailSender)
	mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	notifier := usecase.NewNotifier(mailer, nil, audit.Nop())
	return usecase.NewApplicationUsecase(store, jobs, users, notifier, audit.Nop()), mailer
}

func TestConcurrentDecisionsOnOneApplication(t *testing.T) {
	store := newGuardedApplications(appWithStatus(domain.ApplicationInterviewScheduled), 2)
	uc, mailer := newGuardedUsecase(store)

	decisions := []domain.ApplicationStatus{domain.ApplicationHired, domain.ApplicationRejected}
	errs := make([]error, len(decisions))
	var wg sync.WaitGroup
	for i, status := range decisions {
		wg.Add(1)
		go func(i int, status domain.ApplicationStatus) {
			defer wg.Done()
			_, errs[i] = uc.UpdateStatus(context.Background(), employer, "app-1", status)
		}(i, status)
	}
	wg.Wait()

	var won int
	for i, err := range errs {
		if err == nil {
			won++
			assert.Equal(t, decisions[i], store.current().Status)
			continue
		}
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	}
	assert.Equal(t, 1, won, "exactly one terminal decision may land")
	mailer.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestConcurrentNotesAreAllKept(t *testing.T) {
	store := newGuardedApplications(appWithStatus(domain.ApplicationReviewing), 2)
	uc, _ := newGuardedUsecase(store)

	contents := []string{"Strong portfolio", "Call back Monday"}
	var wg sync.WaitGroup
	for _, content := range contents {
		wg.Add(1)
		go func(content string) {
			defer wg.Done()
			_, err := uc.AddNote(context.Background(), employer, "app-1", content)
			assert.NoError(t, err)
		}(content)
	}
	wg.Wait()

	notes := store.current().Notes
	require.Len(t, notes, 2)
	var got []string
	for _, n := range notes {
		got = append(got, n.Content)
	}
	assert.ElementsMatch(t, contents, got)
}

func TestStaleApplicationWriteIsInvalidState(t *testing.T) {
	f := newApplicationFixture()
	f.apps.On("GetByID", mock.Anything, "app-1").Return(appWithStatus(domain.ApplicationShortlisted), nil)
	f.jobs.On("GetByID", mock.Anything, "job-1").Return(openJob(), nil)
	f.apps.On("Transition", mock.Anything, mock.Anything, domain.ApplicationShortlisted).Return(domain.ErrStaleWrite)

	_, err := f.uc.UpdateStatus(context.Background(), employer, "app-1", domain.ApplicationRejected)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
	f.mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestModerationIsGuardedOnPendingApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("approve writes only while the job is still pending", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)
		f.jobs.On("Update", mock.Anything, mock.Anything, domain.ApprovalPending).Return(nil)
		f.users.On("GetByID", mock.Anything, employer.ID).Return(employerUser(), nil)
		f.mailer.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.ApproveJob(ctx, admin, "job-1")
		require.NoError(t, err)
		f.jobs.AssertCalled(t, "Update", mock.Anything, mock.Anything, domain.ApprovalPending)
	})

	t.Run("losing a moderation race reports invalid state and sends nothing", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("GetByID", mock.Anything, "job-1").Return(pendingJob(), nil)
		f.jobs.On("Update", mock.Anything, mock.Anything, domain.ApprovalPending).Return(domain.ErrStaleWrite)

		_, err := f.uc.RejectJob(ctx, admin, "job-1", "Duplicate posting")
		assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))
		f.mailer.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}
