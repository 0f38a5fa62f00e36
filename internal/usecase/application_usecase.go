package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/logger"

	"github.com/google/uuid"
)

type applicationUsecase struct {
	appRepo  domain.ApplicationRepository
	jobRepo  domain.JobRepository
	userRepo domain.UserRepository
	notify   *Notifier
	audit    *audit.Logger
	now      func() time.Time
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	notify *Notifier,
	auditLog *audit.Logger,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		userRepo: userRepo,
		notify:   notify,
		audit:    auditLog,
		now:      time.Now,
	}
}

func duplicateApplication() error {
	return apperror.Wrap(http.StatusBadRequest, apperror.KindDuplicateApplication, "You have already applied for this job", domain.ErrDuplicateApplication)
}

// Apply creates a pending application for an approved, active job
func (u *applicationUsecase) Apply(ctx context.Context, actor domain.Actor, jobID, coverLetter string) (*domain.Application, error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceJob, ID: jobID}, domain.ActionJobApply); err != nil {
		return nil, err
	}

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}

	applicant, err := u.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	app, err := domain.NewApplication(uuid.NewString(), job, applicant, coverLetter, u.now())
	if err != nil {
		return nil, translate(err)
	}

	// Early friendly check; the unique (job, applicant) index decides races
	exists, err := u.appRepo.Exists(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, duplicateApplication()
	}

	if err := u.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicateApplication) {
			return nil, duplicateApplication()
		}
		return nil, translate(err)
	}

	app.JobTitle = job.Title
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "application", app.ID, "", string(app.Status))
	return app, nil
}

func (u *applicationUsecase) ListMyApplications(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	apps, err := u.appRepo.ListByApplicantID(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// Withdraw deletes the caller's own application and releases its job counter slot
func (u *applicationUsecase) Withdraw(ctx context.Context, actor domain.Actor, applicationID string) error {
	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return notFound(err, "Application not found")
	}
	if err := authorize(ctx, u.audit, actor, domain.ApplicationResource(app, nil), domain.ActionApplicationWithdraw); err != nil {
		return err
	}

	if err := u.appRepo.Delete(ctx, app); err != nil {
		return notFound(err, "Application not found")
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "application", app.ID, string(app.Status), "withdrawn")
	return nil
}

func (u *applicationUsecase) ListByJob(ctx context.Context, actor domain.Actor, jobID string) ([]domain.Application, error) {
	job, err := u.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), domain.ActionApplicationList); err != nil {
		return nil, err
	}

	apps, err := u.appRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	app, job, err := u.loadManaged(ctx, actor, applicationID, domain.ActionApplicationStatus)
	if err != nil {
		return nil, err
	}

	before := app.Status
	if err := app.UpdateStatus(status); err != nil {
		return nil, translate(err)
	}
	if before == app.Status {
		return app, nil
	}

	if err := u.transition(ctx, app, before); err != nil {
		return nil, err
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "application", app.ID, string(before), string(app.Status))

	if applicant := u.applicant(ctx, app); applicant != nil {
		u.notify.applicationStatus(ctx, applicant, job.Title, app.Status)
	}
	return app, nil
}

func (u *applicationUsecase) AddNote(ctx context.Context, actor domain.Actor, applicationID, content string) (*domain.Application, error) {
	app, _, err := u.loadManaged(ctx, actor, applicationID, domain.ActionApplicationNote)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if err := app.AddNote(content, actor.ID, now); err != nil {
		return nil, translate(err)
	}
	app.UpdatedAt = now
	if err := u.appRepo.AppendNote(ctx, app.ID, app.Notes[len(app.Notes)-1], now); err != nil {
		return nil, notFound(err, "Application not found")
	}
	return app, nil
}

func (u *applicationUsecase) ScheduleInterview(ctx context.Context, actor domain.Actor, applicationID string, input domain.InterviewInput) (*domain.Application, error) {
	app, job, err := u.loadManaged(ctx, actor, applicationID, domain.ActionApplicationInterview)
	if err != nil {
		return nil, err
	}

	before := app.Status
	if err := app.ScheduleInterview(input); err != nil {
		return nil, translate(err)
	}
	if err := u.transition(ctx, app, before); err != nil {
		return nil, err
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "application", app.ID, string(before), string(app.Status))

	if applicant := u.applicant(ctx, app); applicant != nil {
		u.notify.interview(ctx, applicant, job.Title, app.Interview)
	}
	return app, nil
}

// ListAll lists every application for admins
func (u *applicationUsecase) ListAll(ctx context.Context, actor domain.Actor, filter domain.ApplicationFilter, page domain.Page) (*domain.PaginatedResult[domain.Application], error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceApplication}, domain.ActionApplicationListAll); err != nil {
		return nil, err
	}

	page = page.Normalize()
	apps, total, err := u.appRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(apps, total, page), nil
}

// loadManaged loads an application with its job and checks the caller may manage it
func (u *applicationUsecase) loadManaged(ctx context.Context, actor domain.Actor, applicationID string, action domain.Action) (*domain.Application, *domain.Job, error) {
	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, notFound(err, "Application not found")
	}
	job, err := u.loadJob(ctx, app.JobID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.ApplicationResource(app, job), action); err != nil {
		return nil, nil, err
	}
	return app, job, nil
}

func (u *applicationUsecase) loadJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

// transition persists a status change only if nobody moved the application off from meanwhile
func (u *applicationUsecase) transition(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	app.UpdatedAt = u.now()
	if err := u.appRepo.Transition(ctx, app, from); err != nil {
		return notFound(err, "Application not found")
	}
	return nil
}

func (u *applicationUsecase) applicant(ctx context.Context, app *domain.Application) *domain.User {
	user, err := u.userRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		logger.Log.Warn("Applicant not found for notification", "application_id", app.ID, "error", err)
		return nil
	}
	return user
}
