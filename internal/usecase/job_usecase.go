package usecase

import (
	"context"
	"errors"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/logger"

	"github.com/google/uuid"
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	userRepo    domain.UserRepository
	notify      *Notifier
	audit       *audit.Logger
	now         func() time.Time
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	userRepo domain.UserRepository,
	notify *Notifier,
	auditLog *audit.Logger,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		notify:      notify,
		audit:       auditLog,
		now:         time.Now,
	}
}

// ListPublicJobs returns only approved, active jobs
// SECURITY: This enforces server-side filtering - client cannot bypass
func (u *jobUsecase) ListPublicJobs(ctx context.Context, filter domain.JobFilter, page domain.Page) (*domain.PaginatedResult[domain.JobWithCompany], error) {
	filter.Status = domain.JobStatusActive
	filter.ApprovalStatus = domain.ApprovalApproved
	filter.PostedBy = ""
	return u.list(ctx, filter, page)
}

func (u *jobUsecase) GetJob(ctx context.Context, viewer domain.Actor, id string) (*domain.JobWithCompany, error) {
	job, err := u.jobRepo.GetByIDWithCompany(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}

	if job.ApprovalStatus != domain.ApprovalApproved && !viewer.IsAdmin() && viewer.ID != job.PostedBy {
		return nil, apperror.NotFound("Job not found")
	}

	if err := u.jobRepo.IncrementViews(ctx, id); err != nil {
		logger.Log.Warn("Failed to increment job views", "job_id", id, "error", err)
	} else {
		job.ViewsCount++
	}
	return job, nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, actor domain.Actor, input domain.JobInput) (*domain.Job, error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceJob}, domain.ActionJobCreate); err != nil {
		return nil, err
	}

	company, err := u.companyRepo.GetByOwnerID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.InvalidState("Please create a company profile first")
		}
		return nil, apperror.Internal(err)
	}
	if !company.IsActive {
		return nil, apperror.InvalidState("Your company has been deactivated")
	}

	job, err := domain.NewJob(uuid.NewString(), company.ID, actor.ID, input, u.now())
	if err != nil {
		return nil, translate(err)
	}

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, translate(err)
	}

	u.audit.Transition(ctx, actor.ID, string(actor.Role), "job", job.ID, "", string(job.ApprovalStatus))
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, actor domain.Actor, id string, input domain.JobInput) (*domain.Job, error) {
	job, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), domain.ActionJobUpdate); err != nil {
		return nil, err
	}

	before := job.ApprovalStatus
	if err := job.Revise(input); err != nil {
		return nil, translate(err)
	}
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job, before); err != nil {
		return nil, translate(err)
	}

	if before != job.ApprovalStatus {
		u.audit.Transition(ctx, actor.ID, string(actor.Role), "job", job.ID, string(before), string(job.ApprovalStatus))
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, actor domain.Actor, id string) error {
	job, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), domain.ActionJobDelete); err != nil {
		return err
	}
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		return notFound(err, "Job not found")
	}
	return nil
}

// ListMyJobs returns every job the caller posted regardless of status
func (u *jobUsecase) ListMyJobs(ctx context.Context, actor domain.Actor, page domain.Page) (*domain.PaginatedResult[domain.JobWithCompany], error) {
	return u.list(ctx, domain.JobFilter{PostedBy: actor.ID}, page)
}

func (u *jobUsecase) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.JobStatus) (*domain.Job, error) {
	job, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), domain.ActionJobSetStatus); err != nil {
		return nil, err
	}

	before := job.Status
	if err := job.SetStatus(status); err != nil {
		return nil, translate(err)
	}
	if before == job.Status {
		return job, nil
	}
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job, job.ApprovalStatus); err != nil {
		return nil, translate(err)
	}
	u.audit.Transition(ctx, actor.ID, string(actor.Role), "job.status", job.ID, string(before), string(job.Status))
	return job, nil
}

func (u *jobUsecase) ListPendingJobs(ctx context.Context, actor domain.Actor, page domain.Page) (*domain.PaginatedResult[domain.JobWithCompany], error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceJob}, domain.ActionJobModerate); err != nil {
		return nil, err
	}
	return u.list(ctx, domain.JobFilter{ApprovalStatus: domain.ApprovalPending}, page)
}

func (u *jobUsecase) ApproveJob(ctx context.Context, actor domain.Actor, id string) (*domain.Job, error) {
	return u.moderate(ctx, actor, id, domain.ActionJobApprove, func(job *domain.Job) error {
		return job.Approve(u.now())
	})
}

func (u *jobUsecase) RejectJob(ctx context.Context, actor domain.Actor, id string, reason string) (*domain.Job, error) {
	return u.moderate(ctx, actor, id, domain.ActionJobReject, func(job *domain.Job) error {
		return job.Reject(reason)
	})
}

func (u *jobUsecase) ToggleFeatured(ctx context.Context, actor domain.Actor, id string) (*domain.Job, error) {
	job, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), domain.ActionJobFeature); err != nil {
		return nil, err
	}

	job.ToggleFeatured()
	job.UpdatedAt = u.now()
	if err := u.jobRepo.Update(ctx, job, job.ApprovalStatus); err != nil {
		return nil, translate(err)
	}
	return job, nil
}

// moderate applies an approval-axis transition and notifies the poster
func (u *jobUsecase) moderate(ctx context.Context, actor domain.Actor, id string, action domain.Action, transition func(*domain.Job) error) (*domain.Job, error) {
	job, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, u.audit, actor, domain.JobResource(job), action); err != nil {
		return nil, err
	}

	before := job.ApprovalStatus
	if err := transition(job); err != nil {
		return nil, translate(err)
	}
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job, before); err != nil {
		return nil, translate(err)
	}

	u.audit.Transition(ctx, actor.ID, string(actor.Role), "job", job.ID, string(before), string(job.ApprovalStatus))

	poster, err := u.userRepo.GetByID(ctx, job.PostedBy)
	if err != nil {
		logger.Log.Warn("Job poster not found for notification", "job_id", job.ID, "error", err)
		return job, nil
	}
	u.notify.jobDecision(ctx, poster, job)
	return job, nil
}

func (u *jobUsecase) load(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

func (u *jobUsecase) list(ctx context.Context, filter domain.JobFilter, page domain.Page) (*domain.PaginatedResult[domain.JobWithCompany], error) {
	page = page.Normalize()
	jobs, total, err := u.jobRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return domain.NewPaginatedResult(jobs, total, page), nil
}
