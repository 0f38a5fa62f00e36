package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// JobStatus is the operational axis of a job
type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed:
		return true
	}
	return false
}

// ApprovalStatus is the moderation axis of a job
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

const DefaultSalaryCurrency = "USD"

type JobLocation struct {
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	Remote  bool   `json:"remote" bson:"remote"`
}

type Salary struct {
	Min      float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max      float64 `json:"max,omitempty" bson:"max,omitempty"`
	Currency string  `json:"currency" bson:"currency"`
	Period   string  `json:"period,omitempty" bson:"period,omitempty"`
}

type Job struct {
	ID                  string         `json:"id" bson:"_id"`
	CompanyID           string         `json:"company_id" bson:"company_id"`
	PostedBy            string         `json:"posted_by" bson:"posted_by"`
	Title               string         `json:"title" bson:"title"`
	Description         string         `json:"description" bson:"description"`
	Requirements        string         `json:"requirements" bson:"requirements"`
	Locations           []JobLocation  `json:"locations" bson:"locations"`
	Salary              Salary         `json:"salary" bson:"salary"`
	JobType             string         `json:"job_type" bson:"job_type"`
	ExperienceLevel     string         `json:"experience_level" bson:"experience_level"`
	Skills              []string       `json:"skills" bson:"skills"`
	Benefits            []string       `json:"benefits" bson:"benefits"`
	ApplicationDeadline *time.Time     `json:"application_deadline,omitempty" bson:"application_deadline,omitempty"`
	Status              JobStatus      `json:"status" bson:"status"`
	ApprovalStatus      ApprovalStatus `json:"approval_status" bson:"approval_status"`
	ApprovedAt          *time.Time     `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	RejectionReason     string         `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	Featured            bool           `json:"featured" bson:"featured"`
	ApplicationsCount   int            `json:"applications_count" bson:"applications_count"`
	ViewsCount          int            `json:"views_count" bson:"views_count"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" bson:"updated_at"`
}

// JobWithCompany extends Job with the posting company's public details
type JobWithCompany struct {
	Job             `bson:",inline"`
	CompanyName     string `json:"company_name" bson:"company_name"`
	CompanyIndustry string `json:"company_industry,omitempty" bson:"company_industry,omitempty"`
	CompanyVerified bool   `json:"company_verified" bson:"company_verified"`
}

// IsOpen reports whether the job accepts applications
func (j *Job) IsOpen() bool {
	return j.ApprovalStatus == ApprovalApproved && j.Status == JobStatusActive
}

// Approve moves a pending job to approved. A draft job goes live on approval.
func (j *Job) Approve(now time.Time) error {
	if j.ApprovalStatus != ApprovalPending {
		return fmt.Errorf("%w: job is %s, only pending jobs can be approved", ErrInvalidState, j.ApprovalStatus)
	}
	j.ApprovalStatus = ApprovalApproved
	j.ApprovedAt = &now
	j.RejectionReason = ""
	if j.Status == JobStatusDraft {
		j.Status = JobStatusActive
	}
	return nil
}

// Reject moves a pending job to rejected, recording the reason
func (j *Job) Reject(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return invalidField("rejection_reason", "rejection reason is required")
	}
	if j.ApprovalStatus != ApprovalPending {
		return fmt.Errorf("%w: job is %s, only pending jobs can be rejected", ErrInvalidState, j.ApprovalStatus)
	}
	j.ApprovalStatus = ApprovalRejected
	j.RejectionReason = reason
	return nil
}

// SetStatus changes the operational status. Any known value is accepted from any state.
func (j *Job) SetStatus(status JobStatus) error {
	if !status.Valid() {
		return invalidField("status", "status must be one of draft, active, paused, closed")
	}
	j.Status = status
	return nil
}

func (j *Job) ToggleFeatured() {
	j.Featured = !j.Featured
}

// Revise replaces the job's content. A rejected job goes back to the moderation queue.
func (j *Job) Revise(in JobInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	in.applyTo(j)
	if j.ApprovalStatus == ApprovalRejected {
		j.ApprovalStatus = ApprovalPending
		j.RejectionReason = ""
	}
	return nil
}

// JobInput is the payload for creating or updating a job
type JobInput struct {
	Title               string        `json:"title" binding:"required,min=5,max=100"`
	Description         string        `json:"description" binding:"required,min=50,max=5000"`
	Requirements        string        `json:"requirements" binding:"required,min=20,max=3000"`
	Locations           []JobLocation `json:"locations" binding:"required,min=1"`
	Salary              Salary        `json:"salary"`
	JobType             string        `json:"job_type" binding:"required,oneof=full-time part-time contract internship freelance"`
	ExperienceLevel     string        `json:"experience_level" binding:"required,oneof=entry-level mid-level senior-level executive"`
	Skills              []string      `json:"skills"`
	Benefits            []string      `json:"benefits"`
	ApplicationDeadline *time.Time    `json:"application_deadline"`
}

// Validate checks the cross-field rules binding tags cannot express
func (in JobInput) Validate() error {
	if in.Salary.Min < 0 || in.Salary.Max < 0 {
		return invalidField("salary", "salary cannot be negative")
	}
	if in.Salary.Max > 0 && in.Salary.Min > in.Salary.Max {
		return invalidField("salary", "minimum salary cannot exceed maximum salary")
	}
	switch in.Salary.Period {
	case "", "hourly", "monthly", "yearly":
	default:
		return invalidField("salary.period", "period must be one of hourly, monthly, yearly")
	}
	return nil
}

// NewJob builds a job awaiting moderation
func NewJob(id, companyID, postedBy string, in JobInput, now time.Time) (*Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	j := &Job{
		ID:             id,
		CompanyID:      companyID,
		PostedBy:       postedBy,
		Status:         JobStatusDraft,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.applyTo(j)
	return j, nil
}

func (in JobInput) applyTo(j *Job) {
	j.Title = strings.TrimSpace(in.Title)
	j.Description = in.Description
	j.Requirements = in.Requirements
	j.Locations = in.Locations
	j.Salary = in.Salary
	if j.Salary.Currency == "" {
		j.Salary.Currency = DefaultSalaryCurrency
	}
	j.JobType = in.JobType
	j.ExperienceLevel = in.ExperienceLevel
	j.Skills = normalizeList(in.Skills)
	j.Benefits = normalizeList(in.Benefits)
	j.ApplicationDeadline = in.ApplicationDeadline
}

// JobFilter narrows job listings. Public listings force approved+active.
type JobFilter struct {
	Search          string
	Location        string
	JobType         string
	ExperienceLevel string
	SalaryMin       float64
	SalaryMax       float64
	Remote          bool
	Featured        bool

	PostedBy       string
	Status         JobStatus
	ApprovalStatus ApprovalStatus
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	GetByIDWithCompany(ctx context.Context, id string) (*JobWithCompany, error)
	List(ctx context.Context, filter JobFilter, page Page) ([]JobWithCompany, int64, error)
	// Update persists the job only while its stored approval status still equals from,
	// otherwise it returns ErrStaleWrite
	Update(ctx context.Context, job *Job, from ApprovalStatus) error
	// Delete removes the job together with its applications
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type JobUsecase interface {
	ListPublicJobs(ctx context.Context, filter JobFilter, page Page) (*PaginatedResult[JobWithCompany], error)
	// GetJob hides unapproved jobs from everyone but their poster and admins
	GetJob(ctx context.Context, viewer Actor, id string) (*JobWithCompany, error)
	CreateJob(ctx context.Context, actor Actor, input JobInput) (*Job, error)
	UpdateJob(ctx context.Context, actor Actor, id string, input JobInput) (*Job, error)
	DeleteJob(ctx context.Context, actor Actor, id string) error
	ListMyJobs(ctx context.Context, actor Actor, page Page) (*PaginatedResult[JobWithCompany], error)
	SetStatus(ctx context.Context, actor Actor, id string, status JobStatus) (*Job, error)

	// Moderation
	ListPendingJobs(ctx context.Context, actor Actor, page Page) (*PaginatedResult[JobWithCompany], error)
	ApproveJob(ctx context.Context, actor Actor, id string) (*Job, error)
	RejectJob(ctx context.Context, actor Actor, id string, reason string) (*Job, error)
	ToggleFeatured(ctx context.Context, actor Actor, id string) (*Job, error)
}
