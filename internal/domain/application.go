package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

// Application status constants
const (
	ApplicationPending            ApplicationStatus = "pending"
	ApplicationReviewing          ApplicationStatus = "reviewing"
	ApplicationShortlisted        ApplicationStatus = "shortlisted"
	ApplicationInterviewScheduled ApplicationStatus = "interview-scheduled"
	ApplicationHired              ApplicationStatus = "hired"
	ApplicationRejected           ApplicationStatus = "rejected"
)

// applicationTransitions lists the statuses reachable by a plain status update.
// interview-scheduled is only entered through ScheduleInterview.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:            {ApplicationReviewing, ApplicationRejected},
	ApplicationReviewing:          {ApplicationShortlisted, ApplicationRejected},
	ApplicationShortlisted:        {ApplicationRejected},
	ApplicationInterviewScheduled: {ApplicationHired, ApplicationRejected},
	ApplicationHired:              {},
	ApplicationRejected:           {},
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationHired || s == ApplicationRejected
}

// CanTransitionTo reports whether a plain status update may move s to next
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Interview types
const (
	InterviewPhone    = "phone"
	InterviewVideo    = "video"
	InterviewInPerson = "in-person"
)

const MaxCoverLetterLength = 2000

type Note struct {
	Content string    `json:"content" bson:"content"`
	AddedBy string    `json:"added_by" bson:"added_by"`
	AddedAt time.Time `json:"added_at" bson:"added_at"`
}

type Interview struct {
	Scheduled bool   `json:"scheduled" bson:"scheduled"`
	Date      string `json:"date" bson:"date"`
	Time      string `json:"time" bson:"time"`
	Location  string `json:"location,omitempty" bson:"location,omitempty"`
	Type      string `json:"type" bson:"type"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Application is a candidate's application to a job
type Application struct {
	ID          string            `json:"id" bson:"_id"`
	JobID       string            `json:"job_id" bson:"job_id"`
	ApplicantID string            `json:"applicant_id" bson:"applicant_id"`
	CoverLetter string            `json:"cover_letter,omitempty" bson:"cover_letter,omitempty"`
	Resume      *FileRef          `json:"resume,omitempty" bson:"resume,omitempty"`
	Status      ApplicationStatus `json:"status" bson:"status"`
	Notes       []Note            `json:"notes" bson:"notes"`
	Interview   *Interview        `json:"interview,omitempty" bson:"interview,omitempty"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`

	// Joined data for list responses
	JobTitle       string `json:"job_title,omitempty" bson:"job_title,omitempty"`
	CompanyName    string `json:"company_name,omitempty" bson:"company_name,omitempty"`
	ApplicantName  string `json:"applicant_name,omitempty" bson:"applicant_name,omitempty"`
	ApplicantEmail string `json:"applicant_email,omitempty" bson:"applicant_email,omitempty"`
}

// NewApplication creates a pending application. The job must be approved and active.
func NewApplication(id string, job *Job, applicant *User, coverLetter string, now time.Time) (*Application, error) {
	if !job.IsOpen() {
		return nil, fmt.Errorf("%w: job is not accepting applications", ErrInvalidState)
	}
	coverLetter = strings.TrimSpace(coverLetter)
	if len([]rune(coverLetter)) > MaxCoverLetterLength {
		return nil, invalidField("cover_letter", "cover letter cannot exceed 2000 characters")
	}
	app := &Application{
		ID:          id,
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		CoverLetter: coverLetter,
		Status:      ApplicationPending,
		Notes:       []Note{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if applicant.Resume != nil {
		resume := *applicant.Resume
		app.Resume = &resume
	}
	return app, nil
}

// UpdateStatus applies a plain status change following the transition table.
// Re-applying the current status is a no-op.
func (a *Application) UpdateStatus(next ApplicationStatus) error {
	if !next.Valid() {
		return invalidField("status", "status must be one of pending, reviewing, shortlisted, interview-scheduled, hired, rejected")
	}
	if next == a.Status {
		return nil
	}
	if next == ApplicationInterviewScheduled {
		return fmt.Errorf("%w: interviews must be scheduled through the interview endpoint", ErrInvalidState)
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move application from %s to %s", ErrInvalidState, a.Status, next)
	}
	a.Status = next
	return nil
}

// AddNote appends a reviewer note
func (a *Application) AddNote(content, author string, now time.Time) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return invalidField("content", "note content is required")
	}
	a.Notes = append(a.Notes, Note{Content: content, AddedBy: author, AddedAt: now})
	return nil
}

// InterviewInput is the payload for scheduling an interview
type InterviewInput struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
}

// ScheduleInterview books an interview for a shortlisted application
func (a *Application) ScheduleInterview(in InterviewInput) error {
	date, err := parseInterviewDate(in.Date)
	if err != nil {
		return err
	}
	clock := strings.TrimSpace(in.Time)
	if clock == "" {
		return invalidField("time", "interview time is required")
	}
	if _, err := time.Parse("15:04", clock); err != nil {
		return invalidField("time", "interview time must be HH:MM")
	}
	switch in.Type {
	case InterviewPhone, InterviewVideo, InterviewInPerson:
	default:
		return invalidField("type", "interview type must be one of phone, video, in-person")
	}
	if a.Status != ApplicationShortlisted {
		return fmt.Errorf("%w: application is %s, only shortlisted applications can be scheduled for interview", ErrInvalidState, a.Status)
	}
	a.Interview = &Interview{
		Scheduled: true,
		Date:      date,
		Time:      clock,
		Location:  strings.TrimSpace(in.Location),
		Type:      in.Type,
		Notes:     strings.TrimSpace(in.Notes),
	}
	a.Status = ApplicationInterviewScheduled
	return nil
}

// parseInterviewDate accepts YYYY-MM-DD or RFC3339 and normalizes to YYYY-MM-DD
func parseInterviewDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidField("date", "interview date is required")
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(time.DateOnly), nil
	}
	return "", invalidField("date", "interview date must be YYYY-MM-DD or RFC3339")
}

type ApplicationFilter struct {
	JobID       string
	ApplicantID string
	Status      ApplicationStatus
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	// Create inserts the application and increments the job's counter atomically.
	// A second application for the same (job, applicant) returns ErrDuplicateApplication.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter, page Page) ([]Application, int64, error)
	ListByJobID(ctx context.Context, jobID string) ([]Application, error)
	ListByApplicantID(ctx context.Context, applicantID string) ([]Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	// Transition writes status, interview and updated_at only while the stored status
	// still equals from. A row that moved on returns ErrStaleWrite.
	Transition(ctx context.Context, app *Application, from ApplicationStatus) error
	// AppendNote adds one note to the stored list without rewriting earlier notes
	AppendNote(ctx context.Context, id string, note Note, updatedAt time.Time) error
	// Delete removes the application and decrements the job's counter, never below zero
	Delete(ctx context.Context, app *Application) error
}

// ExportFormat selects the file type of an applications export
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// ExportFile is a rendered export ready to be served
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	// Candidate operations
	Apply(ctx context.Context, actor Actor, jobID, coverLetter string) (*Application, error)
	ListMyApplications(ctx context.Context, actor Actor) ([]Application, error)
	Withdraw(ctx context.Context, actor Actor, applicationID string) error

	// Employer operations
	ListByJob(ctx context.Context, actor Actor, jobID string) ([]Application, error)
	ExportByJob(ctx context.Context, actor Actor, jobID string, format ExportFormat) (*ExportFile, error)
	UpdateStatus(ctx context.Context, actor Actor, applicationID string, status ApplicationStatus) (*Application, error)
	AddNote(ctx context.Context, actor Actor, applicationID, content string) (*Application, error)
	ScheduleInterview(ctx context.Context, actor Actor, applicationID string, input InterviewInput) (*Application, error)

	// Admin operations
	ListAll(ctx context.Context, actor Actor, filter ApplicationFilter, page Page) (*PaginatedResult[Application], error)
}
