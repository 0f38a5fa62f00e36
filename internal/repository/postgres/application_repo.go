package postgres

import (
	"context"
	"fmt"
	"time"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationQuery = `SELECT
	a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume, a.status, a.notes, a.interview,
	a.created_at, a.updated_at,
	COALESCE(j.title, ''), COALESCE(c.name, ''),
	COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), COALESCE(u.email, '')
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN companies c ON c.id = j.company_id
	LEFT JOIN users u ON u.id = a.applicant_id`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts the application and bumps the job's counter in one transaction
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	resume, notes, interview, err := applicationJSON(app)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (id, job_id, applicant_id, cover_letter, resume, status, notes, interview, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7::jsonb, $8::jsonb, $9, $10)`,
		app.ID, app.JobID, app.ApplicantID, app.CoverLetter, resume, app.Status, notes, interview,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "applications_job_id_applicant_id_key") {
			return domain.ErrDuplicateApplication
		}
		return err
	}

	result, err := tx.Exec(ctx, `UPDATE jobs SET applications_count = applications_count + 1 WHERE id = $1`, app.JobID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", domain.ErrNotFound, app.JobID)
	}
	return tx.Commit(ctx)
}

// GetByID retrieves an application by ID with joined job and applicant data
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, applicationQuery+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return app, nil
}

func (r *applicationRepo) List(ctx context.Context, filter domain.ApplicationFilter, page domain.Page) ([]domain.Application, int64, error) {
	var w where
	if filter.JobID != "" {
		w.add("a.job_id = ?", filter.JobID)
	}
	if filter.ApplicantID != "" {
		w.add("a.applicant_id = ?", filter.ApplicantID)
	}
	if filter.Status != "" {
		w.add("a.status = ?", filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications a`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s%s ORDER BY a.created_at DESC LIMIT %s OFFSET %s`,
		applicationQuery, w.String(), w.next(page.PageSize), w.next(page.Offset()))
	apps, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListByJobID retrieves all applications for a job
func (r *applicationRepo) ListByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.query(ctx, applicationQuery+` WHERE a.job_id = $1 ORDER BY a.created_at DESC`, jobID)
}

// ListByApplicantID retrieves all applications of a candidate with job titles
func (r *applicationRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return r.query(ctx, applicationQuery+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`, applicantID)
}

// Exists checks if an application already exists for the job/user combination
func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	).Scan(&exists)
	return exists, err
}

// Transition writes the workflow columns guarded on the status the caller read.
// The cover letter, resume and notes are not touched here.
func (r *applicationRepo) Transition(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	interview, err := jsonArg(app.Interview)
	if err != nil {
		return fmt.Errorf("encode interview: %w", err)
	}

	result, err := r.db.Exec(ctx, `
		UPDATE applications SET status = $3, interview = $4::jsonb, updated_at = $5
		WHERE id = $1 AND status = $2`,
		app.ID, from, app.Status, interview, app.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.missOrStale(ctx, app.ID)
	}
	return nil
}

// AppendNote concatenates a single note onto the stored array
func (r *applicationRepo) AppendNote(ctx context.Context, id string, note domain.Note, updatedAt time.Time) error {
	entry, err := jsonArg([]domain.Note{note})
	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	result, err := r.db.Exec(ctx, `
		UPDATE applications SET notes = COALESCE(notes, '[]'::jsonb) || $2::jsonb, updated_at = $3
		WHERE id = $1`,
		id, entry, updatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// missOrStale tells a deleted row apart from one whose guard no longer matches
func (r *applicationRepo) missOrStale(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrStaleWrite
}

// Delete removes the application and releases the job's counter, never below zero
func (r *applicationRepo) Delete(ctx context.Context, app *domain.Application) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var jobID string
	err = tx.QueryRow(ctx, `DELETE FROM applications WHERE id = $1 RETURNING job_id`, app.ID).Scan(&jobID)
	if err != nil {
		return noRows(err)
	}

	_, err = tx.Exec(ctx, `UPDATE jobs SET applications_count = GREATEST(applications_count - 1, 0) WHERE id = $1`, jobID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *applicationRepo) query(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

func applicationJSON(app *domain.Application) (resume, notes, interview any, err error) {
	if resume, err = jsonArg(app.Resume); err != nil {
		return nil, nil, nil, fmt.Errorf("encode resume: %w", err)
	}
	list := app.Notes
	if list == nil {
		list = []domain.Note{}
	}
	if notes, err = jsonArg(list); err != nil {
		return nil, nil, nil, fmt.Errorf("encode notes: %w", err)
	}
	if interview, err = jsonArg(app.Interview); err != nil {
		return nil, nil, nil, fmt.Errorf("encode interview: %w", err)
	}
	return resume, notes, interview, nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app                      domain.Application
		resume, notes, interview []byte
	)
	err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.CoverLetter, &resume, &app.Status, &notes, &interview,
		&app.CreatedAt, &app.UpdatedAt,
		&app.JobTitle, &app.CompanyName, &app.ApplicantName, &app.ApplicantEmail,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(resume, &app.Resume); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	if err := decodeJSON(notes, &app.Notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	if err := decodeJSON(interview, &app.Interview); err != nil {
		return nil, fmt.Errorf("decode interview: %w", err)
	}
	if app.Notes == nil {
		app.Notes = []domain.Note{}
	}
	return &app, nil
}
