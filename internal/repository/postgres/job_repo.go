package postgres

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `j.id, j.company_id, j.posted_by, j.title, j.description, j.requirements, j.locations,
	j.salary_min, j.salary_max, j.salary_currency, j.salary_period, j.job_type, j.experience_level,
	j.skills, j.benefits, j.application_deadline, j.status, j.approval_status, j.approved_at,
	j.rejection_reason, j.featured, j.applications_count, j.views_count, j.created_at, j.updated_at`

const jobWithCompanyQuery = `SELECT ` + jobColumns + `,
	COALESCE(c.name, 'Unknown Company'), COALESCE(c.industry, ''), COALESCE(c.verified, FALSE)
	FROM jobs j
	LEFT JOIN companies c ON c.id = j.company_id`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	locations, err := jsonArg(job.Locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}

	query := `INSERT INTO jobs (
			id, company_id, posted_by, title, description, requirements, locations,
			salary_min, salary_max, salary_currency, salary_period, job_type, experience_level,
			skills, benefits, application_deadline, status, approval_status, approved_at,
			rejection_reason, featured, applications_count, views_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, 0, 0, $22, $23)`
	_, err = r.db.Exec(ctx, query,
		job.ID, job.CompanyID, job.PostedBy, job.Title, job.Description, job.Requirements, locations,
		nullableAmount(job.Salary.Min), nullableAmount(job.Salary.Max), job.Salary.Currency, job.Salary.Period,
		job.JobType, job.ExperienceLevel, textArray(job.Skills), textArray(job.Benefits), job.ApplicationDeadline,
		job.Status, job.ApprovalStatus, job.ApprovedAt, job.RejectionReason, job.Featured,
		job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return job, nil
}

// GetByIDWithCompany retrieves a job with company profile details
func (r *jobRepo) GetByIDWithCompany(ctx context.Context, id string) (*domain.JobWithCompany, error) {
	job, err := scanJobWithCompany(r.db.QueryRow(ctx, jobWithCompanyQuery+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter, page domain.Page) ([]domain.JobWithCompany, int64, error) {
	w := jobConditions(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs j LEFT JOIN companies c ON c.id = j.company_id` + w.String()
	if err := r.db.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s%s ORDER BY j.featured DESC, j.created_at DESC LIMIT %s OFFSET %s`,
		jobWithCompanyQuery, w.String(), w.next(page.PageSize), w.next(page.Offset()))
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.JobWithCompany
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, total, rows.Err()
}

func jobConditions(filter domain.JobFilter) *where {
	w := &where{}
	if filter.Status != "" {
		w.add("j.status = ?", filter.Status)
	}
	if filter.ApprovalStatus != "" {
		w.add("j.approval_status = ?", filter.ApprovalStatus)
	}
	if filter.PostedBy != "" {
		w.add("j.posted_by = ?", filter.PostedBy)
	}
	if filter.JobType != "" {
		w.add("j.job_type = ?", filter.JobType)
	}
	if filter.ExperienceLevel != "" {
		w.add("j.experience_level = ?", filter.ExperienceLevel)
	}
	if filter.SalaryMin > 0 {
		w.add("j.salary_min >= ?", filter.SalaryMin)
	}
	if filter.SalaryMax > 0 {
		w.add("j.salary_max <= ?", filter.SalaryMax)
	}
	if filter.Featured {
		w.add("j.featured = TRUE")
	}
	if filter.Remote {
		w.add(`EXISTS (SELECT 1 FROM jsonb_array_elements(j.locations) loc WHERE (loc->>'remote')::boolean)`)
	}
	if filter.Location != "" {
		p := w.next(likePattern(filter.Location))
		w.add(fmt.Sprintf(`EXISTS (SELECT 1 FROM jsonb_array_elements(j.locations) loc
			WHERE loc->>'city' ILIKE %[1]s OR loc->>'state' ILIKE %[1]s OR loc->>'country' ILIKE %[1]s)`, p))
	}
	if filter.Search != "" {
		p := w.next(likePattern(filter.Search))
		w.add(fmt.Sprintf(`(j.title ILIKE %[1]s OR j.description ILIKE %[1]s OR c.name ILIKE %[1]s
			OR array_to_string(j.skills, ' ') ILIKE %[1]s)`, p))
	}
	return w
}

// Update writes the editable columns guarded on the approval status the caller read.
// Counters are owned by their atomic increments.
func (r *jobRepo) Update(ctx context.Context, job *domain.Job, from domain.ApprovalStatus) error {
	locations, err := jsonArg(job.Locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}

	query := `UPDATE jobs SET
		title = $2, description = $3, requirements = $4, locations = $5::jsonb,
		salary_min = $6, salary_max = $7, salary_currency = $8, salary_period = $9,
		job_type = $10, experience_level = $11, skills = $12, benefits = $13,
		application_deadline = $14, status = $15, approval_status = $16, approved_at = $17,
		rejection_reason = $18, featured = $19, updated_at = $20
		WHERE id = $1 AND approval_status = $21`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Requirements, locations,
		nullableAmount(job.Salary.Min), nullableAmount(job.Salary.Max), job.Salary.Currency, job.Salary.Period,
		job.JobType, job.ExperienceLevel, textArray(job.Skills), textArray(job.Benefits),
		job.ApplicationDeadline, job.Status, job.ApprovalStatus, job.ApprovedAt,
		job.RejectionReason, job.Featured, job.UpdatedAt, from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, job.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrStaleWrite
	}
	return nil
}

// Delete removes the job; its applications cascade
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) IncrementViews(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE jobs SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullableAmount(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func textArray(items []string) any {
	if items == nil {
		items = []string{}
	}
	return pq.Array(items)
}

func jobScanTargets(job *domain.Job, locations *[]byte, salaryMin, salaryMax **float64) []any {
	return []any{
		&job.ID, &job.CompanyID, &job.PostedBy, &job.Title, &job.Description, &job.Requirements, locations,
		salaryMin, salaryMax, &job.Salary.Currency, &job.Salary.Period, &job.JobType, &job.ExperienceLevel,
		pq.Array(&job.Skills), pq.Array(&job.Benefits), &job.ApplicationDeadline, &job.Status, &job.ApprovalStatus,
		&job.ApprovedAt, &job.RejectionReason, &job.Featured, &job.ApplicationsCount, &job.ViewsCount,
		&job.CreatedAt, &job.UpdatedAt,
	}
}

func finishJob(job *domain.Job, locations []byte, salaryMin, salaryMax *float64) error {
	if salaryMin != nil {
		job.Salary.Min = *salaryMin
	}
	if salaryMax != nil {
		job.Salary.Max = *salaryMax
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if job.Benefits == nil {
		job.Benefits = []string{}
	}
	if err := decodeJSON(locations, &job.Locations); err != nil {
		return fmt.Errorf("decode locations: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job                  domain.Job
		locations            []byte
		salaryMin, salaryMax *float64
	)
	if err := row.Scan(jobScanTargets(&job, &locations, &salaryMin, &salaryMax)...); err != nil {
		return nil, err
	}
	if err := finishJob(&job, locations, salaryMin, salaryMax); err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJobWithCompany(row pgx.Row) (*domain.JobWithCompany, error) {
	var (
		job                  domain.JobWithCompany
		locations            []byte
		salaryMin, salaryMax *float64
	)
	targets := append(jobScanTargets(&job.Job, &locations, &salaryMin, &salaryMax),
		&job.CompanyName, &job.CompanyIndustry, &job.CompanyVerified)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if err := finishJob(&job.Job, locations, salaryMin, salaryMax); err != nil {
		return nil, err
	}
	return &job, nil
}
