package postgres

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, first_name, last_name, email, password_hash, role, is_volunteer_approved,
	profile, resume, is_active, email_verified, last_login, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	profile, resume, err := userJSON(user)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11, $12, $13, $14)`
	_, err = r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.IsVolunteerApproved,
		profile, resume, user.IsActive, user.EmailVerified, user.LastLogin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "users_email_key") {
			return fmt.Errorf("%w: email %s is taken", domain.ErrConflict, user.Email)
		}
		return err
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, noRows(err)
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, int64, error) {
	var w where
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.Search != "" {
		p := w.next(likePattern(filter.Search))
		w.add(fmt.Sprintf("(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		userColumns, w.String(), w.next(page.PageSize), w.next(page.Offset()))
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	profile, resume, err := userJSON(user)
	if err != nil {
		return err
	}

	query := `UPDATE users SET
		first_name = $2, last_name = $3, email = $4, password_hash = $5, role = $6,
		is_volunteer_approved = $7, profile = $8::jsonb, resume = $9::jsonb, is_active = $10,
		email_verified = $11, last_login = $12, updated_at = $13
		WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
		user.IsVolunteerApproved, profile, resume, user.IsActive,
		user.EmailVerified, user.LastLogin, user.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "users_email_key") {
			return fmt.Errorf("%w: email %s is taken", domain.ErrConflict, user.Email)
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user. Owned companies, posted jobs and applications go with it
// through foreign keys; counters of jobs the user applied to are released first.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE jobs j SET applications_count = GREATEST(j.applications_count - a.n, 0)
		FROM (SELECT job_id, COUNT(*) AS n FROM applications WHERE applicant_id = $1 GROUP BY job_id) a
		WHERE j.id = a.job_id`, id)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func userJSON(user *domain.User) (profile, resume any, err error) {
	if profile, err = jsonArg(user.Profile); err != nil {
		return nil, nil, fmt.Errorf("encode profile: %w", err)
	}
	if resume, err = jsonArg(user.Resume); err != nil {
		return nil, nil, fmt.Errorf("encode resume: %w", err)
	}
	return profile, resume, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user           domain.User
		profile, resume []byte
	)
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsVolunteerApproved, &profile, &resume, &user.IsActive, &user.EmailVerified,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(profile, &user.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := decodeJSON(resume, &user.Resume); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	return &user, nil
}
