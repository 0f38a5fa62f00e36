package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

// GetStats fetches dashboard statistics
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		UsersByRole:         map[domain.Role]int64{},
		JobsByApproval:      map[domain.ApprovalStatus]int64{},
		ApplicationsByState: map[domain.ApplicationStatus]int64{},
	}

	// Users by role
	if err := groupCount(ctx, r.db, `SELECT role, COUNT(*) FROM users GROUP BY role`, func(key string, n int64) {
		stats.UsersByRole[domain.Role(key)] = n
		stats.TotalUsers += n
	}); err != nil {
		return nil, err
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE role = 'volunteer' AND NOT is_volunteer_approved`,
	).Scan(&stats.PendingVolunteers)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE verified) FROM companies`).
		Scan(&stats.TotalCompanies, &stats.VerifiedCompanies)
	if err != nil {
		return nil, err
	}

	// Jobs by approval status
	if err := groupCount(ctx, r.db, `SELECT approval_status, COUNT(*) FROM jobs GROUP BY approval_status`, func(key string, n int64) {
		stats.JobsByApproval[domain.ApprovalStatus(key)] = n
		stats.TotalJobs += n
	}); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM jobs WHERE status = 'active' AND approval_status = 'approved'`,
	).Scan(&stats.ActiveJobs)
	if err != nil {
		return nil, err
	}

	// Applications by status
	if err := groupCount(ctx, r.db, `SELECT status, COUNT(*) FROM applications GROUP BY status`, func(key string, n int64) {
		stats.ApplicationsByState[domain.ApplicationStatus(key)] = n
		stats.TotalApplications += n
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

func groupCount(ctx context.Context, db *pgxpool.Pool, query string, fn func(key string, n int64)) error {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		fn(key, n)
	}
	return rows.Err()
}
