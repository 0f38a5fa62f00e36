package mongo

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type adminRepo struct {
	store *Store
}

func NewAdminRepository(store *Store) domain.AdminRepository {
	return &adminRepo{store: store}
}

// GetStats fetches dashboard statistics
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		UsersByRole:         map[domain.Role]int64{},
		JobsByApproval:      map[domain.ApprovalStatus]int64{},
		ApplicationsByState: map[domain.ApplicationStatus]int64{},
	}
	users := r.store.collection(colUsers)
	companies := r.store.collection(colCompanies)
	jobs := r.store.collection(colJobs)

	err := groupCount(ctx, users, "role", func(key string, n int64) {
		stats.UsersByRole[domain.Role(key)] = n
		stats.TotalUsers += n
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: user stats: %w", err)
	}
	if stats.PendingVolunteers, err = users.CountDocuments(ctx, bson.M{
		"role":                  domain.RoleVolunteer,
		"is_volunteer_approved": false,
	}); err != nil {
		return nil, fmt.Errorf("mongo: volunteer stats: %w", err)
	}

	if stats.TotalCompanies, err = companies.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("mongo: company stats: %w", err)
	}
	if stats.VerifiedCompanies, err = companies.CountDocuments(ctx, bson.M{"verified": true}); err != nil {
		return nil, fmt.Errorf("mongo: company stats: %w", err)
	}

	err = groupCount(ctx, jobs, "approval_status", func(key string, n int64) {
		stats.JobsByApproval[domain.ApprovalStatus(key)] = n
		stats.TotalJobs += n
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: job stats: %w", err)
	}
	if stats.ActiveJobs, err = jobs.CountDocuments(ctx, bson.M{
		"status":          domain.JobStatusActive,
		"approval_status": domain.ApprovalApproved,
	}); err != nil {
		return nil, fmt.Errorf("mongo: job stats: %w", err)
	}

	err = groupCount(ctx, r.store.collection(colApplications), "status", func(key string, n int64) {
		stats.ApplicationsByState[domain.ApplicationStatus(key)] = n
		stats.TotalApplications += n
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: application stats: %w", err)
	}
	return stats, nil
}
