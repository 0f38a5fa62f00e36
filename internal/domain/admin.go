package domain

import "context"

// AdminStats contains dashboard statistics
type AdminStats struct {
	TotalUsers          int64                       `json:"total_users"`
	UsersByRole         map[Role]int64              `json:"users_by_role"`
	TotalCompanies      int64                       `json:"total_companies"`
	VerifiedCompanies   int64                       `json:"verified_companies"`
	TotalJobs           int64                       `json:"total_jobs"`
	JobsByApproval      map[ApprovalStatus]int64    `json:"jobs_by_approval"`
	ActiveJobs          int64                       `json:"active_jobs"`
	TotalApplications   int64                       `json:"total_applications"`
	ApplicationsByState map[ApplicationStatus]int64 `json:"applications_by_status"`
	PendingVolunteers   int64                       `json:"pending_volunteers"`
}

// AdminRepository defines admin-specific data access
type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)
}

// AdminUsecase defines admin business logic
type AdminUsecase interface {
	GetStats(ctx context.Context, actor Actor) (*AdminStats, error)
}
