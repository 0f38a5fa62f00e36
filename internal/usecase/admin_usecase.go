package usecase

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"
)

type adminUsecase struct {
	adminRepo domain.AdminRepository
	audit     *audit.Logger
}

func NewAdminUsecase(adminRepo domain.AdminRepository, auditLog *audit.Logger) domain.AdminUsecase {
	return &adminUsecase{adminRepo: adminRepo, audit: auditLog}
}

// GetStats returns dashboard statistics
func (u *adminUsecase) GetStats(ctx context.Context, actor domain.Actor) (*domain.AdminStats, error) {
	if err := authorize(ctx, u.audit, actor, domain.Resource{Kind: domain.ResourceUser}, domain.ActionUserManage); err != nil {
		return nil, err
	}

	stats, err := u.adminRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to fetch statistics: %w", err))
	}
	return stats, nil
}
