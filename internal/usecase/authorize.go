package usecase

import (
	"context"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/audit"
)

// authorize runs the access gate and records denials
func authorize(ctx context.Context, auditLog *audit.Logger, actor domain.Actor, resource domain.Resource, action domain.Action) error {
	if err := domain.CanTransition(actor, resource, action); err != nil {
		auditLog.AccessDenied(ctx, actor.ID, string(actor.Role), string(action), resource.ID, err.Error())
		return translate(err)
	}
	return nil
}
