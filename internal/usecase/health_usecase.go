package usecase

import (
	"context"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/logger"
)

const healthTimeout = 2 * time.Second

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	checks map[string]domain.HealthChecker
}

// NewHealthUsecase reports on each named dependency. A nil checker is skipped.
func NewHealthUsecase(checks map[string]domain.HealthChecker) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	healthy := true

	for name, checker := range u.checks {
		if checker == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
		err := checker.Ping(pingCtx)
		cancel()

		if err != nil {
			logger.Log.Warn("Health check failed", "dependency", name, "error", err)
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
