package usecase_test

import (
	"context"
	"errors"
	"testing"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	store := new(MockHealthChecker)
	store.On("Ping", mock.Anything).Return(nil)
	cache := new(MockHealthChecker)
	cache.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	status, healthy := usecase.NewHealthUsecase(map[string]domain.HealthChecker{"store": store}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, "ok", status["store"])

	status, healthy = usecase.NewHealthUsecase(map[string]domain.HealthChecker{"store": store, "redis": cache}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "unavailable", status["redis"])
}

func TestAdminStats(t *testing.T) {
	repo := new(MockAdminRepo)
	repo.On("GetStats", mock.Anything).Return(&domain.AdminStats{TotalUsers: 3}, nil)
	uc := usecase.NewAdminUsecase(repo, audit.Nop())

	_, err := uc.GetStats(context.Background(), employer)
	assert.Equal(t, apperror.KindAccessDenied, apperror.KindOf(err))

	stats, err := uc.GetStats(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
}
