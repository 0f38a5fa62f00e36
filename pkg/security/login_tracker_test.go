package security

import (
	"context"
	"testing"

	"job-board-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
)

func TestLoginTrackerWithoutRedis(t *testing.T) {
	ctx := context.Background()
	tracker := NewLoginTracker(nil, LoginTrackerConfig{}, audit.Nop())

	assert.Equal(t, DefaultLoginTrackerConfig().MaxAttempts, tracker.config.MaxAttempts)

	for i := 0; i < 10; i++ {
		blocked, err := tracker.RecordFailure(ctx, "ada@example.com")
		assert.NoError(t, err)
		assert.False(t, blocked)
	}

	blocked, err := tracker.Blocked(ctx, "ada@example.com")
	assert.NoError(t, err)
	assert.False(t, blocked)
	assert.NoError(t, tracker.Clear(ctx, "ada@example.com"))
}
