package security

import (
	"context"
	"fmt"
	"time"

	"job-board-backend/pkg/audit"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before a block
	AttemptWindow time.Duration // How long failures are counted
	BlockDuration time.Duration // How long a block lasts
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the count after increment.
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// LoginTracker counts failed password sign-ins per email in Redis.
// Without Redis it never blocks.
type LoginTracker struct {
	client   *goredis.Client
	config   LoginTrackerConfig
	auditLog *audit.Logger
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, auditLog *audit.Logger) *LoginTracker {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	return &LoginTracker{client: client, config: config, auditLog: auditLog}
}

// Blocked reports whether email is currently locked out
func (t *LoginTracker) Blocked(ctx context.Context, email string) (bool, error) {
	if t.client == nil {
		return false, nil
	}
	n, err := t.client.Exists(ctx, blockedLoginPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts a failed attempt and blocks email once the budget is spent
func (t *LoginTracker) RecordFailure(ctx context.Context, email string) (bool, error) {
	if t.client == nil {
		return false, nil
	}

	ttl := int(t.config.AttemptWindow.Seconds())
	count, err := incrWithTTL.Run(ctx, t.client, []string{failLoginPrefix + email}, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("failed to count login failure: %w", err)
	}
	if count < t.config.MaxAttempts {
		return false, nil
	}

	if err := t.client.Set(ctx, blockedLoginPrefix+email, "1", t.config.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("failed to set login block: %w", err)
	}
	t.auditLog.Log(ctx, audit.Event{
		Type:         audit.EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: audit.MaskEmail(email),
		Details: map[string]interface{}{"attempts": count, "block_minutes": int(t.config.BlockDuration.Minutes())},
	})
	return true, nil
}

// Clear forgets the failures of email after a successful sign-in
func (t *LoginTracker) Clear(ctx context.Context, email string) error {
	if t.client == nil {
		return nil
	}
	if err := t.client.Del(ctx, failLoginPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to clear login failures: %w", err)
	}
	return nil
}
