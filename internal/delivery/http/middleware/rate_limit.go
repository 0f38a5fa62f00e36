package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

// GlobalRateLimitConfig applies to every route
func GlobalRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Limit:     cfg.RateLimitGlobalThreshold,
		Window:    time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		KeyPrefix: "rl:ip:",
		KeyFunc:   clientIP,
	}
}

// AuthRateLimitConfig is the stricter budget of the credential endpoints
func AuthRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Limit:      cfg.RateLimitAuthThreshold,
		Window:     time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
		KeyFunc:    clientIP,
	}
}

func clientIP(c *gin.Context) string {
	return c.ClientIP()
}

// localLimiter is the in-memory token bucket used without Redis
type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter counts requests in Redis and falls back to in-memory token buckets
type RateLimiter struct {
	config   RateLimitConfig
	redis    *goredis.Client
	auditLog *audit.Logger

	mu        sync.Mutex
	buckets   map[string]*localLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter builds a limiter; client may be nil when Redis is not configured
func NewRateLimiter(cfg RateLimitConfig, client *goredis.Client, auditLog *audit.Logger) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &RateLimiter{
		config:   cfg,
		redis:    client,
		auditLog: auditLog,
		buckets:  make(map[string]*localLimiter),
		now:      time.Now,
	}
}

// Middleware enforces the limit per key
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.config.KeyPrefix + l.config.KeyFunc(c)

		var (
			allowed   bool
			remaining int
			resetAt   time.Time
		)
		if l.redis != nil {
			count, reset, err := l.checkRedis(c.Request.Context(), key)
			if err == nil {
				allowed, remaining, resetAt = count <= l.config.Limit, l.config.Limit-count, reset
			} else if l.config.FailClosed {
				l.auditLog.Log(c.Request.Context(), audit.Event{
					Type:      audit.EventRateLimitTriggered,
					IP:        c.ClientIP(),
					RequestID: c.GetString("RequestID"),
					Details:   map[string]interface{}{"error_type": "redis_error", "error": err.Error()},
				})
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.",
					response.ErrorBody{Kind: string(apperror.KindServer)})
				c.Abort()
				return
			} else {
				allowed, remaining, resetAt = l.checkLocal(key)
			}
		} else {
			allowed, remaining, resetAt = l.checkLocal(key)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if !allowed {
			retryAfter := max(int(resetAt.Sub(l.now()).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			l.auditLog.RateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), c.FullPath())
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.",
				response.ErrorBody{Kind: string(apperror.KindRateLimited)})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRedis counts the request with the atomic Lua script
func (l *RateLimiter) checkRedis(ctx context.Context, key string) (int, time.Time, error) {
	result, err := rateLimitScript.Run(ctx, l.redis, []string{key}, int(l.config.Window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

// checkLocal spends one token of the key's bucket. The bucket refills
// Limit tokens per Window.
func (l *RateLimiter) checkLocal(key string) (bool, int, time.Time) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.config.Window {
		l.evictIdle(now)
		l.lastSweep = now
	}
	bucket, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.config.Window / time.Duration(l.config.Limit))
		bucket = &localLimiter{limiter: rate.NewLimiter(every, l.config.Limit)}
		l.buckets[key] = bucket
	}
	bucket.lastSeen = now

	allowed := bucket.limiter.AllowN(now, 1)
	remaining := int(bucket.limiter.TokensAt(now))

	// Time until one token is available again
	var resetAt time.Time
	if allowed {
		resetAt = now.Add(l.config.Window)
	} else {
		missing := 1 - bucket.limiter.TokensAt(now)
		resetAt = now.Add(time.Duration(missing * float64(time.Second) / float64(bucket.limiter.Limit())))
	}
	return allowed, remaining, resetAt
}

// evictIdle drops buckets untouched for a full window; they would be full again
func (l *RateLimiter) evictIdle(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.lastSeen) > l.config.Window {
			delete(l.buckets, key)
		}
	}
}
