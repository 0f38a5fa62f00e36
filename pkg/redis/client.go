// Package redis builds the shared go-redis client. Callers own the client and
// pass it to the rate limiter, OTP store and login tracker; a nil client means
// Redis is not configured and each of those falls back or disables itself.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var ErrNotConfigured = errors.New("redis: REDIS_URL not configured")

// Config holds Redis connection configuration
type Config struct {
	URL      string // redis://... or rediss://... for TLS
	Password string // overrides a password embedded in URL
}

// Options turns cfg into client options with the service's pool and timeout defaults
func Options(cfg Config) (*goredis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion < tls.VersionTLS12 {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	return opts, nil
}

// Connect dials Redis and verifies it answers before returning the client
func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: connection failed: %w", err)
	}
	return client, nil
}

// Health reports a client's reachability to the health endpoint
type Health struct {
	Client goredis.UniversalClient
}

func (h Health) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx).Err()
}
