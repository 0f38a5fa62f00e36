package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	codePrefix     = "otp:code:"
	attemptsPrefix = "otp:attempts:"
)

// incrWindow bumps the counter and starts its expiry on the first guess
var incrWindow = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisStore keeps each code in a hash that expires with it and counts
// guesses under a separate key so re-issuing cannot reset them
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) available() bool {
	return s.client != nil
}

func (s *RedisStore) Save(ctx context.Context, subject string, rec Record, ttl time.Duration) error {
	if !s.available() {
		return ErrStoreUnavailable
	}
	key := codePrefix + subject
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "secret", rec.Secret, "issued_at", rec.IssuedAt.Unix())
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("otp: save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, subject string) (*Record, error) {
	if !s.available() {
		return nil, ErrStoreUnavailable
	}
	fields, err := s.client.HGetAll(ctx, codePrefix+subject).Result()
	if err != nil {
		return nil, fmt.Errorf("otp: load: %w", err)
	}
	if len(fields) == 0 || fields["secret"] == "" {
		return nil, nil
	}
	issuedAt, err := strconv.ParseInt(fields["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("otp: corrupt record: %w", err)
	}
	return &Record{Secret: fields["secret"], IssuedAt: time.Unix(issuedAt, 0)}, nil
}

func (s *RedisStore) IncrAttempts(ctx context.Context, subject string, window time.Duration) (int, error) {
	if !s.available() {
		return 0, ErrStoreUnavailable
	}
	n, err := incrWindow.Run(ctx, s.client, []string{attemptsPrefix + subject}, window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("otp: attempts: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Delete(ctx context.Context, subject string) error {
	if !s.available() {
		return ErrStoreUnavailable
	}
	return s.client.Del(ctx, codePrefix+subject).Err()
}

func (s *RedisStore) ResetAttempts(ctx context.Context, subject string) error {
	if !s.available() {
		return ErrStoreUnavailable
	}
	return s.client.Del(ctx, attemptsPrefix+subject).Err()
}
