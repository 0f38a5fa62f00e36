package otp

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	redisclient "job-board-backend/pkg/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	records  map[string]Record
	attempts map[string]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]Record{}, attempts: map[string]int{}}
}

func (m *memoryStore) Save(ctx context.Context, subject string, rec Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[subject] = rec
	return nil
}

func (m *memoryStore) Load(ctx context.Context, subject string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[subject]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memoryStore) IncrAttempts(ctx context.Context, subject string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[subject]++
	return m.attempts[subject], nil
}

func (m *memoryStore) Delete(ctx context.Context, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, subject)
	return nil
}

func (m *memoryStore) ResetAttempts(ctx context.Context, subject string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, subject)
	return nil
}

func TestTOTPIssuer(t *testing.T) {
	ctx := context.Background()

	t.Run("Issued code verifies once", func(t *testing.T) {
		issuer := NewTOTPIssuer(newMemoryStore(), 10*time.Minute)
		code, expiresAt, err := issuer.Issue(ctx, "Ada@Example.com")
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

		ok, err := issuer.Verify(ctx, "ada@example.com", code)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = issuer.Verify(ctx, "ada@example.com", code)
		require.NoError(t, err)
		assert.False(t, ok, "codes are single use")
	})

	t.Run("Wrong code is refused", func(t *testing.T) {
		issuer := NewTOTPIssuer(newMemoryStore(), 10*time.Minute)
		code, _, err := issuer.Issue(ctx, "ada@example.com")
		require.NoError(t, err)

		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}
		ok, err := issuer.Verify(ctx, "ada@example.com", wrong)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Too many attempts burn the code", func(t *testing.T) {
		issuer := NewTOTPIssuer(newMemoryStore(), 10*time.Minute)
		code, _, err := issuer.Issue(ctx, "ada@example.com")
		require.NoError(t, err)

		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}
		for i := 0; i < MaxAttempts; i++ {
			_, _ = issuer.Verify(ctx, "ada@example.com", wrong)
		}
		ok, err := issuer.Verify(ctx, "ada@example.com", code)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Re-issuing does not refill attempts", func(t *testing.T) {
		store := newMemoryStore()
		issuer := NewTOTPIssuer(store, 10*time.Minute)
		_, _, err := issuer.Issue(ctx, "ada@example.com")
		require.NoError(t, err)

		for i := 0; i < MaxAttempts; i++ {
			_, _ = issuer.Verify(ctx, "ada@example.com", "not-a-code")
		}

		code, _, err := issuer.Issue(ctx, "ada@example.com")
		require.NoError(t, err)
		ok, err := issuer.Verify(ctx, "ada@example.com", code)
		require.NoError(t, err)
		assert.False(t, ok, "a fresh code must not grant fresh guesses")
	})

	t.Run("Success clears the attempt counter", func(t *testing.T) {
		store := newMemoryStore()
		issuer := NewTOTPIssuer(store, 10*time.Minute)
		code, _, err := issuer.Issue(ctx, "ada@example.com")
		require.NoError(t, err)

		_, _ = issuer.Verify(ctx, "ada@example.com", "not-a-code")
		ok, err := issuer.Verify(ctx, "ada@example.com", code)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, store.attempts["ada@example.com"])
	})

	t.Run("Unknown subject is refused", func(t *testing.T) {
		issuer := NewTOTPIssuer(newMemoryStore(), 10*time.Minute)
		ok, err := issuer.Verify(ctx, "nobody@example.com", "123456")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStaticIssuer(t *testing.T) {
	issuer := NewStaticIssuer(10 * time.Minute)
	code, _, err := issuer.Issue(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, StaticCode, code)

	ok, _ := issuer.Verify(context.Background(), "ada@example.com", "123456")
	assert.True(t, ok)
	ok, _ = issuer.Verify(context.Background(), "ada@example.com", "654321")
	assert.False(t, ok)
}

func TestRedisStoreWithoutClient(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(nil)

	assert.ErrorIs(t, store.Save(ctx, "ada@example.com", Record{}, time.Minute), ErrStoreUnavailable)
	_, err := store.IncrAttempts(ctx, "ada@example.com", time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, store.ResetAttempts(ctx, "ada@example.com"), ErrStoreUnavailable)
}

func TestRedisStoreAttemptsSurviveSave(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := redisclient.Connect(ctx, redisclient.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	subject := "otp-test-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	t.Cleanup(func() {
		_ = store.Delete(ctx, subject)
		_ = store.ResetAttempts(ctx, subject)
	})

	require.NoError(t, store.Save(ctx, subject, Record{Secret: "A", IssuedAt: time.Now()}, time.Minute))
	n, err := store.IncrAttempts(ctx, subject, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Save(ctx, subject, Record{Secret: "B", IssuedAt: time.Now()}, time.Minute))
	n, err = store.IncrAttempts(ctx, subject, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "saving a new code keeps the count")

	ttl, err := client.PTTL(ctx, "otp:attempts:"+subject).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	rec, err := store.Load(ctx, subject)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "B", rec.Secret)
}
