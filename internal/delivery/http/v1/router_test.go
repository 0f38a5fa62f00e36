package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"job-board-backend/config"
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
)

type stubHealth struct {
	status map[string]string
	ok     bool
}

func (s stubHealth) Check(ctx context.Context) (map[string]string, bool) {
	return s.status, s.ok
}

func testRouter(health v1.HealthChecker) http.Handler {
	cfg := &config.Config{
		Environment:              "test",
		AllowedOrigins:           []string{"http://localhost:3000"},
		RateLimitWindowSeconds:   60,
		RateLimitAuthThreshold:   5,
		RateLimitGlobalThreshold: 100,
	}
	return v1.NewRouter(v1.RouterDeps{
		Health: health,
		Tokens: auth.NewTokenService("test-secret", 0, nil),
		Audit:  audit.Nop(),
		Config: cfg,
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		testRouter(stubHealth{status: map[string]string{"store": "up"}, ok: true}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"store":"up"`)
	})

	t.Run("degraded", func(t *testing.T) {
		w := httptest.NewRecorder()
		testRouter(stubHealth{status: map[string]string{"store": "down"}, ok: false}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "System degraded")
	})
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(stubHealth{ok: true}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/applications/my-applications", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
