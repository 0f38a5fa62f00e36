package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail(""))
}

func TestTransitionIsLoggedWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(zap.New(core), "svc", "test")

	l.Transition(context.Background(), "admin-1", "admin", "job", "job-1", "pending", "approved")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "transition", fields["event"])
	assert.Equal(t, "pending", fields["from"])
	assert.Equal(t, "approved", fields["to"])
}

func TestAccessDeniedIsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithZap(zap.New(core), "svc", "test")

	l.AccessDenied(context.Background(), "u1", "employer", "job.approve", "job-1", "only admins can moderate jobs")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Log(context.Background(), Event{Type: EventTransition}) })
}
