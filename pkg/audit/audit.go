package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audited event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventLoginBlocked       EventType = "login_blocked"
	EventOTPIssued          EventType = "otp_issued"
	EventOTPFailed          EventType = "otp_failed"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventAccessDenied       EventType = "access_denied"
	EventTransition         EventType = "transition"
	EventUserManaged        EventType = "user_managed"
	EventNotificationFailed EventType = "notification_failed"
)

// Event is a single audit record
type Event struct {
	Type         EventType
	ActorID      string
	ActorRole    string
	Resource     string
	ResourceID   string
	Action       string
	From         string
	To           string
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string // masked or hashed
	IP           string
	RequestID    string
	Details      map[string]interface{}
}

// Logger writes structured audit events through zap
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// New builds a production zap logger writing JSON to stdout
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithZap(logger, serviceName, environment)
}

func NewWithZap(logger *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zapLogger: logger.Named("audit"), serviceName: serviceName, environment: environment}
}

// Nop discards every event
func Nop() *Logger {
	return NewWithZap(zap.NewNop(), "", "")
}

// Log records event at a level derived from its type
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}

	level := zapcore.InfoLevel
	switch event.Type {
	case EventLoginFailed, EventLoginBlocked, EventOTPFailed, EventRateLimitTriggered, EventNotificationFailed:
		level = zapcore.WarnLevel
	case EventAccessDenied:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Type)),
	}
	add := func(key, value string) {
		if value != "" {
			fields = append(fields, zap.String(key, value))
		}
	}
	add("actor_id", event.ActorID)
	add("actor_role", event.ActorRole)
	add("resource", event.Resource)
	add("resource_id", event.ResourceID)
	add("action", event.Action)
	add("from", event.From)
	add("to", event.To)
	add("subject_type", event.SubjectType)
	add("subject_value", event.SubjectValue)
	add("ip", event.IP)
	add("request_id", event.RequestID)
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	l.zapLogger.Log(level, string(event.Type), fields...)
}

// Transition logs a successful state change
func (l *Logger) Transition(ctx context.Context, actorID, actorRole, resource, resourceID, from, to string) {
	l.Log(ctx, Event{
		Type:       EventTransition,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Resource:   resource,
		ResourceID: resourceID,
		From:       from,
		To:         to,
	})
}

// AccessDenied logs a refused action
func (l *Logger) AccessDenied(ctx context.Context, actorID, actorRole, action, resourceID, reason string) {
	l.Log(ctx, Event{
		Type:       EventAccessDenied,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		ResourceID: resourceID,
		Details:    map[string]interface{}{"reason": reason},
	})
}

// LoginFailed logs a failed sign-in attempt without exposing the address
func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.Log(ctx, Event{
		Type:         EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (l *Logger) LoginSuccess(ctx context.Context, userID, method string) {
	l.Log(ctx, Event{
		Type:         EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]interface{}{"method": method},
	})
}

// RateLimitTriggered logs a throttled request
func (l *Logger) RateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	l.Log(ctx, Event{
		Type:         EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[max(at, 0):]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a short SHA256 fingerprint of a value
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
