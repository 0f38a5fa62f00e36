package domain

import (
	"context"
	"time"
)

// Message is an outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers email. Callers treat failures as best-effort.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Message) error
}

// SMSSender delivers short text messages to a phone number
type SMSSender interface {
	SendSMS(ctx context.Context, phone, body string) error
}

// OtpIssuer issues and verifies one-time login codes for a subject (an email address)
type OtpIssuer interface {
	Issue(ctx context.Context, subject string) (code string, expiresAt time.Time, err error)
	Verify(ctx context.Context, subject, code string) (bool, error)
}

// TokenIssuer mints access tokens for authenticated users and reads back
// the user id of one it (or the configured JWKS) signed
type TokenIssuer interface {
	Issue(user *User) (string, error)
	Verify(token string) (userID string, err error)
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// LoginGuard locks an email out of password sign-in after repeated failures
type LoginGuard interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (blocked bool, err error)
	Clear(ctx context.Context, email string) error
}
