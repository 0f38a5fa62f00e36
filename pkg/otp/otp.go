package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// StaticCode is the demo code accepted by StaticIssuer
const StaticCode = "123456"

// MaxAttempts bounds wrong guesses against a single issued code
const MaxAttempts = 5

var ErrStoreUnavailable = errors.New("otp: store unavailable")

// Record is the server-side state of an issued code
type Record struct {
	Secret   string
	IssuedAt time.Time
}

// Store persists issued codes until they expire. Failed guesses are counted
// per subject, not per code, so issuing a new code does not refill them.
type Store interface {
	Save(ctx context.Context, subject string, rec Record, ttl time.Duration) error
	// Load returns nil without error when no live code exists
	Load(ctx context.Context, subject string) (*Record, error)
	// IncrAttempts counts a guess; the counter starts expiring with the first one
	IncrAttempts(ctx context.Context, subject string, window time.Duration) (int, error)
	// Delete removes the code and leaves the attempt counter running
	Delete(ctx context.Context, subject string) error
	ResetAttempts(ctx context.Context, subject string) error
}

// TOTPIssuer derives a six digit code from a fresh random secret per request.
// Codes are single use and expire with their store entry.
type TOTPIssuer struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewTOTPIssuer(store Store, ttl time.Duration) *TOTPIssuer {
	return &TOTPIssuer{store: store, ttl: ttl, now: time.Now}
}

func (i *TOTPIssuer) validateOpts() totp.ValidateOpts {
	period := uint(i.ttl.Seconds())
	if period == 0 {
		period = 30
	}
	return totp.ValidateOpts{
		Period:    period,
		Skew:      0,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (i *TOTPIssuer) Issue(ctx context.Context, subject string) (string, time.Time, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "JobBoard",
		AccountName: subject,
		Period:      i.validateOpts().Period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("otp: generate secret: %w", err)
	}

	issuedAt := i.now()
	code, err := totp.GenerateCodeCustom(key.Secret(), issuedAt, i.validateOpts())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("otp: generate code: %w", err)
	}

	if err := i.store.Save(ctx, normalize(subject), Record{Secret: key.Secret(), IssuedAt: issuedAt}, i.ttl); err != nil {
		return "", time.Time{}, err
	}
	return code, issuedAt.Add(i.ttl), nil
}

func (i *TOTPIssuer) Verify(ctx context.Context, subject, code string) (bool, error) {
	subject = normalize(subject)
	rec, err := i.store.Load(ctx, subject)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	attempts, err := i.store.IncrAttempts(ctx, subject, i.ttl)
	if err != nil {
		return false, err
	}
	if attempts > MaxAttempts {
		return false, i.store.Delete(ctx, subject)
	}

	// Validate against the issue time so the code lives exactly as long as the store entry
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), rec.Secret, rec.IssuedAt, i.validateOpts())
	if err != nil || !ok {
		return false, nil
	}
	if err := i.store.Delete(ctx, subject); err != nil {
		return true, err
	}
	return true, i.store.ResetAttempts(ctx, subject)
}

// StaticIssuer accepts a fixed demo code. Never enable it in production.
type StaticIssuer struct {
	ttl time.Duration
	now func() time.Time
}

func NewStaticIssuer(ttl time.Duration) *StaticIssuer {
	return &StaticIssuer{ttl: ttl, now: time.Now}
}

func (s *StaticIssuer) Issue(ctx context.Context, subject string) (string, time.Time, error) {
	return StaticCode, s.now().Add(s.ttl), nil
}

func (s *StaticIssuer) Verify(ctx context.Context, subject, code string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(StaticCode)) == 1, nil
}

func normalize(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
