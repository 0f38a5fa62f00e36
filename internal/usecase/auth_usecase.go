package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/email"
	"job-board-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   domain.TokenIssuer
	otp      domain.OtpIssuer
	mailer   domain.EmailSender
	guard    domain.LoginGuard
	audit    *audit.Logger
	now      func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens domain.TokenIssuer,
	otpIssuer domain.OtpIssuer,
	mailer domain.EmailSender,
	guard domain.LoginGuard,
	auditLog *audit.Logger,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		otp:      otpIssuer,
		mailer:   mailer,
		guard:    guard,
		audit:    auditLog,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account. Admin cannot be self-assigned.
func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleJobSeeker
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return nil, apperror.Validation("Invalid role", []string{"role: must be one of jobseeker, employer, volunteer"})
	}

	emailAddr := normalizeEmail(input.Email)
	if _, err := u.userRepo.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperror.Conflict("User already exists with this email")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := u.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         role,
		Profile: domain.Profile{
			Experience:        []domain.Experience{},
			Education:         []domain.Education{},
			Skills:            []string{},
			ProfileVisibility: domain.VisibilityPublic,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Wrap(http.StatusConflict, apperror.KindConflict, "User already exists with this email", err)
		}
		return nil, apperror.Internal(err)
	}

	return u.signIn(ctx, user, "register")
}

// Login checks the password. Unknown emails and wrong passwords look the same to clients.
func (u *authUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)

	if u.guard != nil {
		blocked, err := u.guard.Blocked(ctx, emailAddr)
		if err != nil {
			logger.Log.Warn("login guard unavailable", "error", err)
		} else if blocked {
			u.audit.LoginFailed(ctx, emailAddr, "blocked")
			return nil, apperror.TooManyAttempts("Too many failed attempts. Please try again later.")
		}
	}

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.audit.LoginFailed(ctx, emailAddr, "unknown_email")
			u.recordFailure(ctx, emailAddr)
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		u.audit.LoginFailed(ctx, emailAddr, "invalid_password")
		u.recordFailure(ctx, emailAddr)
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if u.guard != nil {
		if err := u.guard.Clear(ctx, emailAddr); err != nil {
			logger.Log.Warn("failed to clear login failures", "error", err)
		}
	}

	if !user.IsActive {
		u.audit.LoginFailed(ctx, emailAddr, "account_inactive")
		return nil, apperror.Unauthorized("Account has been deactivated")
	}

	return u.signIn(ctx, user, "password")
}

func (u *authUsecase) recordFailure(ctx context.Context, emailAddr string) {
	if u.guard == nil {
		return
	}
	if _, err := u.guard.RecordFailure(ctx, emailAddr); err != nil {
		logger.Log.Warn("failed to record login failure", "error", err)
	}
}

// SendOTP issues a one-time login code and emails it to the user
func (u *authUsecase) SendOTP(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return notFound(err, "User not found")
	}
	if !user.IsActive {
		return apperror.Unauthorized("Account has been deactivated")
	}

	code, expiresAt, err := u.otp.Issue(ctx, emailAddr)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to issue otp: %w", err))
	}

	subject, body, err := email.OTPEmail(user.FirstName, code, expiresAt.Sub(u.now()).Round(time.Minute))
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.mailer.SendEmail(ctx, domain.Message{To: user.Email, Subject: subject, Body: body}); err != nil {
		logger.Log.Error("Failed to send OTP email", "user_id", user.ID, "error", err)
		return apperror.Internal(fmt.Errorf("failed to send otp: %w", err))
	}
	return nil
}

func (u *authUsecase) VerifyOTP(ctx context.Context, emailAddr, code string) (*domain.AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)

	ok, err := u.otp.Verify(ctx, emailAddr, strings.TrimSpace(code))
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to verify otp: %w", err))
	}
	if !ok {
		u.audit.LoginFailed(ctx, emailAddr, "invalid_otp")
		return nil, apperror.BadRequest("Invalid or expired OTP")
	}

	user, err := u.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("Account has been deactivated")
	}

	user.EmailVerified = true
	return u.signIn(ctx, user, "otp")
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

// RefreshToken re-reads the token's user so deactivated accounts cannot renew
func (u *authUsecase) RefreshToken(ctx context.Context, token string) (*domain.AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.Validation("Token is required", []string{"token: Token is required"})
	}

	userID, err := u.tokens.Verify(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid token")
		}
		return nil, apperror.Internal(err)
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("Invalid token")
	}

	fresh, err := u.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to issue token: %w", err))
	}
	return &domain.AuthResult{Token: fresh, User: user}, nil
}

// signIn records the login and mints a token
func (u *authUsecase) signIn(ctx context.Context, user *domain.User, method string) (*domain.AuthResult, error) {
	now := u.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := u.userRepo.Update(ctx, user); err != nil {
		logger.Log.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := u.tokens.Issue(user)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to issue token: %w", err))
	}

	u.audit.LoginSuccess(ctx, user.ID, method)
	return &domain.AuthResult{Token: token, User: user}, nil
}
