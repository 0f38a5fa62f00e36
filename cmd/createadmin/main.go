// Command createadmin provisions the first admin account, which cannot be
// self-registered. An existing account with the same email is promoted.
//
//	ADMIN_EMAIL=ops@example.com ADMIN_PASSWORD=... go run ./cmd/createadmin
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"job-board-backend/config"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/repository"
	"job-board-backend/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.IsProduction())

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || len(password) < 6 {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD (min 6 characters) are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open entity store: %v", err)
	}
	defer repos.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user, err := repos.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user.Role = domain.RoleAdmin
		user.IsActive = true
		user.PasswordHash = string(hash)
		user.UpdatedAt = now
		if err := repos.Users.Update(ctx, user); err != nil {
			log.Fatalf("Failed to promote %s: %v", email, err)
		}
		logger.Log.Info("Promoted existing user to admin", "user_id", user.ID)

	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{
			ID:           uuid.NewString(),
			FirstName:    envOr("ADMIN_FIRST_NAME", "Platform"),
			LastName:     envOr("ADMIN_LAST_NAME", "Admin"),
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Profile: domain.Profile{
				Experience:        []domain.Experience{},
				Education:         []domain.Education{},
				Skills:            []string{},
				ProfileVisibility: domain.VisibilityPrivate,
			},
			IsActive:      true,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		logger.Log.Info("Created admin", "user_id", user.ID)

	default:
		log.Fatalf("Failed to look up %s: %v", email, err)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
