package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-board-backend/config"
	_ "job-board-backend/docs" // Important for Swagger
	v1 "job-board-backend/internal/delivery/http/v1"
	"job-board-backend/internal/domain"
	"job-board-backend/internal/repository"
	"job-board-backend/internal/usecase"
	"job-board-backend/pkg/audit"
	"job-board-backend/pkg/auth"
	"job-board-backend/pkg/email"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/otp"
	"job-board-backend/pkg/redis"
	"job-board-backend/pkg/security"
	"job-board-backend/pkg/sms"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const serviceName = "job-board-backend"

// @title           Job Board API
// @version         1.0
// @description     Job board backend: postings with admin approval, applications and their review workflow.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.IsProduction())
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "store", cfg.StoreDriver)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	auditLog := audit.New(serviceName, cfg.Environment)
	defer auditLog.Sync()

	validation.RegisterGinValidators()

	// 3. Setup Entity Store
	ctx := context.Background()
	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to open entity store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	// 4. Setup Redis (optional)
	checks := map[string]domain.HealthChecker{"store": repos.Health}
	redisClient, err := redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	} else {
		defer redisClient.Close()
		checks["redis"] = redis.Health{Client: redisClient}
	}

	// 5. Setup Messaging, OTP and Tokens
	emailSender := email.NewSender(cfg)
	otpIssuer, err := newOtpIssuer(cfg, redisClient)
	if err != nil {
		logger.Log.Error("Failed to setup OTP", "mode", cfg.OTPMode, "error", err)
		os.Exit(1)
	}

	var jwks *auth.KeySet
	if cfg.JWKSUrl != "" {
		jwks = auth.NewKeySet(cfg.JWKSUrl)
		if err := jwks.Refresh(ctx); err != nil {
			logger.Log.Warn("JWKS prefetch failed, keys load on first RS256 token", "error", err)
		}
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry, jwks)

	// 6. Setup UseCases
	notify := usecase.NewNotifier(emailSender, sms.NewLogSender(), auditLog)
	loginGuard := security.NewLoginTracker(redisClient, security.DefaultLoginTrackerConfig(), auditLog)
	authUC := usecase.NewAuthUsecase(repos.Users, tokens, otpIssuer, emailSender, loginGuard, auditLog)
	userUC := usecase.NewUserUsecase(repos.Users, auditLog)
	companyUC := usecase.NewCompanyUsecase(repos.Companies, auditLog)
	jobUC := usecase.NewJobUsecase(repos.Jobs, repos.Companies, repos.Users, notify, auditLog)
	applicationUC := usecase.NewApplicationUsecase(repos.Applications, repos.Jobs, repos.Users, notify, auditLog)
	adminUC := usecase.NewAdminUsecase(repos.Admin, auditLog)
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CompanyUC:     companyUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		AdminUC:       adminUC,
		Health:        healthUC,
		Tokens:        tokens,
		Redis:         redisClient,
		Audit:         auditLog,
		Config:        cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newOtpIssuer returns the random issuer backed by Redis, or the demo issuer in static mode
func newOtpIssuer(cfg *config.Config, redisClient *goredis.Client) (domain.OtpIssuer, error) {
	switch cfg.OTPMode {
	case config.OTPModeStatic:
		if cfg.IsProduction() {
			logger.Log.Warn("Static OTP mode enabled in production")
		}
		return otp.NewStaticIssuer(cfg.OTPTTL), nil
	case config.OTPModeRandom:
		if redisClient == nil {
			return nil, errors.New("random OTP mode requires Redis")
		}
		return otp.NewTOTPIssuer(otp.NewRedisStore(redisClient), cfg.OTPTTL), nil
	}
	return nil, fmt.Errorf("unknown OTP_MODE %q", cfg.OTPMode)
}
