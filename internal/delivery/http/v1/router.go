package v1

import (
	"context"
	"net/http"

	"job-board-backend/config"
	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/audit"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker reports the state of each backing service
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	UserUC        domain.UserUsecase
	CompanyUC     domain.CompanyUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	AdminUC       domain.AdminUsecase
	Health        HealthChecker
	Tokens        middleware.TokenParser
	Redis         *goredis.Client // nil falls back to in-memory rate limiting
	Audit         *audit.Logger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(middleware.GlobalRateLimitConfig(deps.Config), deps.Redis, deps.Audit).Middleware())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", healthHandler(deps.Health))

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimit := middleware.NewRateLimiter(middleware.AuthRateLimitConfig(deps.Config), deps.Redis, deps.Audit).Middleware()

	optional := v1.Group("")
	optional.Use(middleware.OptionalAuth(deps.Tokens, deps.AuthUC))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(v1, protected, authLimit, deps.AuthUC, deps.Config)
		NewUserHandler(protected, deps.UserUC)
		NewCompanyHandler(v1, protected, deps.CompanyUC)
		NewJobHandler(optional, protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewAdminHandler(protected, deps.AdminUC)
	}

	return r
}

// Health godoc
// @Summary      Health check
// @Description  Pings the entity store and Redis
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthHandler(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := health.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
