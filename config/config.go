package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// OTP modes
const (
	OTPModeRandom = "random"
	OTPModeStatic = "static"
)

type Config struct {
	Port        string
	Environment string
	// Entity store
	StoreDriver string
	DBUrl       string
	MongoURL    string
	MongoDB     string
	// Token configuration
	JWTSecret string
	JWTExpiry time.Duration
	JWKSUrl   string // Optional external identity provider (RS256)
	// CORS
	AllowedOrigins []string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// OTP
	OTPMode string
	OTPTTL  time.Duration
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitAuthThreshold   int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environments inject variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", "development"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DBUrl:       getEnv("DATABASE_URL", ""),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "jobboard"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTExpiry:   time.Duration(getEnvInt("JWT_EXPIRE_HOURS", 24*7)) * time.Hour,
		JWKSUrl:     strings.TrimRight(getEnv("JWKS_URL", ""), "/"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://localhost:3002",
		}),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@jobboard.local"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// OTP
		OTPMode: strings.ToLower(getEnv("OTP_MODE", OTPModeRandom)),
		OTPTTL:  time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 900), // 15 minute window
		RateLimitAuthThreshold:   getEnvInt("RATE_LIMIT_AUTH_THRESHOLD", 20),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.StoreDriver == StoreDriverPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not configured. Token issuing is disabled.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback and random OTP is unavailable.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList returns a comma separated environment variable as a slice
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
