package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured frontend origins, with credentials so
// the auth cookie travels
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{
		"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
		"Authorization", "Cache-Control", "X-Requested-With", requestIDHeader,
	}
	config.ExposeHeaders = []string{requestIDHeader, "Content-Disposition", "Retry-After"}
	config.MaxAge = 24 * time.Hour
	return cors.New(config)
}
