package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/turfspot/turf-booking-backend/internal/config"
)

// FunctionsPrefix is the path prefix of the notification functions
const FunctionsPrefix = "/functions/"

// CORS applies the configured policy to the API and a permissive policy to
// the notification functions, which are called from any origin.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	api := cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(cfg.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	})

	functions := cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
	})

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, FunctionsPrefix) {
			functions(c)
			return
		}
		api(c)
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
