package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/saulo-duarte/classroom-lms/internal/config"
)

// CorsMiddleware allows the origins listed in CORS_ORIGINS. A "*" entry
// allows any origin.
func CorsMiddleware(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   config.Settings().CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	})(next)
}
