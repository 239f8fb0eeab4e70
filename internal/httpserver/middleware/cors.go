package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/costwatch/internal/config"
)

// CORS lets the calculator page call the estimator from another origin.
// The trace headers are exposed so the page can quote them in bug reports.
// A nil config disables CORS handling entirely.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	policy := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{HeaderRequestID, HeaderTraceID},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return policy.Handler
}
