package middleware

import (
	"net/http"

	"github.com/davidbz/costwatch/internal/config"
)

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares so the first one sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// BuildMiddlewareChain wraps the estimator routes (/v1/estimates,
// /v1/estimates/{category}, /v1/prices and /health).
//
// CORS runs first so browser preflights from the calculator page are answered
// before a request id is minted. Trace then tags every real request and logs
// its status and latency.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsConfig),
		Trace(),
	)
}
