package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costwatch/internal/config"
	"github.com/davidbz/costwatch/internal/httpserver/middleware"
	"github.com/davidbz/costwatch/internal/observability"
)

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(tag("first"), tag("second"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestTrace_InjectsIDs(t *testing.T) {
	var requestID string
	handler := middleware.Trace()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = observability.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, w.Code)
	require.NotEmpty(t, requestID)
	require.Equal(t, requestID, w.Header().Get("X-Request-Id"))
	require.NotEmpty(t, w.Header().Get("X-Trace-Id"))
}

func TestCORS_NilConfigIsNoop(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	middleware.CORS(nil)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBuildMiddlewareChain_ExposesTraceHeaders(t *testing.T) {
	chain := middleware.BuildMiddlewareChain(&config.CORSConfig{
		AllowedOrigins: []string{"https://calculator.example"},
		AllowedMethods: []string{http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	handler := chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight is answered without a request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/estimates", nil)
		req.Header.Set("Origin", "https://calculator.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, "https://calculator.example", w.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("request exposes the trace headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/estimates", nil)
		req.Header.Set("Origin", "https://calculator.example")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		require.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), middleware.HeaderRequestID)
	})
}
