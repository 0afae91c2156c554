package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RequestLogger logs one line per request with its status, size and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}

			switch {
			case status >= 500:
				logger.Error("request", kv...)
			case status >= 400:
				logger.Warn("request", kv...)
			default:
				logger.Info("request", kv...)
			}
		})
	}
}

// Metrics records request latency and counts labelled by the matched route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, status, time.Since(start))
	})
}

// RateLimitByIP allows requests per minute from each client IP. A limit <= 0 disables it.
func RateLimitByIP(requests int) Middleware {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, messageResponse{Message: "Too many requests."})
		}),
	)
}
