package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/showtrack/internal/auth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the application router: shared middleware, the API, /metrics and
// the static catch-all. static may be nil.
func NewRouter(api *API, gateway *auth.Gateway, static Handler, logger *log.Logger) *ChiRouter {
	r := NewChiRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(logger),
		Metrics,
		middleware.Recoverer,
		gateway.Authenticate,
	)

	api.Register(r)
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())

	if static != nil {
		r.Handler(static)
	}
	return r
}
