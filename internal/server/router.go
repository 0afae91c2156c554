package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRouter is an HTTP router implementing the [Router] interface.
//
// Uses [chi.Router] internally for routing, so path patterns may carry parameters ("/api/shows/{id}").
type ChiRouter struct {
	mux chi.Router
}

// NewChiRouter creates a new [ChiRouter] instance.
func NewChiRouter() *ChiRouter {
	return &ChiRouter{mux: chi.NewRouter()}
}

// Use adds [Middleware] to the router's middleware stack, applied in the order it's added.
//
// All middleware must be added before the first route is registered.
func (r *ChiRouter) Use(middleware ...Middleware) {
	for _, mw := range middleware {
		r.mux.Use(mw)
	}
}

// With returns a router sharing this router's routes whose handlers are additionally wrapped by middleware.
func (r *ChiRouter) With(middleware ...Middleware) *ChiRouter {
	mws := make([]func(http.Handler) http.Handler, 0, len(middleware))
	for _, mw := range middleware {
		mws = append(mws, mw)
	}
	return &ChiRouter{mux: r.mux.With(mws...)}
}

// Handle registers a handler for the specified HTTP method and path.
//
// Other methods on the same path answer 405.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers a custom Handler implementation for every method.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *ChiRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
