// Package server provides HTTP routing, middleware and the JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [ChiRouter]
// implements it on top of chi so path patterns can carry parameters.
//
// [Middleware] wraps handlers in the order added (first added runs outermost).
//
// # API
//
// [API] owns the /api routes. Handlers decode and validate input, delegate to the show
// store, user store, importer or auth gateway, and write JSON. Every failure body is
// `{"message": "..."}`; statusFor maps error kinds to status codes and keeps storage and
// upstream details out of responses.
//
// [NewRouter] wires the API together with request ids, logging, metrics, panic
// recovery, session resolution, /metrics and the static catch-all.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
