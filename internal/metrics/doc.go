// Package metrics registers the service's Prometheus collectors on the default registry.
//
// Collectors cover API request latency, metadata provider calls, import outcomes
// and authentication. They are exposed by the HTTP server at /metrics.
package metrics
