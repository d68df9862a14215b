// Package app assembles the HTTP kernel: the global middleware stack, the
// metrics endpoint, and the application route table behind them.
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/lookup/pkg/metrics"
	"github.com/shashiranjanraj/lookup/pkg/middleware"
	"github.com/shashiranjanraj/lookup/pkg/reqid"
)

// MetricsPath is served by the kernel ahead of the route table.
const MetricsPath = "/metrics"

// Kernel wraps routes with the global middleware stack.
//
// Middleware order, outermost first:
//  1. metrics   total latency, including the other middleware
//  2. recovery  panics become a generic 500
//  3. reqid     request ID before anything logs
//  4. logger    access line tagged with the request ID
//
// Every request except MetricsPath is handed to routes, which answers its
// own 404s.
func Kernel(routes http.Handler) http.Handler {
	mux := chi.NewRouter()

	mux.Use(metrics.Middleware())
	mux.Use(middleware.Recovery)
	mux.Use(reqid.Middleware())
	mux.Use(middleware.Logger)

	mux.Get(MetricsPath, metrics.Handler())
	mux.Handle("/", routes)
	mux.Handle("/*", routes)
	mux.NotFound(routes.ServeHTTP)
	mux.MethodNotAllowed(routes.ServeHTTP)

	return mux
}
