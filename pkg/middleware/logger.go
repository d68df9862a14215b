// Package middleware holds the cross-cutting HTTP wrappers installed by the
// kernel around the route table.
package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/lookup/pkg/logger"
	"github.com/shashiranjanraj/lookup/pkg/reqid"
)

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wrote {
		sw.status = code
		sw.wrote = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wrote = true
	return sw.ResponseWriter.Write(b)
}

// Logger writes one access line per request, tagged with the request_id set
// by reqid.Middleware, and hands the tagged logger to downstream code
// through logger.WithCtx.
//
//	mux.Use(reqid.Middleware())
//	mux.Use(middleware.Logger)
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.WithCtx(r.Context()).With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		reqLog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
