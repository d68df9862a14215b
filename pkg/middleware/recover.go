package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/lookup/pkg/logger"
	"github.com/shashiranjanraj/lookup/pkg/response"
)

// Recovery turns a handler panic into a logged stack trace and a generic 500.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.InternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
