package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/stevemurr/simple-blog-server/respond"
)

// Recover turns a panic in the wrapped handler into a 500 JSON response.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.Error("panic serving request",
					"request_id", RequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rv,
					"stack", string(debug.Stack()),
				)
				respond.Error(w, http.StatusInternalServerError, respond.InternalServerError, fmt.Sprint(rv))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
