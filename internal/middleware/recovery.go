package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"educreate/internal/httputil"
)

// Recovery turns a panicking handler into a 500 problem response. A panic
// with http.ErrAbortHandler is passed on so the server aborts the response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", httputil.GetUserID(r),
					"stack", string(debug.Stack()),
				)
				httputil.RespondError(w, http.StatusInternalServerError, "internal", "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
