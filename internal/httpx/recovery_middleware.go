package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrapResponseWriter(w)
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"request_id", RequestIDFrom(r),
					"error", err,
					"stack", string(debug.Stack()),
				)

				if !rw.wroteHeader() {
					InternalError(rw, r)
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
