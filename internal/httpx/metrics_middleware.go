package httpx

import (
	"net/http"
	"time"
)

// RequestObserver records one finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// MetricsMiddleware reports every request to obs, labelled by the matched
// ServeMux pattern so path parameters do not explode cardinality.
func MetricsMiddleware(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
