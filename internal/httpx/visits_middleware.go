package httpx

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

const (
	visitsCookie = "num_visits"
	// maxVisits is where the counter stops growing.
	maxVisits = math.MaxInt32
)

// VisitsMiddleware counts a client's visits in a cookie. The count seen before
// this request is available through VisitsFrom; the response carries the
// incremented value.
func VisitsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visits := 0
		if c, err := r.Cookie(visitsCookie); err == nil {
			if n, err := strconv.Atoi(c.Value); err == nil && n > 0 {
				visits = min(n, maxVisits)
			}
		}

		count := visits
		if count < maxVisits {
			count++
		}
		http.SetCookie(w, &http.Cookie{
			Name:     visitsCookie,
			Value:    strconv.Itoa(count),
			Path:     "/",
			MaxAge:   int((14 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(ContextWithVisits(r.Context(), visits)))
	})
}
