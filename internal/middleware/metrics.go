package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/metrics"
)

// Metrics records request counts, durations and in-flight requests. The
// route label is the matched ServeMux pattern so ids do not explode the
// label set.
func Metrics(m *metrics.HTTPMetrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(wrapped.statusCode)
			m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		})
	}
}
