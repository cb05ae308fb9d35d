package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/moviereview-backend/pkg/metrics"
)

// Metrics records request count and latency labelled by chi route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.ObserveRequest(r.Method, routePattern(r), rec.statusOrOK(), time.Since(start))
		})
	}
}
