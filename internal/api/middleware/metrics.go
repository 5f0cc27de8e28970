package middleware

import (
	"net/http"
	"time"

	"github.com/devpatel-io/taskflow/internal/monitoring"
)

const slowRequestThreshold = 2 * time.Second

// Metrics feeds the advisory request counters. The counters are
// observability-only: resetting or losing them never affects request
// handling.
func Metrics(sink monitoring.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			sink.IncrCounter(monitoring.CounterRequests, 1)
			if rec.status >= http.StatusInternalServerError {
				sink.IncrCounter(monitoring.CounterErrors, 1)
			}
			if rec.status == http.StatusBadRequest {
				sink.IncrCounter(monitoring.CounterValidationErrors, 1)
			}
			if time.Since(start) > slowRequestThreshold {
				sink.IncrCounter(monitoring.CounterSlowRequests, 1)
			}
		})
	}
}
