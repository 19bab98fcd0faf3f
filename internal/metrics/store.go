package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/database"
)

// StoreMetrics holds Prometheus metrics for SurrealDB calls and the
// circuit breaker in front of them.
type StoreMetrics struct {
	QueryDuration      *prometheus.HistogramVec
	BreakerState       prometheus.Gauge
	BreakerTransitions *prometheus.CounterVec
}

var _ database.Observer = (*StoreMetrics)(nil)

// NewStoreMetrics creates and registers store metrics on the given registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "Duration of store calls in seconds, by operation and outcome.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "outcome"}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "circuit_breaker_state",
			Help:      "Store circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		BreakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "circuit_breaker_transitions_total",
			Help:      "Total number of store circuit breaker state changes, by new state.",
		}, []string{"state"}),
	}

	reg.MustRegister(m.QueryDuration, m.BreakerState, m.BreakerTransitions)
	return m
}

// ObserveQuery records one store call.
func (m *StoreMetrics) ObserveQuery(operation string, d time.Duration, err error) {
	m.QueryDuration.WithLabelValues(operation, outcome(err)).Observe(d.Seconds())
}

// BreakerStateChanged records a breaker transition.
func (m *StoreMetrics) BreakerStateChanged(to database.BreakerState) {
	m.BreakerState.Set(float64(to))
	m.BreakerTransitions.WithLabelValues(to.String()).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, database.ErrNotFound):
		return "not_found"
	case errors.Is(err, database.ErrUnavailable):
		return "rejected"
	case errors.Is(err, database.ErrConnection):
		return "connection_error"
	default:
		return "query_error"
	}
}
