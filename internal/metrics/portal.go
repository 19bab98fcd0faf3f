package metrics

import "github.com/prometheus/client_golang/prometheus"

// PortalMetrics holds Prometheus metrics for job and application activity.
type PortalMetrics struct {
	JobsCreated         prometheus.Counter
	ApplicationsCreated prometheus.Counter
	EnrichmentLookups   *prometheus.CounterVec
	SessionsIssued      prometheus.Counter
	SessionRejections   *prometheus.CounterVec
}

// NewPortalMetrics creates and registers portal metrics on the given registry.
func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		JobsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_created_total",
			Help:      "Total number of jobs created.",
		}),
		ApplicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_created_total",
			Help:      "Total number of applications created.",
		}),
		EnrichmentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_lookups_total",
			Help:      "Total number of job lookups made while enriching applications, by result.",
		}, []string{"result"}),
		SessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_issued_total",
			Help:      "Total number of session tokens issued.",
		}),
		SessionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_rejections_total",
			Help:      "Total number of rejected session tokens, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.JobsCreated, m.ApplicationsCreated, m.EnrichmentLookups, m.SessionsIssued, m.SessionRejections)
	return m
}

// The recording helpers below are safe on a nil *PortalMetrics so services
// can run without a registry in tests.

// JobCreated counts one created job.
func (m *PortalMetrics) JobCreated() {
	if m == nil {
		return
	}
	m.JobsCreated.Inc()
}

// ApplicationCreated counts one created application.
func (m *PortalMetrics) ApplicationCreated() {
	if m == nil {
		return
	}
	m.ApplicationsCreated.Inc()
}

// EnrichmentLookup counts one job lookup made during enrichment.
// result is "hit", "missing" or "error".
func (m *PortalMetrics) EnrichmentLookup(result string) {
	if m == nil {
		return
	}
	m.EnrichmentLookups.WithLabelValues(result).Inc()
}

// SessionIssued counts one issued session token.
func (m *PortalMetrics) SessionIssued() {
	if m == nil {
		return
	}
	m.SessionsIssued.Inc()
}

// SessionRejected counts one rejected session token.
func (m *PortalMetrics) SessionRejected(reason string) {
	if m == nil {
		return
	}
	m.SessionRejections.WithLabelValues(reason).Inc()
}
