package sample

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts candidate draws of the rejection sampler.
type Metrics struct {
	Draws    prometheus.Counter
	Accepted prometheus.Counter
	Rejected *prometheus.CounterVec
}

// NewMetrics creates the sampler counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Draws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "detgeom",
			Subsystem: "sample",
			Name:      "draws_total",
			Help:      "Candidate points drawn by the rejection sampler.",
		}),
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "detgeom",
			Subsystem: "sample",
			Name:      "accepted_total",
			Help:      "Candidate points accepted by the rejection sampler.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "detgeom",
			Subsystem: "sample",
			Name:      "rejected_total",
			Help:      "Candidate points rejected, by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.Draws, m.Accepted, m.Rejected)
	}
	return m
}

func (m *Metrics) observe(reason string) {
	if m == nil {
		return
	}
	m.Draws.Inc()
	if reason == "" {
		m.Accepted.Inc()
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}
