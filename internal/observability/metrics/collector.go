// Package metrics exposes Prometheus instrumentation for the adjudication
// engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's Prometheus metrics.
type Collector struct {
	// Adjudication metrics
	AdjudicationDuration *prometheus.HistogramVec
	AdjudicationCount    *prometheus.CounterVec
	DebateRounds         prometheus.Histogram
	EvidenceClaims       prometheus.Histogram

	// Collaborator metrics
	CollaboratorErrors *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewCollector creates a Collector with all metrics registered on a private
// registry.
func NewCollector() *Collector {
	c := &Collector{
		AdjudicationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adjudication_duration_seconds",
				Help:    "Wall time of one adjudication call",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"status"},
		),
		AdjudicationCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adjudication_verdicts_total",
				Help: "Verdicts emitted by terminal status",
			},
			[]string{"status"},
		),
		DebateRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adjudication_debate_rounds",
				Help:    "Debate rounds run per adjudication",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 10},
			},
		),
		EvidenceClaims: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adjudication_evidence_claims",
				Help:    "Claims extracted per evidence manifest",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		CollaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adjudication_collaborator_errors_total",
				Help: "Fatal collaborator failures by collaborator",
			},
			[]string{"collaborator"},
		),
		registry: prometheus.NewRegistry(),
	}

	c.registry.MustRegister(
		c.AdjudicationDuration,
		c.AdjudicationCount,
		c.DebateRounds,
		c.EvidenceClaims,
		c.CollaboratorErrors,
	)

	return c
}

// ObserveVerdict records the terminal outcome of one adjudication.
func (c *Collector) ObserveVerdict(status string, seconds float64, rounds int) {
	if c == nil {
		return
	}
	c.AdjudicationDuration.WithLabelValues(status).Observe(seconds)
	c.AdjudicationCount.WithLabelValues(status).Inc()
	c.DebateRounds.Observe(float64(rounds))
}

// ObserveEvidence records the size of one gathered evidence manifest.
func (c *Collector) ObserveEvidence(claims int) {
	if c == nil {
		return
	}
	c.EvidenceClaims.Observe(float64(claims))
}

// ObserveCollaboratorError records a fatal collaborator failure.
func (c *Collector) ObserveCollaboratorError(collaborator string) {
	if c == nil {
		return
	}
	c.CollaboratorErrors.WithLabelValues(collaborator).Inc()
}

// Handler serves the collector's registry in the Prometheus exposition
// format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
