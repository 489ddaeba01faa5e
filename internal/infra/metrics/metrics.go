// internal/infra/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the bot.
type Metrics struct {
	// Deliveries counts verse deliveries by trigger (daily, on_demand) and outcome
	Deliveries *prometheus.CounterVec
	// GuardDecisions counts daily guard evaluations by decision
	GuardDecisions *prometheus.CounterVec
	// LastDailySuccess is the unix time of the last successful daily post
	LastDailySuccess prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Total number of verse delivery attempts",
			},
			[]string{"trigger", "outcome"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_decisions_total",
				Help:      "Total number of daily guard evaluations",
			},
			[]string{"decision"},
		),
		LastDailySuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_daily_success_timestamp_seconds",
				Help:      "Unix time of the last successful daily verse post",
			},
		),
	}

	registry.MustRegister(m.Deliveries, m.GuardDecisions, m.LastDailySuccess)
	return m
}

// RecordDelivery implements app.Recorder.
func (m *Metrics) RecordDelivery(trigger, outcome string) {
	m.Deliveries.WithLabelValues(trigger, outcome).Inc()
}

// RecordDailySuccess implements app.Recorder.
func (m *Metrics) RecordDailySuccess() {
	m.LastDailySuccess.SetToCurrentTime()
}

// RecordDecision implements app.Recorder.
func (m *Metrics) RecordDecision(decision string) {
	m.GuardDecisions.WithLabelValues(decision).Inc()
}

// Handler returns the HTTP handler exposing this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
