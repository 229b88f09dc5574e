package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records proxy action and session gate activity
type Collector struct {
	registry       *prometheus.Registry
	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	backendStatus  *prometheus.CounterVec
	gateDecisions  *prometheus.CounterVec
}

// NewCollector creates a collector backed by its own registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		actionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_proxy_actions_total",
				Help: "Total number of proxy actions by outcome",
			},
			[]string{"action", "outcome"},
		),
		actionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_proxy_action_duration_seconds",
				Help:    "Duration of proxy actions including all backend calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		backendStatus: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_backend_responses_total",
				Help: "Backend responses by endpoint and status class",
			},
			[]string{"endpoint", "class"},
		),
		gateDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_gate_decisions_total",
				Help: "Session gate decisions by path class",
			},
			[]string{"class", "outcome"},
		),
	}
}

// RecordAction records the outcome of one proxy action. outcome is "success" or
// the failure kind.
func (c *Collector) RecordAction(action, outcome string, duration time.Duration) {
	c.actionsTotal.WithLabelValues(action, outcome).Inc()
	c.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordBackendResponse records the status class returned by a backend endpoint
func (c *Collector) RecordBackendResponse(endpoint string, status int) {
	c.backendStatus.WithLabelValues(endpoint, statusClass(status)).Inc()
}

// RecordGateDecision records one session gate decision
func (c *Collector) RecordGateDecision(class, outcome string) {
	c.gateDecisions.WithLabelValues(class, outcome).Inc()
}

// Handler exposes the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}
