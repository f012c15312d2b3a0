// Package metrics provides Prometheus metrics for MedChron.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/engine"
)

const (
	namespace = "medchron"
)

// Metrics holds every collector, registered on one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Engine metrics
	Projects   *prometheus.GaugeVec
	RunsActive prometheus.Gauge
	RunsTotal  *prometheus.CounterVec
	TicksTotal prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// MCP metrics
	ToolCallsTotal *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		Projects: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "projects",
				Help:      "Number of projects per status kind",
			},
			[]string{"kind"},
		),
		RunsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "runs_active",
				Help:      "Number of runs that have not finished",
			},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "runs_total",
				Help:      "Total finished runs by outcome",
			},
			[]string{"outcome"},
		),
		TicksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "ticks_total",
				Help:      "Total progress ticks applied",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		ToolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mcp",
				Name:      "tool_calls_total",
				Help:      "Total MCP tool calls by tool and result",
			},
			[]string{"tool", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ToolCalled counts one tool call.
func (m *Metrics) ToolCalled(tool string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ToolCallsTotal.WithLabelValues(tool, result).Inc()
}

// Observer returns an engine.Observer that feeds the engine metrics.
func (m *Metrics) Observer() engine.Observer {
	return engineObserver{m}
}

type engineObserver struct {
	m *Metrics
}

func (o engineObserver) ProjectsReplaced(counts map[project.StatusKind]int) {
	for _, k := range project.Kinds {
		o.m.Projects.WithLabelValues(string(k)).Set(float64(counts[k]))
	}
}

func (o engineObserver) StatusChanged(from, to project.StatusKind) {
	if from == to {
		return
	}
	o.m.Projects.WithLabelValues(string(from)).Dec()
	o.m.Projects.WithLabelValues(string(to)).Inc()
}

func (o engineObserver) RunStarted() {
	o.m.RunsActive.Inc()
}

func (o engineObserver) RunEnded(outcome engine.RunOutcome) {
	o.m.RunsActive.Dec()
	o.m.RunsTotal.WithLabelValues(string(outcome)).Inc()
}

func (o engineObserver) Ticked() {
	o.m.TicksTotal.Inc()
}
