// Package metrics provides Prometheus metrics for zanatactl invocations.
//
// A CLI run is too short-lived to be scraped, so the registry is written to a
// node_exporter textfile-collector file when one is configured.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the tool.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ErrorsTotal       *prometheus.CounterVec
	LastRun           *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zanata_operations_total",
				Help: "Total number of operations by name and outcome.",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zanata_operation_duration_seconds",
				Help:    "Operation duration including the HTTP round-trip.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zanata_errors_total",
				Help: "Total failed operations by name and error kind.",
			},
			[]string{"operation", "kind"},
		),
		LastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "zanata_last_run_timestamp_seconds",
				Help: "Unix time of the last run of each operation.",
			},
			[]string{"operation"},
		),
		registry: reg,
	}

	reg.MustRegister(m.OperationsTotal)
	reg.MustRegister(m.OperationDuration)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.LastRun)

	return m
}

// Handler returns an http.Handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSuccess counts a successful operation.
func (m *Metrics) RecordSuccess(operation string, d time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, "success").Inc()
	m.observe(operation, d)
}

// RecordFailure counts a failed operation under its error kind.
func (m *Metrics) RecordFailure(operation, kind string, d time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, "failure").Inc()
	m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
	m.observe(operation, d)
}

func (m *Metrics) observe(operation string, d time.Duration) {
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.LastRun.WithLabelValues(operation).SetToCurrentTime()
}

// WriteTextfile writes the registry atomically to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
