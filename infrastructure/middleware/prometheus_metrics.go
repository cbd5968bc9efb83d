// Package middleware provides cross-cutting observability adapters for
// benchmark runs.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/calder-ml/prefbench/internal/ports"
)

// metricLabels are the label dimensions shared by all scoring metrics.
var metricLabels = []string{"backend", "model", "status"}

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of batch latency,
// throughput, and pairwise accuracy during long benchmark runs.
type PrometheusMetrics struct {
	batchLatency  *prometheus.HistogramVec
	batchSize     *prometheus.HistogramVec
	batchCounter  *prometheus.CounterVec
	textCounter   *prometheus.CounterVec
	runGauges     *prometheus.GaugeVec
	genericCounts *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers
// all metrics in the default Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWith registers the metrics in the given registerer.
// Tests pass a private registry to avoid duplicate registration panics.
func NewPrometheusMetricsWith(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		batchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_batch_latency_seconds",
				Help:    "Latency of scoring one batch against the reward model backend.",
				Buckets: prometheus.DefBuckets,
			},
			metricLabels,
		),
		batchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scoring_batch_size",
				Help:    "Number of texts submitted per scoring batch.",
				Buckets: prometheus.LinearBuckets(1, 8, 8),
			},
			metricLabels,
		),
		batchCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_batches_total",
				Help: "Total scoring batches submitted, by outcome status.",
			},
			metricLabels,
		),
		textCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoring_texts_total",
				Help: "Total texts successfully scored.",
			},
			metricLabels,
		),
		runGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "benchmark_run_state",
				Help: "Current benchmark run state values, such as running pairwise accuracy.",
			},
			[]string{"metric", "model"},
		),
		genericCounts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchmark_events_total",
				Help: "Counts of benchmark events not covered by a dedicated metric.",
			},
			[]string{"metric", "model"},
		),
	}
}

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// scoringLabels extracts the shared label values, substituting "unknown"
// for absent labels so metric cardinality stays bounded and predictable.
func scoringLabels(labels map[string]string) (backend, model, status string) {
	backend, model, status = labels["backend"], labels["model"], labels["status"]
	if backend == "" {
		backend = "unknown"
	}
	if model == "" {
		model = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	return backend, model, status
}

// RecordLatency records an operation duration in the batch latency
// histogram.
func (pm *PrometheusMetrics) RecordLatency(_ string, duration time.Duration, labels map[string]string) {
	backend, model, status := scoringLabels(labels)
	pm.batchLatency.WithLabelValues(backend, model, status).Observe(duration.Seconds())
}

// RecordCounter increments the counter named by metric.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	backend, model, status := scoringLabels(labels)

	switch metric {
	case "scoring_batches_total":
		pm.batchCounter.WithLabelValues(backend, model, status).Add(value)
	case "scoring_texts_total":
		pm.textCounter.WithLabelValues(backend, model, status).Add(value)
	default:
		pm.genericCounts.WithLabelValues(metric, model).Add(value)
	}
}

// RecordGauge sets a benchmark run state gauge, keyed by metric name and
// model.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	_, model, _ := scoringLabels(labels)
	pm.runGauges.WithLabelValues(metric, model).Set(value)
}

// RecordHistogram records a value in the histogram named by metric.
// Latency observations land in the latency histogram; batch sizes in the
// size histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	backend, model, status := scoringLabels(labels)

	switch metric {
	case "scoring_batch_size":
		pm.batchSize.WithLabelValues(backend, model, status).Observe(value)
	default:
		pm.batchLatency.WithLabelValues(backend, model, status).Observe(value)
	}
}
