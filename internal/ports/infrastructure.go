package ports

import "time"

// MetricsCollector records operational metrics for scoring runs.
// Implementations integrate with observability platforms like Prometheus;
// a no-op implementation is acceptable when metrics are disabled.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric by value.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, for distributions
	// like batch sizes and per-batch score spreads.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
