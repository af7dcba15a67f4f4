// Package metric provides Prometheus metrics for the store process.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: metrics registry and HTTP handler
//   - collector.go: a pull-model collector for engine-sampled stats
//
// Metrics include:
//
//   - Operation latency histograms
//   - Connection count gauges
//   - Live key and stale-byte gauges
//   - Compaction counters
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
