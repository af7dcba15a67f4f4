// Package metric exposes process and store metrics in Prometheus
// format: connection counts, operation rates and latencies, and
// storage-engine internals like live key count and stale-byte
// pressure.
package metric

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kvs"

// Registry holds every metric the process exports.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive Gauge
	ConnectionsTotal  Counter

	// Operation metrics
	OpsTotal   CounterVec
	OpDuration HistogramVec

	// Storage engine metrics
	KeysTotal        Gauge
	StorageBytes     Gauge
	StaleBytes       Gauge
	CompactionsTotal Counter
}

// NewRegistry builds a Registry backed by its own prometheus.Registry,
// so multiple Registry instances (as in tests) never collide over
// prometheus's global default registerer.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	connectionsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Number of open client connections.",
	})
	connectionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Total client connections accepted.",
	})
	opsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ops_total",
		Help:      "Total store operations, by command and outcome.",
	}, []string{"op", "status"})
	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "op_duration_seconds",
		Help:      "Store operation latency in seconds, by command.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	keysTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "keys_total",
		Help:      "Number of live keys in the store.",
	})
	storageBytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "storage_bytes",
		Help:      "Total bytes occupied by generation files on disk.",
	})
	staleBytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stale_bytes",
		Help:      "Bytes held by overwritten or removed records awaiting compaction.",
	})
	compactionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compactions_total",
		Help:      "Total compactions run.",
	})

	reg.MustRegister(connectionsActive, connectionsTotal, opsTotal, opDuration,
		keysTotal, storageBytes, staleBytes, compactionsTotal)

	return &Registry{
		registry:          reg,
		ConnectionsActive: connectionsActive,
		ConnectionsTotal:  connectionsTotal,
		OpsTotal:          &counterVecAdapter{opsTotal},
		OpDuration:        &histogramVecAdapter{opDuration},
		KeysTotal:         keysTotal,
		StorageBytes:      storageBytes,
		StaleBytes:        staleBytes,
		CompactionsTotal:  compactionsTotal,
	}
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide Registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns the process-wide Registry's HTTP handler.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler serves r's metrics in Prometheus text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordOp increments the operation counter for op with the given
// outcome ("ok" or "err").
func (r *Registry) RecordOp(op, status string) {
	r.OpsTotal.WithLabelValues(op, status).Inc()
}

// ObserveOpDuration records how long op took, in seconds.
func (r *Registry) ObserveOpDuration(op string, seconds float64) {
	r.OpDuration.WithLabelValues(op).Observe(seconds)
}

// ObserveOp satisfies kvengine.Metrics: it records both the operation
// count and its latency in one call.
func (r *Registry) ObserveOp(op string, dur time.Duration) {
	r.RecordOp(op, "ok")
	r.ObserveOpDuration(op, dur.Seconds())
}

// SetStaleBytes satisfies kvengine.Metrics.
func (r *Registry) SetStaleBytes(n int64) {
	r.StaleBytes.Set(float64(n))
}

// IncCompactions satisfies kvengine.Metrics.
func (r *Registry) IncCompactions() {
	r.CompactionsTotal.Inc()
}

func (r *Registry) IncConnectionsActive() {
	r.ConnectionsActive.Inc()
	r.ConnectionsTotal.Inc()
}

func (r *Registry) DecConnectionsActive() {
	r.ConnectionsActive.Dec()
}

func (r *Registry) SetKeysTotal(n float64) {
	r.KeysTotal.Set(n)
}

func (r *Registry) SetStorageBytes(n float64) {
	r.StorageBytes.Set(n)
}

// counterVecAdapter narrows a *prometheus.CounterVec's WithLabelValues
// return type to the package's own Counter interface.
type counterVecAdapter struct {
	v *prometheus.CounterVec
}

func (a *counterVecAdapter) WithLabelValues(lvs ...string) Counter {
	return a.v.WithLabelValues(lvs...)
}

// histogramVecAdapter narrows a *prometheus.HistogramVec's
// WithLabelValues return type to the package's own Histogram interface.
type histogramVecAdapter struct {
	v *prometheus.HistogramVec
}

func (a *histogramVecAdapter) WithLabelValues(lvs ...string) Histogram {
	return a.v.WithLabelValues(lvs...)
}
