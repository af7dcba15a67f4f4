package kvserver

import (
	"time"

	"github.com/yndnr/kvs/internal/telemetry/metric"
)

// EngineMetricsAdapter satisfies kvengine.Metrics by forwarding the
// engine's internal-only signals — stale-byte pressure and compaction
// counts — onto a metric.Registry. Kept in this package rather than
// kvengine or metric to avoid either depending on the other.
//
// ObserveOp is deliberately a no-op: Server.dispatch already records
// ops_total/op_duration at the command-dispatch boundary, where it
// covers both storage backends uniformly. Wiring the engine's own
// ObserveOp into the same series would double-count every op for the
// kvs backend.
type EngineMetricsAdapter struct {
	registry *metric.Registry
}

// NewEngineMetricsAdapter wraps registry. A nil registry yields an
// adapter whose methods are no-ops.
func NewEngineMetricsAdapter(registry *metric.Registry) *EngineMetricsAdapter {
	return &EngineMetricsAdapter{registry: registry}
}

func (a *EngineMetricsAdapter) ObserveOp(op string, dur time.Duration) {}

func (a *EngineMetricsAdapter) SetStaleBytes(n int64) {
	if a.registry == nil {
		return
	}
	a.registry.StaleBytes.Set(float64(n))
}

func (a *EngineMetricsAdapter) IncCompactions() {
	if a.registry == nil {
		return
	}
	a.registry.CompactionsTotal.Inc()
}
