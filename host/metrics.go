package host

import "github.com/ethereum/go-ethereum/metrics"

// hostMetrics are the counters of one Host, registered in Config.Metrics.
type hostMetrics struct {
	calls      *metrics.Counter
	reverted   *metrics.Counter
	tooDeep    *metrics.Counter
	fatal      *metrics.Counter
	precompile *metrics.Counter
	depth      *metrics.Gauge
	maxDepth   *metrics.Gauge
}

func newHostMetrics(r metrics.Registry) *hostMetrics {
	return &hostMetrics{
		calls:      metrics.GetOrRegisterCounter("evmdry/host/calls", r),
		reverted:   metrics.GetOrRegisterCounter("evmdry/host/calls/reverted", r),
		tooDeep:    metrics.GetOrRegisterCounter("evmdry/host/calls/toodeep", r),
		fatal:      metrics.GetOrRegisterCounter("evmdry/host/calls/fatal", r),
		precompile: metrics.GetOrRegisterCounter("evmdry/host/precompiles", r),
		depth:      metrics.GetOrRegisterGauge("evmdry/host/depth", r),
		maxDepth:   metrics.GetOrRegisterGauge("evmdry/host/depth/max", r),
	}
}

func (m *hostMetrics) enter(depth int) {
	m.depth.Update(int64(depth))
	m.maxDepth.UpdateIfGt(int64(depth))
}
