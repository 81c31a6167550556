package signal

import "sort"

// Aggregate metric names as the rule engine addresses them.
const (
	MetricLatencyP95MS = "latency_p95_ms"
	MetricErrorRate    = "error_rate"
)

// Aggregates are the decision metrics derived from a buffer snapshot.
type Aggregates struct {
	// LatencyP95MS is the nearest-rank 95th-percentile latency over samples
	// that carry a latency. Zero when no sample does.
	LatencyP95MS float64

	// ErrorRate is errors divided by all buffered signals, including those
	// without a latency value.
	ErrorRate float64
}

// Get returns the aggregate by its metric name. Unknown names return
// (0, false) so conditions referencing them compare against the default.
func (a Aggregates) Get(name string) (float64, bool) {
	switch name {
	case MetricLatencyP95MS:
		return a.LatencyP95MS, true
	case MetricErrorRate:
		return a.ErrorRate, true
	default:
		return 0, false
	}
}

// Aggregate computes decision metrics from a buffer snapshot. It is a pure
// function over the snapshot: no caching, recomputed on every evaluation.
func Aggregate(buf []Signal) Aggregates {
	if len(buf) == 0 {
		return Aggregates{}
	}

	latencies := make([]float64, 0, len(buf))
	errors := 0
	for _, s := range buf {
		if s.LatencyMS != nil {
			latencies = append(latencies, *s.LatencyMS)
		}
		if s.Error {
			errors++
		}
	}

	var p95 float64
	if len(latencies) > 0 {
		sort.Float64s(latencies)
		// Nearest-rank percentile over the zero-based sorted slice.
		p95 = latencies[int(0.95*float64(len(latencies)-1))]
	}

	return Aggregates{
		LatencyP95MS: p95,
		ErrorRate:    float64(errors) / float64(max(1, len(buf))),
	}
}
