package signal

import (
	"math"
	"testing"
	"time"
)

// TestAggregate_EmptyBuffer tests aggregation of an empty buffer
func TestAggregate_EmptyBuffer(t *testing.T) {
	aggs := Aggregate(nil)
	if aggs.LatencyP95MS != 0 {
		t.Errorf("LatencyP95MS = %v, want 0", aggs.LatencyP95MS)
	}
	if aggs.ErrorRate != 0 {
		t.Errorf("ErrorRate = %v, want 0", aggs.ErrorRate)
	}
}

// TestAggregate_P95NearestRank tests the nearest-rank percentile:
// for latencies [100,110,120,...] the p95 is the element at floor(0.95*(n-1)).
func TestAggregate_P95NearestRank(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want float64
	}{
		{name: "single sample", n: 1, want: 100},
		{name: "two samples", n: 2, want: 100},
		{name: "ten samples", n: 10, want: 180},     // floor(0.95*9)=8 -> 100+8*10
		{name: "twenty samples", n: 20, want: 280},  // floor(0.95*19)=18
		{name: "hundred samples", n: 100, want: 1040}, // floor(0.95*99)=94
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			buf := make([]Signal, 0, tt.n)
			for i := 0; i < tt.n; i++ {
				buf = append(buf, testSignal("svc", "prod", now, 100+float64(i)*10, false))
			}

			aggs := Aggregate(buf)
			if aggs.LatencyP95MS != tt.want {
				t.Errorf("LatencyP95MS = %v, want %v", aggs.LatencyP95MS, tt.want)
			}
		})
	}
}

// TestAggregate_P95UnsortedInput tests that input order does not matter
func TestAggregate_P95UnsortedInput(t *testing.T) {
	now := time.Now()
	buf := []Signal{
		testSignal("svc", "prod", now, 500, false),
		testSignal("svc", "prod", now, 100, false),
		testSignal("svc", "prod", now, 300, false),
	}

	aggs := Aggregate(buf)
	if aggs.LatencyP95MS != 300 {
		t.Errorf("LatencyP95MS = %v, want 300 (index floor(0.95*2)=1 of sorted)", aggs.LatencyP95MS)
	}
}

// TestAggregate_ErrorRate tests the error rate denominator: all buffered
// signals count, including those without a latency value.
func TestAggregate_ErrorRate(t *testing.T) {
	now := time.Now()

	buf := []Signal{
		{Service: "svc", Environment: "prod", Timestamp: now, Error: true},
		{Service: "svc", Environment: "prod", Timestamp: now, Error: false},
		testSignal("svc", "prod", now, 100, true),
		testSignal("svc", "prod", now, 120, false),
	}

	aggs := Aggregate(buf)
	if aggs.ErrorRate != 0.5 {
		t.Errorf("ErrorRate = %v, want 0.5 (2 errors / 4 signals)", aggs.ErrorRate)
	}
	if aggs.LatencyP95MS != 120 {
		t.Errorf("LatencyP95MS = %v, want 120 (only signals with latency)", aggs.LatencyP95MS)
	}
}

// TestAggregate_NoLatencies tests a buffer where no signal carries a latency
func TestAggregate_NoLatencies(t *testing.T) {
	now := time.Now()
	buf := []Signal{
		{Service: "svc", Environment: "prod", Timestamp: now, Error: true},
		{Service: "svc", Environment: "prod", Timestamp: now},
	}

	aggs := Aggregate(buf)
	if aggs.LatencyP95MS != 0 {
		t.Errorf("LatencyP95MS = %v, want 0 when no signal has a latency", aggs.LatencyP95MS)
	}
	if math.Abs(aggs.ErrorRate-0.5) > 1e-9 {
		t.Errorf("ErrorRate = %v, want 0.5", aggs.ErrorRate)
	}
}

// TestAggregates_Get tests aggregate lookup by metric name
func TestAggregates_Get(t *testing.T) {
	aggs := Aggregates{LatencyP95MS: 250, ErrorRate: 0.1}

	tests := []struct {
		name   string
		metric string
		want   float64
		wantOK bool
	}{
		{name: "latency p95", metric: MetricLatencyP95MS, want: 250, wantOK: true},
		{name: "error rate", metric: MetricErrorRate, want: 0.1, wantOK: true},
		{name: "unknown metric", metric: "throughput", want: 0, wantOK: false},
		{name: "empty name", metric: "", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := aggs.Get(tt.metric)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q) = (%v, %v), want (%v, %v)", tt.metric, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
