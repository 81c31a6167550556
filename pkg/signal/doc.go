// Package signal provides the rolling-window signal store and the aggregation
// of raw signals into decision metrics.
//
// Agents push Signals (latency, error flag) keyed by (service, environment).
// The Store keeps an ordered-by-arrival buffer per key, prunes entries older
// than the rolling window, and caps each buffer at a hard maximum entry count
// so memory stays bounded under bursty ingest.
//
// Aggregate derives the decision metrics the rule engine consumes:
// nearest-rank p95 latency and error rate. Aggregates are always recomputed
// from the current buffer; there is no cache to go stale.
package signal
