// Package metrics provides prometheus instrumentation for the control plane.
//
// Metrics (namespace configurable, default "beacon"):
//
//   - beacon_signals_ingested_total: signals accepted, by service/environment
//   - beacon_evaluations_total: rule-engine evaluations completed
//   - beacon_evaluation_duration_seconds: evaluation latency histogram
//   - beacon_rule_matches_total: rule matches, by policy and rule id
//   - beacon_policy_reloads_total: policy replacements, by outcome
//   - beacon_signal_buffer_entries: current buffered entries, by key
//
// The Collector satisfies the engine's MetricsRecorder interface so the
// engine stays free of a prometheus dependency in its API.
package metrics
