// Package metrics exposes Prometheus metrics for tree classification:
// classifications by label, fallbacks to the first branch, failures by reason,
// answered questions and walk latency.
package metrics
