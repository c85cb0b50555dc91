// Package metrics exposes Prometheus counters for sync runs.
package metrics
