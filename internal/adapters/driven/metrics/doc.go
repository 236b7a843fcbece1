// Package metrics records batch job runs as Prometheus metrics.
//
// Metrics are kept in a dedicated registry and, when a textfile path is
// configured, written for the node exporter textfile collector after each
// run.
package metrics
