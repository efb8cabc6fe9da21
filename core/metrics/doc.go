// Package metrics exposes sync run metrics for Prometheus.
//
// Collectors live in a private registry, so tests and multiple servers in one
// process never collide on the global default registry.
package metrics
