// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Every constructor registers its collectors on the registry it is given, so
// tests can use a fresh prometheus.NewRegistry() per case.
package metrics
