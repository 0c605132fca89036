// Package sinks provides functionality to publish aggregated slow query
// counters in different ways.
//
// At the moment we provide sink connectors for
//   - Prometheus textfiles (node_exporter textfile collector),
//   - and a live Prometheus scrape endpoint.
//
// To ensure the simultaneous publishing to several sinks, the `MultiWriter` class is implemented.
package sinks
