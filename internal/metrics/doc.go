// Package metrics records Prometheus metrics for schedule runs.
//
// A Manager owns its own registry so runs never pick up the default Go and
// process collectors. Since watplan is a batch tool rather than a server, the
// registry is exported by writing it to a node-exporter textfile after each run.
package metrics
