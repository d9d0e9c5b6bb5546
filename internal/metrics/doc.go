// Package metrics holds the Prometheus collectors for chain traffic,
// parcel resolution and wallet submissions.
//
// A nil *Metrics is valid and records nothing, so components can take one
// unconditionally. The CLI is short-lived and does not serve /metrics;
// instead WriteTextfile dumps the registry for a node-exporter textfile
// collector.
package metrics
