// Package main runs the in-memory development node used by landreg during
// development and tests.
//
// Usage
//
//	devnode --addr 127.0.0.1:8080 --module-address 0xcafe [--module-name land_registry] [--disable-views]
//
// Point the CLI at it with --node http://127.0.0.1:8080/v1.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry {"message", "error_code"}.
//   - --disable-views answers /v1/views with 404 so clients fall back to the
//     parcels table.
//   - Prometheus metrics are served on /metrics.
//   - A debug access log records method, path, remote, status and duration.
package main
