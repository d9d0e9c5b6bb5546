// Package chain provides an HTTP implementation of the domain.ChainClient and
// domain.TransactionNode interfaces used by landreg.
//
// It speaks the node REST API:
//   - Reading an account resource (GET /accounts/{address}/resource/{type}).
//   - Reading a table item (POST /tables/{handle}/item).
//   - Reading account state for the sequence number (GET /accounts/{address}).
//   - Encoding a signing message (POST /transactions/encode_submission).
//   - Submitting a signed transaction (POST /transactions).
//   - Raw requests against the node base URL (Do), used for view calls.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Every request waits on a client-side rate limiter first. Reads
// are retried on transport errors, 429 and 5xx; submissions are sent once.
// Non-2xx statuses are returned as *StatusError carrying the method, full
// URL, status and the node's error message.
package chain
