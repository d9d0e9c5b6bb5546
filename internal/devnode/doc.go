// Package devnode is an in-memory stand-in for a chain node, used for local
// development and tests.
//
// It serves the subset of the node REST API landreg talks to:
//
//	GET  /v1/accounts/{address}
//	GET  /v1/accounts/{address}/resource/{type}
//	POST /v1/tables/{handle}/item
//	POST /v1/views
//	POST /v1/transactions/encode_submission
//	POST /v1/transactions
//	GET  /metrics
//
// The registry module is emulated directly: submit_land, approve, reject,
// dispute and transfer_ownership update an in-memory parcel table. Signed
// transactions are checked for sender, sequence number, expiry and an
// Ed25519 signature over the message returned by encode_submission.
//
// The signing message is the devnode's own format, not BCS, so transactions
// signed against it are not valid on a real network and vice versa.
//
// All state is held in memory and lost on process exit.
package devnode
