// Package dispatcher turns land-registry actions into signed transactions.
//
// Each action (submit, approve, reject, dispute, transfer) builds a
// TransactionPayload for a fixed entry point with a fixed argument order and
// hands it to the injected wallet. The wallet is borrowed: the dispatcher
// neither creates nor closes it, and a nil wallet means none is available.
//
// Submission is attempted exactly once. Wallet errors are returned as-is so
// callers see the wallet's own diagnostic.
package dispatcher
