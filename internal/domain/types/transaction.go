package types

import "encoding/json"

// TransactionPayload names an entry or view function and its arguments.
//
// Every argument is a string: u64 values travel as decimal strings because
// the entry-point ABI expects string-encoded unsigned integers.
type TransactionPayload struct {
	Function string   `json:"function"`
	TypeArgs []string `json:"type_args"`
	Args     []string `json:"args"`
}

// NewEntryFunctionPayload builds a payload for module::function with no type
// arguments. Both slices are non-nil so they encode as [] rather than null.
func NewEntryFunctionPayload(module ModuleRef, function string, args ...string) TransactionPayload {
	out := make([]string, len(args))
	copy(out, args)
	return TransactionPayload{
		Function: module.Member(function),
		TypeArgs: []string{},
		Args:     out,
	}
}

// TxReceipt is what a wallet hands back after submitting a transaction.
type TxReceipt struct {
	Hash           string          `json:"hash" yaml:"hash"`
	Sender         Address         `json:"sender,omitempty" yaml:"sender,omitempty"`
	SequenceNumber uint64          `json:"sequence_number" yaml:"sequence_number"`
	Raw            json.RawMessage `json:"raw,omitempty" yaml:"-"`
}

// Resource is an account resource exactly as the node decoded it.
type Resource map[string]any

// AccountInfo is the subset of account state needed to build transactions.
type AccountInfo struct {
	SequenceNumber    uint64
	AuthenticationKey string
}

// EntryFunctionPayload is the node REST form of an entry-function call.
type EntryFunctionPayload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// UnsignedTransaction is a raw user transaction before signing.
type UnsignedTransaction struct {
	Sender                  Address              `json:"sender"`
	SequenceNumber          string               `json:"sequence_number"`
	MaxGasAmount            string               `json:"max_gas_amount"`
	GasUnitPrice            string               `json:"gas_unit_price"`
	ExpirationTimestampSecs string               `json:"expiration_timestamp_secs"`
	Payload                 EntryFunctionPayload `json:"payload"`
}

// TransactionSignature is a single-signer ed25519 authenticator.
type TransactionSignature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// SignedTransaction is submitted to the node's transactions endpoint.
type SignedTransaction struct {
	UnsignedTransaction
	Signature TransactionSignature `json:"signature"`
}

// PendingTransaction is the node's acknowledgement of a submission.
type PendingTransaction struct {
	Hash           string          `json:"hash"`
	Sender         Address         `json:"sender"`
	SequenceNumber string          `json:"sequence_number"`
	Raw            json.RawMessage `json:"-"`
}

// WalletKey is the secret material held by the local wallet.
type WalletKey struct {
	Mnemonic string  `json:"mnemonic"`
	Address  Address `json:"address"`
}
