package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	domaintypes "landreg/internal/domain/types"
)

// ChainReader reads account resources and table items from a node.
type ChainReader interface {
	GetAccountResource(
		ctx context.Context,
		address domaintypes.Address,
		resourceType string,
	) (domaintypes.Resource, error)
	GetTableItem(
		ctx context.Context,
		handle string,
		keyType string,
		valueType string,
		key string,
	) (json.RawMessage, error)
}

// RawCaller issues hand-built HTTP requests against the node base URL.
type RawCaller interface {
	NodeURL() string
	Do(req *http.Request) (*http.Response, error)
}

// ChainClient is everything the read path needs from a node.
type ChainClient interface {
	ChainReader
	RawCaller
}

// TransactionNode is the part of the node API a signing wallet needs.
type TransactionNode interface {
	GetAccount(ctx context.Context, address domaintypes.Address) (domaintypes.AccountInfo, error)
	EncodeSubmission(ctx context.Context, tx domaintypes.UnsignedTransaction) ([]byte, error)
	SubmitTransaction(
		ctx context.Context,
		tx domaintypes.SignedTransaction,
	) (domaintypes.PendingTransaction, error)
}
