package interfaces

import (
	"context"

	domaintypes "landreg/internal/domain/types"
)

// Wallet signs and submits transactions on the caller's behalf.
type Wallet interface {
	SignAndSubmitTransaction(
		ctx context.Context,
		payload domaintypes.TransactionPayload,
	) (domaintypes.TxReceipt, error)
}

// WalletConnector is implemented by wallets that need an explicit connect
// (unlock, user approval) before they can sign.
type WalletConnector interface {
	Connect(ctx context.Context) error
}
