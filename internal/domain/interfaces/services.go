package interfaces

import (
	"context"

	domaintypes "landreg/internal/domain/types"
)

// ParcelResolver reads registry state without a wallet.
type ParcelResolver interface {
	GetNextID(ctx context.Context) (uint64, error)
	GetParcel(ctx context.Context, id domaintypes.ParcelID) (domaintypes.ParcelRecord, error)
}

// ParcelDispatcher turns registry actions into submitted transactions.
type ParcelDispatcher interface {
	SubmitWithWallet(
		ctx context.Context,
		payload domaintypes.TransactionPayload,
	) (domaintypes.TxReceipt, error)
	Submit(ctx context.Context, params domaintypes.SubmitLandParams) (domaintypes.TxReceipt, error)
	Approve(ctx context.Context, id domaintypes.ParcelID) (domaintypes.TxReceipt, error)
	Reject(ctx context.Context, id domaintypes.ParcelID) (domaintypes.TxReceipt, error)
	Dispute(ctx context.Context, id domaintypes.ParcelID) (domaintypes.TxReceipt, error)
	Transfer(
		ctx context.Context,
		id domaintypes.ParcelID,
		newOwner domaintypes.Address,
	) (domaintypes.TxReceipt, error)
}

// KeyringService creates, imports and inspects the local wallet key.
type KeyringService interface {
	CreateWallet(passphrase string) (mnemonic string, address domaintypes.Address, err error)
	ImportWallet(passphrase, mnemonic string) (domaintypes.Address, error)
	WalletAddress() (domaintypes.Address, bool, error)
}
