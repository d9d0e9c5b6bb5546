package domain

import (
	interfaces "landreg/internal/domain/interfaces"
	types "landreg/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Address              = types.Address
	Fingerprint          = types.Fingerprint
	ModuleRef            = types.ModuleRef
	ParcelID             = types.ParcelID
	ParcelStatus         = types.ParcelStatus
	LandParcel           = types.LandParcel
	SubmitLandParams     = types.SubmitLandParams
	ParcelRecord         = types.ParcelRecord
	ResolutionSource     = types.ResolutionSource
	TransactionPayload   = types.TransactionPayload
	TxReceipt            = types.TxReceipt
	Resource             = types.Resource
	AccountInfo          = types.AccountInfo
	EntryFunctionPayload = types.EntryFunctionPayload
	UnsignedTransaction  = types.UnsignedTransaction
	TransactionSignature = types.TransactionSignature
	SignedTransaction    = types.SignedTransaction
	PendingTransaction   = types.PendingTransaction
	WalletKey            = types.WalletKey
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ChainReader      = interfaces.ChainReader
	RawCaller        = interfaces.RawCaller
	ChainClient      = interfaces.ChainClient
	TransactionNode  = interfaces.TransactionNode
	Wallet           = interfaces.Wallet
	WalletConnector  = interfaces.WalletConnector
	ParcelResolver   = interfaces.ParcelResolver
	ParcelDispatcher = interfaces.ParcelDispatcher
	KeyringService   = interfaces.KeyringService
	WalletKeyStore   = interfaces.WalletKeyStore
)

// Re-exported constants and constructors.
const (
	StatusPending  = types.StatusPending
	StatusApproved = types.StatusApproved
	StatusRejected = types.StatusRejected
	StatusDisputed = types.StatusDisputed

	SourceView  = types.SourceView
	SourceTable = types.SourceTable
)

var (
	NewEntryFunctionPayload = types.NewEntryFunctionPayload
	ParseParcelID           = types.ParseParcelID
	ParseParcelStatus       = types.ParseParcelStatus
)
