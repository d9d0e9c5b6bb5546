package interfaces

import domaintypes "landreg/internal/domain/types"

// WalletKeyStore persists the wallet key encrypted under a passphrase.
type WalletKeyStore interface {
	SaveWalletKey(passphrase string, key domaintypes.WalletKey) error
	LoadWalletKey(passphrase string) (domaintypes.WalletKey, error)
	// WalletAddress reads the unencrypted address so it can be shown
	// without the passphrase.
	WalletAddress() (domaintypes.Address, bool, error)
}
