// Package keyring manages creation, import and inspection of the local wallet key.
//
// It enforces passphrase policy, generates or validates BIP-39 mnemonics and
// persists them via the domain.WalletKeyStore.
package keyring
