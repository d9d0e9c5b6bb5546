package keyring_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"landreg/internal/crypto"
	"landreg/internal/services/keyring"
	"landreg/internal/store"
)

const (
	strong = "Tr0ub4dor&3-horse"
	vector = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func newService(t *testing.T) (*keyring.Service, *store.WalletFileStore) {
	t.Helper()
	ks := store.NewWalletFileStore(filepath.Join(t.TempDir(), "home"), store.WithScryptCost(1<<10, 8, 1))
	return keyring.New(ks), ks
}

func TestCreateWallet(t *testing.T) {
	svc, ks := newService(t)

	mnemonic, addr, err := svc.CreateWallet(strong)
	require.NoError(t, err)
	require.Len(t, strings.Fields(mnemonic), 24)

	signer, err := crypto.SignerFromMnemonic(mnemonic)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), addr)

	key, err := ks.LoadWalletKey(strong)
	require.NoError(t, err)
	require.Equal(t, mnemonic, key.Mnemonic)

	got, ok, err := svc.WalletAddress()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, addr, got)
}

func TestImportWallet(t *testing.T) {
	svc, _ := newService(t)

	addr, err := svc.ImportWallet(strong, vector)
	require.NoError(t, err)

	signer, err := crypto.SignerFromMnemonic(vector)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), addr)
}

func TestImportWallet_InvalidMnemonic(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ImportWallet(strong, "twelve random words that are not a real bip39 phrase at all ok")
	require.ErrorIs(t, err, crypto.ErrInvalidMnemonic)
}

func TestWeakPassphrase(t *testing.T) {
	svc, _ := newService(t)
	for _, pw := range []string{"", "short1!A", "alllowercase-123", "ALLUPPER-1234", "NoDigitsHere!!", "NoSymbols12345"} {
		_, _, err := svc.CreateWallet(pw)
		require.ErrorIs(t, err, keyring.ErrWeakPassphrase, pw)
	}
	_, ok, err := svc.WalletAddress()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWalletExists(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ImportWallet(strong, vector)
	require.NoError(t, err)

	_, _, err = svc.CreateWallet(strong)
	require.ErrorIs(t, err, keyring.ErrWalletExists)
}
