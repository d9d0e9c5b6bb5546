package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"landreg/internal/domain"
	"landreg/internal/store"
)

func newStore(t *testing.T) (*store.WalletFileStore, string) {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	return store.NewWalletFileStore(home, store.WithScryptCost(1<<10, 8, 1)), home
}

func TestWalletKey_SaveLoad_OK(t *testing.T) {
	var ks domain.WalletKeyStore
	s, _ := newStore(t)
	ks = s

	key := domain.WalletKey{Mnemonic: "abandon ability able", Address: "0xABC"}
	require.NoError(t, ks.SaveWalletKey("Correct-Horse-9", key))

	got, err := ks.LoadWalletKey("Correct-Horse-9")
	require.NoError(t, err)
	require.Equal(t, key, got)

	addr, ok, err := ks.WalletAddress()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.Address("0xabc"), addr)
}

func TestWalletKey_WrongPassphrase_Fails(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.SaveWalletKey("correct", domain.WalletKey{Mnemonic: "m", Address: "0x1"}))

	_, err := s.LoadWalletKey("wrong")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestWalletKey_Missing(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.LoadWalletKey("anything")
	require.ErrorIs(t, err, store.ErrNoWallet)

	_, ok, err := s.WalletAddress()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWalletKey_FilesArePrivate(t *testing.T) {
	s, home := newStore(t)
	require.NoError(t, s.SaveWalletKey("pw", domain.WalletKey{Mnemonic: "secret words", Address: "0x1"}))

	for _, name := range []string{"wallet.key.enc", "wallet.json"} {
		fi, err := os.Stat(filepath.Join(home, name))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm(), name)
	}
	b, err := os.ReadFile(filepath.Join(home, "wallet.key.enc"))
	require.NoError(t, err)
	require.NotContains(t, string(b), "secret words")
}

func TestWalletKey_OverwriteLeavesNoTempFiles(t *testing.T) {
	s, home := newStore(t)
	require.NoError(t, s.SaveWalletKey("pw", domain.WalletKey{Mnemonic: "first", Address: "0x1"}))
	require.NoError(t, s.SaveWalletKey("pw", domain.WalletKey{Mnemonic: "second", Address: "0x2"}))

	got, err := s.LoadWalletKey("pw")
	require.NoError(t, err)
	require.Equal(t, "second", got.Mnemonic)

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{"wallet.key.enc", "wallet.json"}, names)
}

func TestWalletKey_CorruptMetadata(t *testing.T) {
	s, home := newStore(t)
	require.NoError(t, os.MkdirAll(home, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "wallet.json"), []byte("{"), 0o600))

	_, ok, err := s.WalletAddress()
	require.ErrorContains(t, err, "decode wallet.json")
	require.NotErrorIs(t, err, store.ErrNoWallet)
	require.False(t, ok)
}
