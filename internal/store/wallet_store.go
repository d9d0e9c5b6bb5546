package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"landreg/internal/crypto"
	"landreg/internal/domain"
)

const (
	walletKeyFile  = "wallet.key.enc"
	walletMetaFile = "wallet.json"
)

// ErrNoWallet is returned by LoadWalletKey when no key has been saved.
var ErrNoWallet = errors.New("no wallet key in keystore")

type walletMeta struct {
	Address   domain.Address `json:"address"`
	CreatedAt int64          `json:"created_at"`
}

// WalletFileStore persists the wallet key encrypted under a passphrase and
// its address in the clear.
type WalletFileStore struct {
	dir    string
	params scryptParams
	mu     sync.Mutex
}

// WalletStoreOption configures a WalletFileStore.
type WalletStoreOption func(*WalletFileStore)

// WithScryptCost overrides the scrypt cost parameters. Lower values are only
// appropriate in tests.
func WithScryptCost(N, r, p int) WalletStoreOption {
	return func(s *WalletFileStore) { s.params = scryptParams{N: N, r: r, p: p} }
}

// NewWalletFileStore returns a WalletFileStore rooted at dir.
func NewWalletFileStore(dir string, opts ...WalletStoreOption) *WalletFileStore {
	s := &WalletFileStore{dir: dir, params: scryptParamsDefault()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveWalletKey seals key with passphrase and records its address.
func (s *WalletFileStore) SaveWalletKey(passphrase string, key domain.WalletKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return err
	}
	defer crypto.Wipe(raw)

	ct, err := encrypt(passphrase, raw, s.params)
	if err != nil {
		return err
	}
	if err := writeKeystoreFile(filepath.Join(s.dir, walletKeyFile), ct); err != nil {
		return err
	}
	meta := walletMeta{Address: key.Address.Normalize(), CreatedAt: time.Now().Unix()}
	return writeKeystoreJSON(filepath.Join(s.dir, walletMetaFile), meta)
}

// LoadWalletKey reads and decrypts the wallet key.
func (s *WalletFileStore) LoadWalletKey(passphrase string) (domain.WalletKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readKeystoreFile(filepath.Join(s.dir, walletKeyFile))
	if err != nil {
		return domain.WalletKey{}, err
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.WalletKey{}, err
	}
	defer crypto.Wipe(pt)

	var key domain.WalletKey
	if err := json.Unmarshal(pt, &key); err != nil {
		return domain.WalletKey{}, fmt.Errorf("decode wallet key: %w", err)
	}
	return key, nil
}

// WalletAddress returns the stored address; ok is false when no wallet has
// been saved.
func (s *WalletFileStore) WalletAddress() (domain.Address, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta walletMeta
	err := readKeystoreJSON(filepath.Join(s.dir, walletMetaFile), &meta)
	if errors.Is(err, ErrNoWallet) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if meta.Address == "" {
		return "", false, nil
	}
	return meta.Address, true, nil
}

// Compile-time assertion that WalletFileStore implements domain.WalletKeyStore.
var _ domain.WalletKeyStore = (*WalletFileStore)(nil)
