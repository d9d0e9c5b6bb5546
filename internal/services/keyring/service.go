package keyring

import (
	"errors"
	"fmt"
	"unicode"

	"landreg/internal/crypto"
	"landreg/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
	// ErrWalletExists is returned when a wallet key is already stored.
	ErrWalletExists = errors.New("a wallet already exists in this home directory")
)

// Service manages the wallet key using a backing store.
//
// The wallet key is a BIP-39 mnemonic; the signing key and account address
// are derived from it on demand.
type Service struct {
	store domain.WalletKeyStore
}

// New returns a keyring service backed by the given store.
func New(s domain.WalletKeyStore) *Service { return &Service{store: s} }

// CreateWallet generates a new mnemonic, saves it encrypted with the
// passphrase, and returns it with the derived address.
func (s *Service) CreateWallet(passphrase string) (string, domain.Address, error) {
	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return "", "", err
	}
	addr, err := s.save(passphrase, mnemonic)
	if err != nil {
		return "", "", err
	}
	return mnemonic, addr, nil
}

// ImportWallet saves an existing mnemonic encrypted with the passphrase.
func (s *Service) ImportWallet(passphrase, mnemonic string) (domain.Address, error) {
	if !crypto.ValidMnemonic(mnemonic) {
		return "", crypto.ErrInvalidMnemonic
	}
	return s.save(passphrase, mnemonic)
}

// WalletAddress returns the stored wallet address without unlocking it.
func (s *Service) WalletAddress() (domain.Address, bool, error) {
	return s.store.WalletAddress()
}

func (s *Service) save(passphrase, mnemonic string) (domain.Address, error) {
	if !isSecurePassphrase(passphrase) {
		return "", ErrWeakPassphrase
	}
	if _, ok, err := s.store.WalletAddress(); err != nil {
		return "", err
	} else if ok {
		return "", ErrWalletExists
	}

	signer, err := crypto.SignerFromMnemonic(mnemonic)
	if err != nil {
		return "", err
	}
	defer signer.Close()

	key := domain.WalletKey{Mnemonic: mnemonic, Address: signer.Address()}
	if err := s.store.SaveWalletKey(passphrase, key); err != nil {
		return "", err
	}
	return signer.Address(), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.KeyringService.
var _ domain.KeyringService = (*Service)(nil)
