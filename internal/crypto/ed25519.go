package crypto

import (
	"crypto/ed25519"
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"landreg/internal/domain"
)

// mnemonicEntropyBits gives a 24-word mnemonic.
const mnemonicEntropyBits = 256

// ErrInvalidMnemonic is returned for mnemonics that fail the BIP-39 checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// Signer holds an unlocked Ed25519 account key.
type Signer struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address domain.Address
}

// NewMnemonic returns a fresh 24-word BIP-39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", err
	}
	defer Wipe(entropy)
	return bip39.NewMnemonic(entropy)
}

// ValidMnemonic reports whether mnemonic passes the BIP-39 checksum.
func ValidMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalizeMnemonic(mnemonic))
}

// SignerFromMnemonic derives the account key from mnemonic.
func SignerFromMnemonic(mnemonic string) (*Signer, error) {
	mnemonic = normalizeMnemonic(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	defer Wipe(seed)

	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{priv: priv, pub: pub, address: AccountAddress(pub)}, nil
}

// Address returns the account address of the signer.
func (s *Signer) Address() domain.Address { return s.address }

// PublicKey returns the raw Ed25519 public key.
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Sign signs msg.
func (s *Signer) Sign(msg []byte) []byte { return ed25519.Sign(s.priv, msg) }

// Close wipes the private key.
func (s *Signer) Close() { Wipe(s.priv) }

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub ed25519.PublicKey, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}
