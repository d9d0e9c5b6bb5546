package crypto

import (
	"crypto/ed25519"

	"golang.org/x/crypto/sha3"

	"landreg/internal/domain"
)

// ed25519Scheme is the single-signer authentication scheme byte appended to
// the public key before hashing.
const ed25519Scheme = 0x00

// AccountAddress derives the account address of a single Ed25519 key:
// sha3-256(pubkey || scheme), hex encoded with a 0x prefix.
func AccountAddress(pub ed25519.PublicKey) domain.Address {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return domain.Address(Hex(h.Sum(nil)))
}
