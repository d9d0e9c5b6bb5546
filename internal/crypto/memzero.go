package crypto

import "runtime"

// Wipe zeroes key material once the caller is done with it: seeds, entropy,
// private keys and decrypted keystore plaintext.
//
//go:noinline
func Wipe(secret []byte) {
	clear(secret)
	runtime.KeepAlive(secret)
}
