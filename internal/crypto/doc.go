// Package crypto exposes the minimal primitives used by landreg.
//
// Contents
//
//   - BIP-39 mnemonic generation and validation (NewMnemonic, ValidMnemonic)
//   - Ed25519 signer derived from a mnemonic seed (SignerFromMnemonic,
//     Sign, VerifyEd25519)
//   - Account address derivation from an Ed25519 public key (AccountAddress)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Keys are derived from the first 32 bytes of the BIP-39 seed. This is not
// the SLIP-0010 path browser wallets use, so a mnemonic created here yields
// a different account when imported into such a wallet.
package crypto
