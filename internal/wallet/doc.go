// Package wallet implements a local signing wallet backed by the encrypted
// keystore.
//
// The wallet unlocks its mnemonic with a passphrase, derives the Ed25519
// account key and signs transactions using the node's encode_submission
// endpoint, so no BCS encoder is needed client-side.
package wallet
