// Package store provides file-based persistence for the local wallet.
//
// Secrets are sealed with scrypt and ChaCha20-Poly1305 before they touch the
// disk; public metadata such as the account address is kept beside them in
// plain JSON so it can be read without a passphrase. All methods are
// concurrency-safe via internal locking. Files live under the configured
// home directory.
package store
