package crypto

import (
	"encoding/hex"
	"strings"
)

// Hex returns lower-case hex with a 0x prefix, as node APIs expect.
func Hex(b []byte) string { return "0x" + hex.EncodeToString(b) }

// FromHex decodes hex with or without a 0x prefix.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}
