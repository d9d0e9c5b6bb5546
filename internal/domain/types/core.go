package types

import (
	"fmt"
	"strings"
)

// Address is an account address in the node's hex form ("0x1a2b...").
type Address string

// String returns the string form of the address.
func (a Address) String() string { return string(a) }

// Normalize lower-cases the address and ensures a 0x prefix.
func (a Address) Normalize() Address {
	s := strings.ToLower(strings.TrimSpace(string(a)))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return Address(s)
}

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// ModuleRef names an on-chain module by its owning account and module name.
type ModuleRef struct {
	Address Address `json:"address" yaml:"address"`
	Name    string  `json:"name" yaml:"name"`
}

// Member returns the fully-qualified "<address>::<module>::<member>" string
// used for entry points, view functions and resource types.
func (m ModuleRef) Member(member string) string {
	return fmt.Sprintf("%s::%s::%s", m.Address, m.Name, member)
}

// String returns "<address>::<module>".
func (m ModuleRef) String() string {
	return fmt.Sprintf("%s::%s", m.Address, m.Name)
}
