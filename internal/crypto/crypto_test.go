package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"landreg/internal/crypto"
)

const vector = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMnemonic(t *testing.T) {
	m, err := crypto.NewMnemonic()
	require.NoError(t, err)
	require.Len(t, strings.Fields(m), 24)
	require.True(t, crypto.ValidMnemonic(m))
}

func TestValidMnemonic(t *testing.T) {
	require.True(t, crypto.ValidMnemonic(vector))
	require.True(t, crypto.ValidMnemonic("  ABANDON abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon   about "))
	require.False(t, crypto.ValidMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"))
	require.False(t, crypto.ValidMnemonic(""))
}

func TestSignerFromMnemonic_Deterministic(t *testing.T) {
	a, err := crypto.SignerFromMnemonic(vector)
	require.NoError(t, err)
	b, err := crypto.SignerFromMnemonic(strings.ToUpper(vector))
	require.NoError(t, err)

	require.Equal(t, a.Address(), b.Address())
	require.Equal(t, a.PublicKey(), b.PublicKey())
	require.Equal(t, crypto.AccountAddress(a.PublicKey()), a.Address())

	addr := a.Address().String()
	require.True(t, strings.HasPrefix(addr, "0x"))
	require.Len(t, addr, 66)
	require.Equal(t, strings.ToLower(addr), addr)
}

func TestSignerFromMnemonic_Invalid(t *testing.T) {
	_, err := crypto.SignerFromMnemonic("not a mnemonic")
	require.ErrorIs(t, err, crypto.ErrInvalidMnemonic)
}

func TestSignVerify(t *testing.T) {
	s, err := crypto.SignerFromMnemonic(vector)
	require.NoError(t, err)

	msg := []byte("signing message")
	sig := s.Sign(msg)
	require.True(t, crypto.VerifyEd25519(s.PublicKey(), msg, sig))
	require.False(t, crypto.VerifyEd25519(s.PublicKey(), []byte("other"), sig))
	require.False(t, crypto.VerifyEd25519(s.PublicKey()[:10], msg, sig))
}

func TestHexRoundTrip(t *testing.T) {
	require.Equal(t, "0x00ff", crypto.Hex([]byte{0, 255}))
	for _, in := range []string{"0x00ff", "00ff", " 0x00ff "} {
		b, err := crypto.FromHex(in)
		require.NoError(t, err, in)
		require.Equal(t, []byte{0, 255}, b)
	}
	_, err := crypto.FromHex("0xzz")
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	fp := crypto.Fingerprint([]byte("pub"))
	require.Len(t, fp.String(), 20)
	require.Equal(t, fp, crypto.Fingerprint([]byte("pub")))
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	crypto.Wipe(b)
	require.Equal(t, []byte{0, 0, 0}, b)
	require.NotPanics(t, func() { crypto.Wipe(nil) })
}
