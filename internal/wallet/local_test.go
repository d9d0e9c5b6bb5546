package wallet_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"landreg/internal/crypto"
	"landreg/internal/domain"
	"landreg/internal/store"
	"landreg/internal/wallet"
)

const (
	passphrase = "Correct-Horse-9!"
	vector     = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

type fakeNode struct {
	seq        uint64
	accountErr error
	encoded    []byte
	submitErr  error

	accounts  []domain.Address
	unsigned  []domain.UnsignedTransaction
	submitted []domain.SignedTransaction
}

func (n *fakeNode) GetAccount(_ context.Context, addr domain.Address) (domain.AccountInfo, error) {
	n.accounts = append(n.accounts, addr)
	return domain.AccountInfo{SequenceNumber: n.seq}, n.accountErr
}

func (n *fakeNode) EncodeSubmission(_ context.Context, tx domain.UnsignedTransaction) ([]byte, error) {
	n.unsigned = append(n.unsigned, tx)
	return n.encoded, nil
}

func (n *fakeNode) SubmitTransaction(_ context.Context, tx domain.SignedTransaction) (domain.PendingTransaction, error) {
	n.submitted = append(n.submitted, tx)
	if n.submitErr != nil {
		return domain.PendingTransaction{}, n.submitErr
	}
	return domain.PendingTransaction{Hash: "0xhash", Sender: tx.Sender, Raw: []byte(`{"hash":"0xhash"}`)}, nil
}

func keystore(t *testing.T) *store.WalletFileStore {
	t.Helper()
	ks := store.NewWalletFileStore(filepath.Join(t.TempDir(), "home"), store.WithScryptCost(1<<10, 8, 1))
	signer, err := crypto.SignerFromMnemonic(vector)
	require.NoError(t, err)
	require.NoError(t, ks.SaveWalletKey(passphrase, domain.WalletKey{Mnemonic: vector, Address: signer.Address()}))
	return ks
}

func fixedNow() time.Time { return time.Unix(1_700_000_000, 0) }

func TestSignAndSubmit(t *testing.T) {
	node := &fakeNode{seq: 7, encoded: []byte("signing message")}
	w := wallet.New(keystore(t), node, passphrase, wallet.Options{Now: fixedNow}, nil)
	defer w.Close()

	payload := domain.TransactionPayload{
		Function: "0xcafe::land_registry::approve",
		TypeArgs: []string{},
		Args:     []string{"42"},
	}
	receipt, err := w.SignAndSubmitTransaction(context.Background(), payload)
	require.NoError(t, err)

	signer, _ := crypto.SignerFromMnemonic(vector)
	require.Equal(t, "0xhash", receipt.Hash)
	require.Equal(t, signer.Address(), receipt.Sender)
	require.Equal(t, uint64(7), receipt.SequenceNumber)
	require.JSONEq(t, `{"hash":"0xhash"}`, string(receipt.Raw))

	require.Equal(t, []domain.Address{signer.Address()}, node.accounts)
	require.Len(t, node.submitted, 1)
	tx := node.submitted[0]
	require.Equal(t, "7", tx.SequenceNumber)
	require.Equal(t, "2000", tx.MaxGasAmount)
	require.Equal(t, "100", tx.GasUnitPrice)
	require.Equal(t, "1700000030", tx.ExpirationTimestampSecs)
	require.Equal(t, "entry_function_payload", tx.Payload.Type)
	require.Equal(t, payload.Function, tx.Payload.Function)
	require.Equal(t, []string{"42"}, tx.Payload.Arguments)
	require.Equal(t, []string{}, tx.Payload.TypeArguments)

	require.Equal(t, "ed25519_signature", tx.Signature.Type)
	pub, err := crypto.FromHex(tx.Signature.PublicKey)
	require.NoError(t, err)
	sig, err := crypto.FromHex(tx.Signature.Signature)
	require.NoError(t, err)
	require.True(t, crypto.VerifyEd25519(pub, []byte("signing message"), sig))
}

func TestConnect(t *testing.T) {
	w := wallet.New(keystore(t), &fakeNode{}, passphrase, wallet.Options{}, nil)
	_, ok := w.Address()
	require.False(t, ok)

	require.NoError(t, w.Connect(context.Background()))
	addr, ok := w.Address()
	require.True(t, ok)
	require.NotEmpty(t, addr)

	// Idempotent.
	require.NoError(t, w.Connect(context.Background()))

	w.Close()
	_, ok = w.Address()
	require.False(t, ok)
}

func TestConnect_WrongPassphrase(t *testing.T) {
	node := &fakeNode{}
	w := wallet.New(keystore(t), node, "Wrong-Horse-9!", wallet.Options{}, nil)

	require.ErrorIs(t, w.Connect(context.Background()), store.ErrWrongPassphrase)

	_, err := w.SignAndSubmitTransaction(context.Background(), domain.TransactionPayload{})
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
	require.Empty(t, node.accounts)
}

func TestLockedWithoutPassphrase(t *testing.T) {
	w := wallet.New(keystore(t), &fakeNode{}, "", wallet.Options{}, nil)
	require.ErrorIs(t, w.Connect(context.Background()), wallet.ErrLocked)
}

func TestAccountErrorStopsBeforeSubmit(t *testing.T) {
	node := &fakeNode{accountErr: errors.New("account not found")}
	w := wallet.New(keystore(t), node, passphrase, wallet.Options{}, nil)

	_, err := w.SignAndSubmitTransaction(context.Background(), domain.TransactionPayload{Function: "f"})
	require.ErrorContains(t, err, "account not found")
	require.Empty(t, node.unsigned)
	require.Empty(t, node.submitted)
}

func TestSubmitErrorReturnedAsIs(t *testing.T) {
	rejected := errors.New("SEQUENCE_NUMBER_TOO_OLD")
	node := &fakeNode{submitErr: rejected}
	w := wallet.New(keystore(t), node, passphrase, wallet.Options{}, nil)

	_, err := w.SignAndSubmitTransaction(context.Background(), domain.TransactionPayload{Function: "f"})
	require.Same(t, rejected, err)
	require.Len(t, node.submitted, 1)
}
