package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"landreg/internal/crypto"
	"landreg/internal/domain"
	"landreg/internal/logging"
)

const (
	entryFunctionPayloadType = "entry_function_payload"
	ed25519SignatureType     = "ed25519_signature"
)

var (
	// ErrLocked is returned when the wallet needs unlocking but has no passphrase.
	ErrLocked = errors.New("wallet is locked: passphrase required")
	// ErrAddressMismatch is returned when the stored address does not match
	// the key derived from the stored mnemonic.
	ErrAddressMismatch = errors.New("keystore address does not match derived key")
)

// Options tunes the transactions the wallet builds.
type Options struct {
	MaxGasAmount uint64
	GasUnitPrice uint64
	// Expiration is how long a submitted transaction stays valid.
	Expiration time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the gas settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxGasAmount: 2000,
		GasUnitPrice: 100,
		Expiration:   30 * time.Second,
		Now:          time.Now,
	}
}

// Local is a passphrase-unlocked wallet that signs with a key from the
// keystore and submits through a node.
type Local struct {
	keys       domain.WalletKeyStore
	node       domain.TransactionNode
	passphrase string
	opts       Options
	logger     *zap.Logger

	mu     sync.Mutex
	signer *crypto.Signer
}

// New returns a locked wallet. The passphrase is only used when the wallet
// is connected.
func New(
	keys domain.WalletKeyStore,
	node domain.TransactionNode,
	passphrase string,
	opts Options,
	logger *zap.Logger,
) *Local {
	def := DefaultOptions()
	if opts.MaxGasAmount == 0 {
		opts.MaxGasAmount = def.MaxGasAmount
	}
	if opts.GasUnitPrice == 0 {
		opts.GasUnitPrice = def.GasUnitPrice
	}
	if opts.Expiration <= 0 {
		opts.Expiration = def.Expiration
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Local{
		keys:       keys,
		node:       node,
		passphrase: passphrase,
		opts:       opts,
		logger:     logging.OrNop(logger),
	}
}

// Connect unlocks the keystore. Connecting an unlocked wallet is a no-op.
func (w *Local) Connect(context.Context) error {
	_, err := w.unlock()
	return err
}

// Address returns the account address once the wallet is unlocked.
func (w *Local) Address() (domain.Address, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.signer == nil {
		return "", false
	}
	return w.signer.Address(), true
}

// SignAndSubmitTransaction signs payload with the wallet key and submits it.
// The wallet is unlocked first if needed.
func (w *Local) SignAndSubmitTransaction(
	ctx context.Context,
	payload domain.TransactionPayload,
) (domain.TxReceipt, error) {
	signer, err := w.unlock()
	if err != nil {
		return domain.TxReceipt{}, err
	}
	sender := signer.Address()

	acct, err := w.node.GetAccount(ctx, sender)
	if err != nil {
		return domain.TxReceipt{}, fmt.Errorf("read account %s: %w", sender, err)
	}

	tx := w.build(sender, acct.SequenceNumber, payload)
	msg, err := w.node.EncodeSubmission(ctx, tx)
	if err != nil {
		return domain.TxReceipt{}, fmt.Errorf("encode transaction: %w", err)
	}

	signed := domain.SignedTransaction{
		UnsignedTransaction: tx,
		Signature: domain.TransactionSignature{
			Type:      ed25519SignatureType,
			PublicKey: crypto.Hex(signer.PublicKey()),
			Signature: crypto.Hex(signer.Sign(msg)),
		},
	}
	pending, err := w.node.SubmitTransaction(ctx, signed)
	if err != nil {
		return domain.TxReceipt{}, err
	}

	w.logger.Debug("transaction signed and submitted",
		zap.String("function", payload.Function),
		zap.Stringer("sender", sender),
		zap.Uint64("sequence_number", acct.SequenceNumber),
		zap.String("hash", pending.Hash),
	)
	return domain.TxReceipt{
		Hash:           pending.Hash,
		Sender:         sender,
		SequenceNumber: acct.SequenceNumber,
		Raw:            pending.Raw,
	}, nil
}

// Close wipes the unlocked key.
func (w *Local) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.signer != nil {
		w.signer.Close()
		w.signer = nil
	}
}

func (w *Local) unlock() (*crypto.Signer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.signer != nil {
		return w.signer, nil
	}
	if w.passphrase == "" {
		return nil, ErrLocked
	}
	key, err := w.keys.LoadWalletKey(w.passphrase)
	if err != nil {
		return nil, err
	}
	signer, err := crypto.SignerFromMnemonic(key.Mnemonic)
	if err != nil {
		return nil, err
	}
	if key.Address != "" && key.Address.Normalize() != signer.Address() {
		signer.Close()
		return nil, ErrAddressMismatch
	}
	w.signer = signer
	w.logger.Debug("wallet unlocked", zap.Stringer("address", signer.Address()))
	return signer, nil
}

func (w *Local) build(sender domain.Address, seq uint64, p domain.TransactionPayload) domain.UnsignedTransaction {
	typeArgs := p.TypeArgs
	if typeArgs == nil {
		typeArgs = []string{}
	}
	args := p.Args
	if args == nil {
		args = []string{}
	}
	expires := w.opts.Now().Add(w.opts.Expiration).Unix()
	return domain.UnsignedTransaction{
		Sender:                  sender,
		SequenceNumber:          strconv.FormatUint(seq, 10),
		MaxGasAmount:            strconv.FormatUint(w.opts.MaxGasAmount, 10),
		GasUnitPrice:            strconv.FormatUint(w.opts.GasUnitPrice, 10),
		ExpirationTimestampSecs: strconv.FormatInt(expires, 10),
		Payload: domain.EntryFunctionPayload{
			Type:          entryFunctionPayloadType,
			Function:      p.Function,
			TypeArguments: typeArgs,
			Arguments:     args,
		},
	}
}

var (
	_ domain.Wallet          = (*Local)(nil)
	_ domain.WalletConnector = (*Local)(nil)
)
