package dispatcher

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"landreg/internal/domain"
	"landreg/internal/logging"
	"landreg/internal/metrics"
)

var (
	// ErrWalletUnavailable is returned before any network call when no
	// wallet was injected.
	ErrWalletUnavailable = errors.New("no compatible wallet found: install and connect it (landreg wallet init)")
)

// ConnectOutcome is the result of the best-effort connect step that runs
// before every submission.
type ConnectOutcome int

const (
	// ConnectSkipped means the wallet has no connect step.
	ConnectSkipped ConnectOutcome = iota
	ConnectSucceeded
	// ConnectFailed is logged and otherwise ignored; the submission itself
	// surfaces the real error if the wallet is unusable.
	ConnectFailed
)

func (o ConnectOutcome) String() string {
	switch o {
	case ConnectSkipped:
		return "skipped"
	case ConnectSucceeded:
		return "succeeded"
	case ConnectFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Service builds registry transactions and submits them through a wallet.
//
// It keeps no mutable state; concurrent calls each build their own payload.
type Service struct {
	module  domain.ModuleRef
	wallet  domain.Wallet
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New returns a dispatcher for module. wallet may be nil, in which case
// every action fails with ErrWalletUnavailable.
func New(module domain.ModuleRef, wallet domain.Wallet, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		module:  module,
		wallet:  wallet,
		logger:  logging.OrNop(logger),
		metrics: m,
	}
}

// SubmitWithWallet connects the wallet if it supports connecting, then
// signs and submits payload exactly once. The wallet's receipt and errors
// are returned unmodified.
func (s *Service) SubmitWithWallet(
	ctx context.Context,
	payload domain.TransactionPayload,
) (domain.TxReceipt, error) {
	if s.wallet == nil {
		return domain.TxReceipt{}, ErrWalletUnavailable
	}
	log := s.logger.With(zap.String("function", payload.Function))

	outcome, err := s.connect(ctx)
	log.Debug("wallet connect", zap.Stringer("connect", outcome), zap.Error(err))

	receipt, err := s.wallet.SignAndSubmitTransaction(ctx, payload)
	if err != nil {
		s.metrics.ObserveSubmission(payload.Function, metrics.OutcomeError)
		log.Warn("transaction submission failed", zap.Error(err))
		return domain.TxReceipt{}, err
	}
	s.metrics.ObserveSubmission(payload.Function, metrics.OutcomeOK)
	log.Info("transaction submitted", zap.String("hash", receipt.Hash))
	return receipt, nil
}

func (s *Service) connect(ctx context.Context) (ConnectOutcome, error) {
	c, ok := s.wallet.(domain.WalletConnector)
	if !ok {
		return ConnectSkipped, nil
	}
	if err := c.Connect(ctx); err != nil {
		return ConnectFailed, err
	}
	return ConnectSucceeded, nil
}

// Submit files a new land claim.
func (s *Service) Submit(ctx context.Context, params domain.SubmitLandParams) (domain.TxReceipt, error) {
	return s.SubmitWithWallet(ctx, BuildSubmit(s.module, params))
}

// Approve approves a pending parcel.
func (s *Service) Approve(ctx context.Context, id domain.ParcelID) (domain.TxReceipt, error) {
	return s.SubmitWithWallet(ctx, BuildApprove(s.module, id))
}

// Reject rejects a pending parcel.
func (s *Service) Reject(ctx context.Context, id domain.ParcelID) (domain.TxReceipt, error) {
	return s.SubmitWithWallet(ctx, BuildReject(s.module, id))
}

// Dispute marks a parcel as disputed.
func (s *Service) Dispute(ctx context.Context, id domain.ParcelID) (domain.TxReceipt, error) {
	return s.SubmitWithWallet(ctx, BuildDispute(s.module, id))
}

// Transfer moves a parcel to newOwner.
func (s *Service) Transfer(
	ctx context.Context,
	id domain.ParcelID,
	newOwner domain.Address,
) (domain.TxReceipt, error) {
	return s.SubmitWithWallet(ctx, BuildTransfer(s.module, id, newOwner))
}

// Compile-time assertion that Service implements domain.ParcelDispatcher.
var _ domain.ParcelDispatcher = (*Service)(nil)
