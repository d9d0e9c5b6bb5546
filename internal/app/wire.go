package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"landreg/internal/chain"
	"landreg/internal/domain"
	"landreg/internal/logging"
	"landreg/internal/metrics"
	"landreg/internal/services/dispatcher"
	"landreg/internal/services/keyring"
	"landreg/internal/services/resolver"
	"landreg/internal/store"
	"landreg/internal/wallet"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config     Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Chain      *chain.HTTP
	Keys       domain.WalletKeyStore
	Keyring    domain.KeyringService
	Wallet     *wallet.Local // nil when no wallet key is stored
	Resolver   domain.ParcelResolver
	Dispatcher domain.ParcelDispatcher
}

// NewKeyring returns the keyring for the keystore under home. Wallet
// management does not need a node, so it is available without NewWire.
func NewKeyring(home string) (domain.KeyringService, domain.WalletKeyStore) {
	keys := store.NewWalletFileStore(home)
	return keyring.New(keys), keys
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, logger *zap.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Node client (uses provided HTTP client)
	node := chain.NewHTTP(cfg.NodeURL, httpClient,
		chain.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		chain.WithReadRetries(cfg.ReadAttempts, chain.DefaultRetryDelay),
		chain.WithLogger(logger.Named("chain")),
		chain.WithMetrics(m),
	)

	kr, keys := NewKeyring(cfg.Home)

	// The wallet is only built when a key exists so the dispatcher reports
	// a missing wallet before touching the network.
	var (
		local  *wallet.Local
		signer domain.Wallet
	)
	if _, ok, err := keys.WalletAddress(); err != nil {
		return nil, err
	} else if ok {
		local = wallet.New(keys, node, cfg.Passphrase, wallet.Options{
			MaxGasAmount: cfg.Gas.MaxAmount,
			GasUnitPrice: cfg.Gas.UnitPrice,
			Expiration:   cfg.Gas.Expiration,
		}, logger.Named("wallet"))
		signer = local
	}

	module := cfg.Module()
	return &Wire{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Metrics:    m,
		Chain:      node,
		Keys:       keys,
		Keyring:    kr,
		Wallet:     local,
		Resolver:   resolver.New(module, node, logger.Named("resolver"), m),
		Dispatcher: dispatcher.New(module, signer, logger.Named("dispatcher"), m),
	}, nil
}

// Close wipes the unlocked wallet key and flushes metrics to
// Config.MetricsFile when set.
func (w *Wire) Close() error {
	if w.Wallet != nil {
		w.Wallet.Close()
	}
	if w.Config.MetricsFile == "" {
		return nil
	}
	return metrics.WriteTextfile(w.Config.MetricsFile, w.Registry)
}
