package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landreg/internal/app"
	"landreg/internal/domain"
	"landreg/internal/logging"
)

// options are the global flags.
type options struct {
	home          string
	configPath    string
	passphrase    string
	nodeURL       string
	moduleAddress string
	moduleName    string
	output        string
	logLevel      string
	metricsFile   string
}

// cli is the state shared by all subcommands of one invocation.
type cli struct {
	opts   options
	cfg    app.Config
	logger *zap.Logger
	wire   *app.Wire
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
}

// Run executes one CLI invocation with the given streams and arguments.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) error {
	c := &cli{logger: zap.NewNop()}
	root := c.rootCmd()
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "landreg",
		Short:             "Land registry chain client",
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.setup(cmd) },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.opts.home, "home", "", "keystore and config dir (default ~/.landreg)")
	pf.StringVar(&c.opts.configPath, "config", "", "config file (default <home>/config.yaml)")
	pf.StringVarP(&c.opts.passphrase, "passphrase", "p", "", "passphrase protecting the wallet key")
	pf.StringVar(&c.opts.nodeURL, "node", "", "node REST base URL (e.g. http://127.0.0.1:8080/v1)")
	pf.StringVar(&c.opts.moduleAddress, "module-address", "", "account the registry module is published under")
	pf.StringVar(&c.opts.moduleName, "module-name", "", "registry module name")
	pf.StringVarP(&c.opts.output, "output", "o", formatYAML, "output format (yaml or json)")
	pf.StringVar(&c.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&c.opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		parcelCmd(c),
		nextIDCmd(c),
		submitCmd(c),
		statusCmd(c, "approve", "Approve a pending parcel", domain.ParcelDispatcher.Approve),
		statusCmd(c, "reject", "Reject a pending parcel", domain.ParcelDispatcher.Reject),
		statusCmd(c, "dispute", "Mark a parcel as disputed", domain.ParcelDispatcher.Dispute),
		transferCmd(c),
		walletCmd(c),
	)
	return root
}

// setup layers flags over the loaded config and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := checkFormat(c.opts.output); err != nil {
		return err
	}

	cfg := app.DefaultConfig()
	if c.opts.home != "" {
		cfg.Home = c.opts.home
	}
	cfg, err := app.LoadConfig(cfg, c.opts.configPath)
	if err != nil {
		return err
	}
	if c.opts.home != "" {
		cfg.Home = c.opts.home
	}
	if c.opts.nodeURL != "" {
		cfg.NodeURL = c.opts.nodeURL
	}
	if c.opts.moduleAddress != "" {
		cfg.ModuleAddress = domain.Address(c.opts.moduleAddress)
	}
	if c.opts.moduleName != "" {
		cfg.ModuleName = c.opts.moduleName
	}
	if c.opts.passphrase != "" {
		cfg.Passphrase = c.opts.passphrase
	}
	if c.opts.logLevel != "" {
		cfg.Log.Level = c.opts.logLevel
	}
	if c.opts.metricsFile != "" {
		cfg.MetricsFile = c.opts.metricsFile
	}
	c.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	c.logger = logger.With(
		zap.String("invocation_id", uuid.NewString()),
		zap.String("command", cmd.CommandPath()),
	)
	return nil
}

// wired builds the node-facing dependency graph on first use.
func (c *cli) wired() (*app.Wire, error) {
	if c.wire != nil {
		return c.wire, nil
	}
	w, err := app.NewWire(c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.wire = w
	return w, nil
}

func (c *cli) close() error {
	defer func() { _ = c.logger.Sync() }()
	if c.wire == nil {
		return nil
	}
	if err := c.wire.Close(); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
