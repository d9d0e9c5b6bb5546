package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landreg/internal/devnode"
	"landreg/internal/domain"
	"landreg/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr         string
		module       domain.ModuleRef
		moduleAddr   string
		disableViews bool
		logLevel     string
		logFormat    string
	)
	cmd := &cobra.Command{
		Use:          "devnode",
		Short:        "In-memory land registry node for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if moduleAddr == "" {
				return errors.New("--module-address is required")
			}
			module.Address = domain.Address(moduleAddr)

			logger, err := logging.New(logLevel, logFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts := []devnode.Option{devnode.WithLogger(logger)}
			if disableViews {
				opts = append(opts, devnode.WithoutViews())
			}
			srv := devnode.New(module, opts...)
			if err := srv.Run(cmd.Context(), addr); err != nil {
				logger.Error("devnode stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", devnode.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&moduleAddr, "module-address", "", "account the registry module is published under")
	cmd.Flags().StringVar(&module.Name, "module-name", "land_registry", "registry module name")
	cmd.Flags().BoolVar(&disableViews, "disable-views", false, "answer /views with 404 to force table lookups")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", logging.FormatConsole, "log format (console or json)")
	return cmd
}
