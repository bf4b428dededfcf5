package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"treeverify/internal/config"
	"treeverify/internal/logging"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// errFailed signals a completed run whose verdict was negative.
var errFailed = errors.New("verification failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "treeverify",
		Short:         "Verify a directory tree against a checksum manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if err := cfg.ApplyEnv(); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			var err error
			logger, err = logging.New(cfg.LogLevel, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "human-readable development logs")

	root.AddCommand(newVerifyCmd(), newHashCmd(), newManifestCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
