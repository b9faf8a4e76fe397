// Package cli implements joyasctl, the operator command line: schema
// migration, user provisioning and the ledger event consumer.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/config"
	"github.com/joyas-pwa/joyas-api/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "joyasctl",
	Short: "Operator tools for the joyas API",
	Long: `joyasctl manages the joyas API database and background work.

It reads the same environment (and optional .env file) as the server.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every
// subcommand.
func bootstrap(component string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel, "joyasctl")
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log.Named(component), nil
}
