package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/database"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long: `Applies the embedded schema.  Every statement is idempotent, so running
it against an existing database only adds what is missing.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "Give up after this long")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap("migrate")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("schema applied", zap.Int("statements", len(database.Statements())))
	return nil
}
