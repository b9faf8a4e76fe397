package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joyas-pwa/joyas-api/internal/database"
	"github.com/joyas-pwa/joyas-api/internal/repository"
	"github.com/joyas-pwa/joyas-api/internal/service"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

var (
	newUsername string
	newPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an application user",
	Long: `Creates a user that can log in to the API.  The same rules as
POST /auth/register apply: usernames are unique and trimmed, passwords are
at most 72 bytes.`,
	RunE: runCreateUser,
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "Login name")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "Plain text password")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap("users")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL(), nil)
	if err != nil {
		return err
	}
	auth, err := service.NewAuthService(repository.NewUserRepo(db), utils.NewBcryptHasher(cfg.BcryptCost), tokens, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	u, err := auth.Register(ctx, newUsername, newPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d)\n", u.Username, u.ID)
	return nil
}
