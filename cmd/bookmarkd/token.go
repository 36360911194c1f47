package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/db"
	"github.com/bookmarkd/bookmarkd/internal/metrics"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// newTokenCmd is the bootstrap path for a fresh install: identity
// verification is out of process, so the first API token for a user is
// issued from the machine running the database.
func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}

	var (
		email       string
		displayName string
		name        string
		expiresIn   time.Duration
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an API token for a user, creating the user if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			ctx := cmd.Context()
			users := store.NewUserStore(database)
			user, err := users.Upsert(ctx, email, displayName)
			if err != nil {
				return fmt.Errorf("upsert user %q: %w", email, err)
			}

			plaintext, hash, err := auth.GenerateToken()
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			var expiresAt *time.Time
			if expiresIn > 0 {
				t := time.Now().UTC().Add(expiresIn)
				expiresAt = &t
			}

			tokens := auth.NewSQLTokenStore(database)
			if _, err := tokens.Create(ctx, user.ID, name, hash, expiresAt); err != nil {
				return fmt.Errorf("store token: %w", err)
			}

			metrics.TokensIssuedTotal.Inc()

			// Printed exactly once; only the hash is stored.
			fmt.Println(plaintext)
			return nil
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "user email (required)")
	createCmd.Flags().StringVar(&displayName, "display-name", "", "user display name")
	createCmd.Flags().StringVar(&name, "name", "cli", "token name")
	createCmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime (0 = no expiry)")
	_ = createCmd.MarkFlagRequired("email")

	tokenCmd.AddCommand(createCmd)
	return tokenCmd
}
