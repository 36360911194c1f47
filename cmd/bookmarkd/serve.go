package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookmarkd/bookmarkd/internal/api"
	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/config"
	"github.com/bookmarkd/bookmarkd/internal/db"
	"github.com/bookmarkd/bookmarkd/internal/logger"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
			defer func() { _ = log.Sync() }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			bookmarkStore := store.NewBookmarkStore(database)
			tokenStore := auth.NewSQLTokenStore(database)
			bearerAuth := auth.NewBearerTokenMiddleware(tokenStore, userStore)

			router := api.NewRouter(api.Deps{
				DB:            database,
				Logger:        log,
				BearerAuth:    bearerAuth,
				BookmarkStore: bookmarkStore,
				TokenStore:    tokenStore,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Infof("listening on %s", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err == http.ErrServerClosed {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
