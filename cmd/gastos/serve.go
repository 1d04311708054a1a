package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfcarvalho/gastos/internal/common"
	"github.com/rfcarvalho/gastos/internal/notify"
	"github.com/rfcarvalho/gastos/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notification webhook and administrative API",
		Long: `Start the HTTP server that receives forwarded push notifications on
POST /notificacaos, exposes the credential-gated administrative data
operations under /admin, and serves read-only reporting dumps under
/relatorio.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	// Schema setup is part of startup; the server never runs against an
	// unmigrated database.
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	creds := server.Credentials{
		User:         viper.GetString("auth.user"),
		Salt:         viper.GetString("auth.salt"),
		PasswordHash: viper.GetString("auth.password_hash"),
	}
	if !creds.Configured() {
		// All-unset means an intentionally locked admin surface; a partial
		// set is a configuration mistake.
		if creds.User != "" || creds.Salt != "" || creds.PasswordHash != "" {
			return fmt.Errorf("%w: auth.user, auth.salt and auth.password_hash must all be set", common.ErrMissingConfig)
		}
		slog.Warn("admin credentials not configured; administrative routes will reject all requests")
	}

	router := server.NewRouter(server.Config{
		Store:       store,
		Resolver:    notify.NewUserResolver(viper.GetStringMapString("users")),
		Credentials: creds,
	})

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		slog.Info("server stopped")
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
