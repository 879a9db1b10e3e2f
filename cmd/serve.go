package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/billing"
	"github.com/satheeshds/condo/checkout"
	"github.com/satheeshds/condo/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API after applying pending migrations.

Required environment variables:
  JWT_SECRET - key used to sign bearer tokens

Optional, enables provider checkout:
  STRIPE_SECRET_KEY, STRIPE_WEBHOOK_SECRET`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Duration("shutdown-timeout", 15*time.Second, "Time allowed for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	tokens, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var provider billing.Provider
	if cfg.ProviderConfigured() {
		provider, err = checkout.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		if err != nil {
			return err
		}
		if cfg.StripeWebhookSecret == "" {
			slog.Warn("STRIPE_WEBHOOK_SECRET not set, webhook events will be rejected")
		}
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set, provider checkout is disabled")
	}

	svc := billing.NewService(billing.Config{
		Store:    a.store,
		Provider: provider,
		Receipts: a.receipts,
		AppURL:   cfg.AppURL,
		Currency: cfg.Currency,
	})
	router := handlers.NewRouter(&handlers.API{
		Billing:  svc,
		Accounts: auth.NewAccounts(a.store, tokens, nil),
		Tokens:   tokens,
		DB:       a.store,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", srv.Addr, "provider_configured", provider != nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
