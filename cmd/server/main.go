package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/alextreichler/openmarket/internal/config"
	"github.com/alextreichler/openmarket/internal/handlers"
	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/store"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Using TextHandler for console readability.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully.")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Run Migrations
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	// 3. Bind the ledger logic to the stored state
	notifier := ledger.NewNotifier()
	l, err := ledger.Open(ctx, db, cfg.LedgerOwner,
		ledger.WithSettler(ledger.WalletSettler{MaxBalance: cfg.MaxBalance}),
		ledger.WithNotifier(notifier),
	)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	// 4. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 5. Setup Handlers
	adminHandler := &handlers.AdminHandler{
		Ledger:       l,
		Accounts:     db,
		SessionStore: sessionStore,
	}
	ledgerHandler := &handlers.LedgerHandler{
		Ledger:    l,
		UploadDir: cfg.UploadDir,
	}
	// One purchase per client address per second.
	rateLimiter := handlers.NewRateLimiter(ctx, time.Second)
	mux := handlers.NewMux(adminHandler, ledgerHandler, rateLimiter)

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.Port, "owner", l.Owner())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		events, cancel := notifier.Subscribe(64)
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case e := <-events:
				slog.Debug("Ledger event", "seq", e.Seq, "kind", e.Kind, "payload", string(e.Payload))
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
