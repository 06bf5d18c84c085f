// Package cli implements the openmarket command line: deployment, schema
// upgrades and account administration against a ledger database.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath  string
	Verbose bool
}

// NewRootCommand creates the root command for the openmarket CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "openmarket",
		Short: "OpenMarket ledger administration",
		Long:  "Deploy, upgrade and administer an OpenMarket farmers' marketplace ledger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			if opts.DBPath == "" {
				return fmt.Errorf("--db must not be empty")
			}
			return nil
		},
	}

	dbDefault := os.Getenv("DB_PATH")
	if dbDefault == "" {
		dbDefault = "./openmarket.db"
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", dbDefault, "path to the ledger database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewDeployCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewAddAccountCommand(opts))
	cmd.AddCommand(NewCreditCommand(opts))

	return cmd
}

// openStore opens the database and applies pending migrations.
func openStore(ctx context.Context, opts *RootOptions) (*store.Store, error) {
	st, err := store.NewStore(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", opts.DBPath, err)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate %s: %w", opts.DBPath, err)
	}
	return st, nil
}

// openLedger opens an already deployed ledger.
func openLedger(ctx context.Context, st store.Storage, path string) (*ledger.Ledger, error) {
	l, err := ledger.Open(ctx, st, "")
	if err != nil {
		return nil, fmt.Errorf("no ledger deployed in %s (run deploy first): %w", path, err)
	}
	return l, nil
}
