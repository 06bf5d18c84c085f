package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alextreichler/openmarket/internal/ledger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and bind the current ledger logic",
		Long: `Apply pending schema migrations and bind the current ledger logic.

Migrations only add tables, columns and indexes, so data written by an
earlier version stays readable. The ledger owner is never changed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer st.Close()

			schema, err := st.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema: %s\n", schema)

			l, err := openLedger(ctx, st, rootOpts.DBPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logic: %s\n", ledger.LogicVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "Owner: %s\n", l.Owner())
			return nil
		},
	}
}
