package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/openmarket/internal/catalog"
)

// AddAccountOptions holds flags for the add-account command.
type AddAccountOptions struct {
	*RootOptions
	Identity string
	Secret   string
}

// NewAddAccountCommand creates the add-account command.
func NewAddAccountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddAccountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add-account",
		Short:         "Create HTTP API credentials for an identity",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer st.Close()

			hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Secret), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash secret: %w", err)
			}
			if err := st.CreateAccount(ctx, opts.Identity, string(hashed)); err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account '%s' created successfully.\n", opts.Identity)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Identity, "identity", "", "identity the account logs in as")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "login secret")
	_ = cmd.MarkFlagRequired("identity")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

// CreditOptions holds flags for the credit command.
type CreditOptions struct {
	*RootOptions
	As      string
	Account string
	Amount  string
	Scale   int32
}

// NewCreditCommand creates the credit command.
func NewCreditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Add funds to an account as the ledger owner",
		Long: `Add funds to an account as the ledger owner.

Example:
  openmarket credit --as 0xdeployer --account 0xbuyer --amount 25.00`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := catalog.ToMinorUnits(opts.Amount, opts.Scale)
			if err != nil {
				return err
			}

			st, err := openStore(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer st.Close()

			l, err := openLedger(ctx, st, opts.DBPath)
			if err != nil {
				return err
			}
			if err := l.Credit(ctx, opts.As, opts.Account, amount); err != nil {
				return err
			}
			bal, err := l.Balance(ctx, opts.Account)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance of %s: %s\n", opts.Account, catalog.FormatMinorUnits(bal, opts.Scale))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "", "caller identity; must be the ledger owner")
	cmd.Flags().StringVar(&opts.Account, "account", "", "account to credit")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "decimal amount, e.g. 25.00")
	cmd.Flags().Int32Var(&opts.Scale, "scale", 2, "decimal places of --amount")
	for _, name := range []string{"as", "account", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
