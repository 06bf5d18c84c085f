package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alextreichler/openmarket/internal/catalog"
	"github.com/alextreichler/openmarket/internal/deploy"
)

// DeployOptions holds flags for the deploy command.
type DeployOptions struct {
	*RootOptions
	Owner   string
	Catalog string
	Scale   int32
}

// NewDeployCommand creates the deploy command.
func NewDeployCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeployOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create a ledger and optionally load a catalog",
		Long: `Create a ledger owned by --owner in the database, or open the existing one.

With --catalog, the catalog's farmer profile is registered for the owner and
its items are listed in file order. Loading stops at the first entry that
fails; earlier entries stay listed.

Example:
  openmarket deploy --owner 0xdeployer --catalog catalog.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Owner, "owner", "", "identity of the deployer, who owns the ledger")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "YAML or JSON catalog to list")
	cmd.Flags().Int32Var(&opts.Scale, "scale", 2, "decimal places of catalog prices")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runDeploy(cmd *cobra.Command, opts *DeployOptions) error {
	ctx := cmd.Context()

	var cat *catalog.Catalog
	if opts.Catalog != "" {
		var err error
		if cat, err = catalog.Load(opts.Catalog); err != nil {
			return err
		}
	}

	st, err := openStore(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := deploy.Run(ctx, st, deploy.Options{Owner: opts.Owner, Catalog: cat, Scale: opts.Scale})
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger owner: %s\n", res.Ledger.Owner())
		if cat != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Listed %d of %d items\n", len(res.ItemIDs), len(cat.Items))
		}
	}
	return err
}
