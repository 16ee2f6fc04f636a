package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pennywise/internal/ledger"
)

func newInitCmd(a *app, user *string) *cobra.Command {
	var currency string
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the acting user's root ledger and starter chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()

			if currency == "" {
				currency = a.cfg.Currency.Default
			}
			commodity, err := a.commodities.Resolve(ctx, ledger.Currency, currency)
			if err != nil {
				return err
			}

			root, err := a.ledgers.CreateUserRoot(ctx, *user, commodity.ID)
			if err != nil {
				return err
			}
			if !noSeed {
				if err := a.ledgers.SeedDefaultChart(ctx, root.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "root ledger %s created for %s (%s)\n", root.ID, *user, commodity.Symbol)
			return nil
		},
	}
	cmd.Flags().StringVarP(&currency, "currency", "c", "", "root commodity (ISO code; defaults from config)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip the starter chart of accounts")
	return cmd
}
