package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"pennywise/internal/ledger"
)

func newLedgersCmd(a *app, user *string) *cobra.Command {
	var all bool
	var rootID string

	cmd := &cobra.Command{
		Use:   "ledgers",
		Short: "List the ledger tree with balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()

			if rootID == "" {
				root, err := a.ledgers.RootForOwner(ctx, *user)
				if err != nil {
					return err
				}
				rootID = root.ID
			}
			if ok, err := a.access.Can(ctx, *user, rootID, ledger.ActionRead); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("user %s: %w", *user, ledger.ErrUnauthorized)
			}

			rows, err := a.ledgers.ListTree(ctx, rootID, all)
			if err != nil {
				return err
			}
			commodities := map[string]*ledger.Commodity{}
			for _, r := range rows {
				c, ok := commodities[r.Ledger.CommodityID]
				if !ok {
					if c, err = a.commodities.Get(ctx, r.Ledger.CommodityID); err != nil {
						return err
					}
					commodities[r.Ledger.CommodityID] = c
				}
				marker := ""
				if r.EffectiveHidden {
					marker = " (hidden)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s%s\n",
					strings.Repeat("  ", r.Depth), r.Ledger.Title, formatBalance(r.Ledger, c), marker)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden ledgers")
	cmd.Flags().StringVar(&rootID, "root", "", "list under this ledger instead of the user's root")
	return cmd
}

// formatBalance renders a balance in its commodity. Known ISO currencies get
// proper symbol and grouping via go-money; everything else prints the raw
// decimal with the commodity symbol.
func formatBalance(l *ledger.Ledger, c *ledger.Commodity) string {
	if c.Type == ledger.Currency {
		if cur := money.GetCurrency(c.Symbol); cur != nil {
			minor := l.Balance.Shift(int32(cur.Fraction)).Round(0).IntPart()
			return money.New(minor, cur.Code).Display()
		}
	}
	return l.Balance.String() + " " + c.Symbol
}
