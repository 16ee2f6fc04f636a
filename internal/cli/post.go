package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pennywise/internal/ledger"
	"pennywise/internal/service"
)

func newPostCmd(a *app, user *string) *cobra.Command {
	var (
		description string
		num         string
		currency    string
		when        string
		disabled    bool
		rawSplits   []string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Commit a balanced transaction",
		Long: `Commit a transaction built from --split flags. Each split is
LEDGER:VALUE or LEDGER:VALUE:QUANTITY for ledgers whose commodity differs
from the transaction's. Values must sum to exactly zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()

			splits, err := parseSplits(rawSplits)
			if err != nil {
				return err
			}
			for _, s := range splits {
				if ok, err := a.access.Can(ctx, *user, s.LedgerID, ledger.ActionWrite); err != nil {
					return err
				} else if !ok {
					return fmt.Errorf("ledger %s: %w", s.LedgerID, ledger.ErrUnauthorized)
				}
			}

			if currency == "" {
				currency = a.cfg.Currency.Default
			}
			commodity, err := a.commodities.Resolve(ctx, ledger.Currency, currency)
			if err != nil {
				return err
			}

			var at time.Time
			if when != "" {
				if at, err = time.Parse("2006-01-02", when); err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
			}

			txn, err := a.transactions.Commit(ctx, service.TransactionInput{
				Datetime:    at,
				Num:         num,
				Description: description,
				CommodityID: commodity.ID,
				Disabled:    disabled,
			}, splits)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %s committed (%d splits)\n", txn.ID, len(txn.Splits))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "desc", "d", "", "transaction description")
	cmd.Flags().StringVar(&num, "num", "", "user-facing transaction number")
	cmd.Flags().StringVarP(&currency, "currency", "c", "", "transaction commodity (ISO code)")
	cmd.Flags().StringVar(&when, "date", "", "transaction date (YYYY-MM-DD, default now)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "record speculatively, excluded from balances")
	cmd.Flags().StringArrayVarP(&rawSplits, "split", "s", nil, "posting as LEDGER:VALUE[:QUANTITY] (repeat)")
	return cmd
}

func parseSplits(raw []string) ([]service.SplitInput, error) {
	var out []service.SplitInput
	for _, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, fmt.Errorf("split %q: want LEDGER:VALUE[:QUANTITY]", r)
		}
		value, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", r, err)
		}
		s := service.SplitInput{LedgerID: parts[0], Value: value}
		if len(parts) == 3 {
			quantity, err := decimal.NewFromString(parts[2])
			if err != nil {
				return nil, fmt.Errorf("split %q: %w", r, err)
			}
			s.Quantity = &quantity
		}
		out = append(out, s)
	}
	return out, nil
}
