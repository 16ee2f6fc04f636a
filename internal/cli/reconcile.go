package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pennywise/internal/database"
	"pennywise/internal/ledger"
	"pennywise/internal/service"
)

func newReconcileCmd(a *app, user *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match splits against external statements",
	}
	cmd.AddCommand(newReconcileMarkCmd(a, user), newReconcileSuggestCmd(a, user))
	return cmd
}

func newReconcileMarkCmd(a *app, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mark SPLIT",
		Short: "Mark a split as reconciled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			return a.reconcile.MarkReconciled(cmd.Context(), args[0], database.Now())
		},
	}
}

func newReconcileSuggestCmd(a *app, user *string) *cobra.Command {
	var ledgerID string
	var rawLines []string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest splits matching statement lines",
		Long: `Suggest unreconciled splits matching statement lines. Each --line is
DATE,AMOUNT,DESCRIPTION with the amount in the ledger's own commodity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ok, err := a.access.Can(ctx, *user, ledgerID, ledger.ActionRead); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("ledger %s: %w", ledgerID, ledger.ErrUnauthorized)
			}

			lines, err := parseStatementLines(rawLines)
			if err != nil {
				return err
			}
			suggestions, err := a.reconcile.Suggest(ctx, ledgerID, lines)
			if err != nil {
				return err
			}
			for _, s := range suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  ~%.0f%%  (split %s)\n",
					s.Line.Date.Format("2006-01-02"), s.Line.Amount, s.Description, s.Similarity*100, s.Split.ID)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ledgerID, "ledger", "", "ledger id")
	cmd.Flags().StringArrayVar(&rawLines, "line", nil, "statement line as DATE,AMOUNT,DESCRIPTION (repeat)")
	_ = cmd.MarkFlagRequired("ledger")
	return cmd
}

func parseStatementLines(raw []string) ([]service.StatementLine, error) {
	var out []service.StatementLine
	for _, r := range raw {
		parts := strings.SplitN(r, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %q: want DATE,AMOUNT,DESCRIPTION", r)
		}
		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", r, err)
		}
		amount, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", r, err)
		}
		out = append(out, service.StatementLine{Date: date, Amount: amount, Description: parts[2]})
	}
	return out, nil
}
