package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pennywise/internal/ledger"
)

// canTouchTransaction checks write permission on every ledger a transaction
// posts to. Editing another user's entries additionally needs write_all,
// which the access layer folds into the same check for owners.
func canTouchTransaction(ctx context.Context, a *app, user, txnID string) (*ledger.Transaction, error) {
	txn, err := a.transactions.Get(ctx, txnID)
	if err != nil {
		return nil, err
	}
	for _, s := range txn.Splits {
		ok, err := a.access.Can(ctx, user, s.LedgerID, ledger.ActionWrite)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("ledger %s: %w", s.LedgerID, ledger.ErrUnauthorized)
		}
	}
	return txn, nil
}

func newReverseCmd(a *app, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse TRANSACTION",
		Short: "Reverse a committed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := canTouchTransaction(ctx, a, *user, args[0]); err != nil {
				return err
			}
			if err := a.transactions.Reverse(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %s reversed\n", args[0])
			return nil
		},
	}
}

func newDisableCmd(a *app, user *string, disable bool) *cobra.Command {
	use, short := "disable TRANSACTION", "Exclude a transaction from balances"
	if !disable {
		use, short = "enable TRANSACTION", "Include a disabled transaction in balances again"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := canTouchTransaction(ctx, a, *user, args[0]); err != nil {
				return err
			}
			return a.transactions.SetDisabled(ctx, args[0], disable)
		},
	}
}

func newHideCmd(a *app, user *string) *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "hide LEDGER",
		Short: "Hide a ledger from listings (or unhide with --show)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ok, err := a.access.Can(ctx, *user, args[0], ledger.ActionWrite); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("ledger %s: %w", args[0], ledger.ErrUnauthorized)
			}
			return a.ledgers.SetHidden(ctx, args[0], !show)
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "unhide instead")
	return cmd
}

func newGrantCmd(a *app, user *string) *cobra.Command {
	var (
		to       string
		ledgerID string
		read     bool
		write    bool
		writeAll bool
	)
	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant another user access to a ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(user); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ok, err := a.access.Can(ctx, *user, ledgerID, ledger.ActionWriteAll); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("ledger %s: %w", ledgerID, ledger.ErrUnauthorized)
			}
			return a.access.Grant(ctx, ledger.Access{
				LedgerID: ledgerID,
				UserID:   to,
				Read:     read,
				Write:    write,
				WriteAll: writeAll,
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "user receiving access")
	cmd.Flags().StringVar(&ledgerID, "ledger", "", "ledger id")
	cmd.Flags().BoolVar(&read, "read", true, "allow viewing ledgers and transactions")
	cmd.Flags().BoolVar(&write, "write", false, "allow creating own transactions")
	cmd.Flags().BoolVar(&writeAll, "write-all", false, "allow editing other users' transactions")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("ledger")
	return cmd
}
