package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pennywise/internal/database"
	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// TransactionEngine validates and commits balanced transactions. All
// validation happens before anything is written; a rejected commit leaves
// every balance untouched.
type TransactionEngine struct {
	DB  *sql.DB
	Log *logrus.Logger
}

// TransactionInput carries caller-supplied transaction attributes.
type TransactionInput struct {
	Datetime    time.Time // zero means now
	Num         string
	Description string
	CommodityID string
	// Disabled transactions are recorded but excluded from balances,
	// for speculating on expenses.
	Disabled bool
}

// SplitInput is one posting to be committed. Value is in the transaction's
// commodity. Quantity must be supplied when the target ledger's commodity
// differs from the transaction's; otherwise it defaults to Value.
type SplitInput struct {
	LedgerID string
	Value    decimal.Decimal
	Quantity *decimal.Decimal
}

// Commit validates the transaction and persists it with its splits and
// balance updates as one atomic unit.
func (e *TransactionEngine) Commit(ctx context.Context, in TransactionInput, splits []SplitInput) (*ledger.Transaction, error) {
	if len(splits) < 2 {
		return nil, &ledger.UnbalancedError{Splits: len(splits)}
	}
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Value)
	}
	if !sum.IsZero() {
		return nil, &ledger.UnbalancedError{Splits: len(splits), Residual: sum}
	}

	ledgers := repository.NewLedgerRepo(e.DB)
	targets := make([]*ledger.Ledger, len(splits))
	for i, s := range splits {
		target, err := ledgers.Get(ctx, s.LedgerID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, fmt.Errorf("ledger %s: %w", s.LedgerID, ledger.ErrNotFound)
		}
		if target.Placeholder {
			return nil, &ledger.PostingError{LedgerID: target.ID, LedgerTitle: target.Title, Kind: ledger.ErrPlaceholderLedger}
		}
		if target.Kind == ledger.KindForeign {
			return nil, &ledger.PostingError{LedgerID: target.ID, LedgerTitle: target.Title, Kind: ledger.ErrForeignLedger}
		}
		targets[i] = target
	}

	at := in.Datetime
	if at.IsZero() {
		at = database.Now()
	}
	txn := ledger.Transaction{
		ID:          uuid.NewString(),
		Datetime:    at.UTC(),
		Num:         in.Num,
		Description: in.Description,
		CommodityID: in.CommodityID,
		Disabled:    in.Disabled,
	}
	for i, s := range splits {
		quantity, err := splitQuantity(s, targets[i], in.CommodityID)
		if err != nil {
			return nil, err
		}
		txn.Splits = append(txn.Splits, ledger.Split{
			ID:            uuid.NewString(),
			TransactionID: txn.ID,
			LedgerID:      s.LedgerID,
			Value:         s.Value,
			Quantity:      quantity,
		})
	}

	err := database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		repo := repository.NewTransactionRepo(tx)
		if err := repo.Insert(ctx, txn); err != nil {
			return err
		}
		for _, s := range txn.Splits {
			if err := repo.InsertSplit(ctx, s); err != nil {
				return err
			}
			if txn.Disabled {
				continue
			}
			if err := attachSplit(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{"transaction": txn.ID, "splits": len(txn.Splits)}).Info("transaction committed")
	}
	return &txn, nil
}

// splitQuantity resolves the exchanged amount for one posting.
func splitQuantity(s SplitInput, target *ledger.Ledger, txnCommodity string) (decimal.Decimal, error) {
	if target.CommodityID != txnCommodity {
		if s.Quantity == nil {
			return decimal.Zero, fmt.Errorf("ledger %q: %w", target.Title, ledger.ErrQuantityRequired)
		}
		return *s.Quantity, nil
	}
	if s.Quantity != nil && !s.Quantity.Equal(s.Value) {
		return decimal.Zero, fmt.Errorf("ledger %q: %w", target.Title, ledger.ErrQuantityMismatch)
	}
	return s.Value, nil
}

// Get returns one committed transaction with its splits, or ErrNotFound.
func (e *TransactionEngine) Get(ctx context.Context, id string) (*ledger.Transaction, error) {
	txn, err := repository.NewTransactionRepo(e.DB).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	return txn, nil
}

// Reverse undoes a committed transaction: every split's balance contribution
// is detached and the transaction removed, atomically. Committed
// transactions are never edited in place; corrections are a reversal
// followed by a fresh entry.
func (e *TransactionEngine) Reverse(ctx context.Context, id string) error {
	txn, err := repository.NewTransactionRepo(e.DB).Get(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	err = database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		if !txn.Disabled {
			for _, s := range txn.Splits {
				if err := detachSplit(ctx, tx, s); err != nil {
					return err
				}
			}
		}
		return repository.NewTransactionRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("reverse transaction %s: %w", id, err)
	}
	if e.Log != nil {
		e.Log.WithField("transaction", id).Info("transaction reversed")
	}
	return nil
}

// SetDisabled toggles a transaction in or out of the balances. Disabling
// detaches every split's contribution; enabling attaches them again.
func (e *TransactionEngine) SetDisabled(ctx context.Context, id string, disabled bool) error {
	txn, err := repository.NewTransactionRepo(e.DB).Get(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	if txn.Disabled == disabled {
		return nil
	}
	return database.WithTx(ctx, e.DB, func(tx *sql.Tx) error {
		for _, s := range txn.Splits {
			var err error
			if disabled {
				err = detachSplit(ctx, tx, s)
			} else {
				err = attachSplit(ctx, tx, s)
			}
			if err != nil {
				return err
			}
		}
		return repository.NewTransactionRepo(tx).SetDisabled(ctx, id, disabled)
	})
}
