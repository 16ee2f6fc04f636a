package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pennywise/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCommitMovesValueBetweenLedgers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	txn, err := f.Engine.Commit(ctx, TransactionInput{
		Description: "groceries",
		CommodityID: f.USD.ID,
	}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-42.50")},
		{LedgerID: food.ID, Value: dec("42.50")},
	})
	require.NoError(t, err)
	require.Len(t, txn.Splits, 2)
	require.False(t, txn.Datetime.IsZero())

	require.Equal(t, "-42.5", f.balance(t, bank.ID))
	require.Equal(t, "42.5", f.balance(t, food.ID))

	got, err := f.Engine.Get(ctx, txn.ID)
	require.NoError(t, err)
	require.Equal(t, "groceries", got.Description)
	require.Len(t, got.Splits, 2)
	require.True(t, got.Splits[0].Value.Equal(dec("-42.50")))
	require.True(t, got.Splits[0].Quantity.Equal(dec("-42.50")), "same-commodity splits exchange their value")
}

func TestCommitThreeWaySplit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	rent := f.ledgerByTitle(t, "Rent")
	food := f.ledgerByTitle(t, "Food")

	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-1000")},
		{LedgerID: rent.ID, Value: dec("900")},
		{LedgerID: food.ID, Value: dec("100")},
	})
	require.NoError(t, err)
	require.Equal(t, "-1000", f.balance(t, bank.ID))
	require.Equal(t, "900", f.balance(t, rent.ID))
	require.Equal(t, "100", f.balance(t, food.ID))
}

func TestCommitRejectsUnbalanced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-10")},
		{LedgerID: food.ID, Value: dec("9.99")},
	})
	require.ErrorIs(t, err, ledger.ErrUnbalanced)

	var unbalanced *ledger.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	require.True(t, unbalanced.Residual.Equal(dec("-0.01")))

	// Nothing was written.
	require.Equal(t, "0", f.balance(t, bank.ID))
	require.Equal(t, "0", f.balance(t, food.ID))
}

func TestCommitRejectsSingleSplit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")

	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("0")},
	})
	require.ErrorIs(t, err, ledger.ErrUnbalanced)
}

func TestCommitRejectsPlaceholderTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	assets := f.ledgerByTitle(t, "Assets")
	bank := f.ledgerByTitle(t, "Bank")

	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: assets.ID, Value: dec("-5")},
		{LedgerID: bank.ID, Value: dec("5")},
	})
	require.ErrorIs(t, err, ledger.ErrPlaceholderLedger)

	var posting *ledger.PostingError
	require.ErrorAs(t, err, &posting)
	require.Equal(t, "Assets", posting.LedgerTitle)
	require.Equal(t, "0", f.balance(t, bank.ID), "rejected commit leaves balances untouched")
}

func TestCommitRejectsForeignTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")

	foreign, err := f.Tree.CreateLedger(ctx, f.ledgerByTitle(t, "Assets").ID, CreateLedgerParams{
		Kind:        ledger.KindForeign,
		Title:       "Friend's ledger",
		RemoteURL:   "https://pennywise.example/bob",
		Type:        ledger.TypeAsset,
		CommodityID: f.USD.ID,
	})
	require.NoError(t, err)

	_, err = f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-5")},
		{LedgerID: foreign.ID, Value: dec("5")},
	})
	require.ErrorIs(t, err, ledger.ErrForeignLedger)
}

func TestCommitCrossCommodityNeedsQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")

	acme, err := f.Commodities.Resolve(ctx, ledger.Stock, "NYSE:ACME")
	require.NoError(t, err)
	brokerage, err := f.Tree.CreateLedger(ctx, f.ledgerByTitle(t, "Assets").ID, CreateLedgerParams{
		Title:       "Brokerage",
		Type:        ledger.TypeAsset,
		CommodityID: acme.ID,
	})
	require.NoError(t, err)

	// No quantity for the stock leg: rejected.
	_, err = f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-150")},
		{LedgerID: brokerage.ID, Value: dec("150")},
	})
	require.ErrorIs(t, err, ledger.ErrQuantityRequired)

	// Buy 3 shares for $150.
	shares := dec("3")
	txn, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-150")},
		{LedgerID: brokerage.ID, Value: dec("150"), Quantity: &shares},
	})
	require.NoError(t, err)
	require.Equal(t, "-150", f.balance(t, bank.ID))

	got, err := f.Engine.Get(ctx, txn.ID)
	require.NoError(t, err)
	for _, s := range got.Splits {
		if s.LedgerID == brokerage.ID {
			require.True(t, s.Quantity.Equal(shares), "quantity carries the exchanged share count")
			require.True(t, s.Value.Equal(dec("150")))
		}
	}
}

func TestCommitSameCommodityQuantityMustMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	wrong := dec("5")
	_, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-10")},
		{LedgerID: food.ID, Value: dec("10"), Quantity: &wrong},
	})
	require.ErrorIs(t, err, ledger.ErrQuantityMismatch)
}

func TestReverseRestoresBalances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	txn, err := f.Engine.Commit(ctx, TransactionInput{CommodityID: f.USD.ID}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-30")},
		{LedgerID: food.ID, Value: dec("30")},
	})
	require.NoError(t, err)

	require.NoError(t, f.Engine.Reverse(ctx, txn.ID))
	require.Equal(t, "0", f.balance(t, bank.ID))
	require.Equal(t, "0", f.balance(t, food.ID))

	_, err = f.Engine.Get(ctx, txn.ID)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	require.ErrorIs(t, f.Engine.Reverse(ctx, txn.ID), ledger.ErrNotFound)
}

func TestDisabledTransactionsStayOutOfBalances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	txn, err := f.Engine.Commit(ctx, TransactionInput{
		Description: "maybe a holiday",
		CommodityID: f.USD.ID,
		Disabled:    true,
	}, []SplitInput{
		{LedgerID: bank.ID, Value: dec("-500")},
		{LedgerID: food.ID, Value: dec("500")},
	})
	require.NoError(t, err)
	require.Equal(t, "0", f.balance(t, bank.ID), "disabled transactions are recorded but not counted")

	// Enable: the splits attach.
	require.NoError(t, f.Engine.SetDisabled(ctx, txn.ID, false))
	require.Equal(t, "-500", f.balance(t, bank.ID))
	require.Equal(t, "500", f.balance(t, food.ID))

	// Enabling again is a no-op.
	require.NoError(t, f.Engine.SetDisabled(ctx, txn.ID, false))
	require.Equal(t, "-500", f.balance(t, bank.ID))

	// Disable: the splits detach.
	require.NoError(t, f.Engine.SetDisabled(ctx, txn.ID, true))
	require.Equal(t, "0", f.balance(t, bank.ID))
	require.Equal(t, "0", f.balance(t, food.ID))

	// Reversing a disabled transaction must not detach twice.
	require.NoError(t, f.Engine.Reverse(ctx, txn.ID))
	require.Equal(t, "0", f.balance(t, bank.ID))
}

func TestCommitKeepsSuppliedDatetime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	bank := f.ledgerByTitle(t, "Bank")
	salary := f.ledgerByTitle(t, "Salary")

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	txn, err := f.Engine.Commit(ctx, TransactionInput{
		Datetime:    at,
		Num:         "PAY-0042",
		CommodityID: f.USD.ID,
	}, []SplitInput{
		{LedgerID: salary.ID, Value: dec("-2000")},
		{LedgerID: bank.ID, Value: dec("2000")},
	})
	require.NoError(t, err)

	got, err := f.Engine.Get(ctx, txn.ID)
	require.NoError(t, err)
	require.True(t, at.Equal(got.Datetime))
	require.Equal(t, "PAY-0042", got.Num)
}
