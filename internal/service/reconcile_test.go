package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// postExpense books one bank->expense transaction and returns the bank split.
func postExpense(t *testing.T, f *fixture, desc string, at time.Time, amount string) ledger.Split {
	t.Helper()
	bank := f.ledgerByTitle(t, "Bank")
	food := f.ledgerByTitle(t, "Food")

	txn, err := f.Engine.Commit(context.Background(), TransactionInput{
		Datetime:    at,
		Description: desc,
		CommodityID: f.USD.ID,
	}, []SplitInput{
		{LedgerID: bank.ID, Value: dec(amount).Neg()},
		{LedgerID: food.ID, Value: dec(amount)},
	})
	require.NoError(t, err)
	for _, s := range txn.Splits {
		if s.LedgerID == bank.ID {
			return s
		}
	}
	t.Fatal("no bank split")
	return ledger.Split{}
}

func TestMarkReconciled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	svc := &ReconcileService{DB: f.DB, Log: quietLog()}
	bank := f.ledgerByTitle(t, "Bank")

	split := postExpense(t, f, "COLES 0423", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), "81.20")

	when := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.MarkReconciled(ctx, split.ID, when))

	got, err := repository.NewTransactionRepo(f.DB).GetSplit(ctx, split.ID)
	require.NoError(t, err)
	require.True(t, got.Reconciled)
	require.NotNil(t, got.ReconciledDate)
	require.True(t, when.Equal(*got.ReconciledDate))

	unreconciled, err := repository.NewTransactionRepo(f.DB).UnreconciledByLedger(ctx, bank.ID)
	require.NoError(t, err)
	require.Empty(t, unreconciled)

	require.ErrorIs(t, svc.MarkReconciled(ctx, "no-such-split", when), ledger.ErrNotFound)
}

func TestSuggestMatchesByAmountDateAndDescription(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	svc := &ReconcileService{DB: f.DB, Log: quietLog()}
	bank := f.ledgerByTitle(t, "Bank")

	may := func(day int) time.Time { return time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC) }
	groceries := postExpense(t, f, "COLES SPOTSWOOD", may(2), "81.20")
	rent := postExpense(t, f, "RENT MAY", may(1), "1800")
	postExpense(t, f, "FAR AWAY", may(20), "81.20") // outside the date window

	lines := []StatementLine{
		{Date: may(3), Description: "COLES SPOTSWOO", Amount: dec("-81.20")},
		{Date: may(1), Description: "RENT MAY", Amount: dec("-1800")},
		{Date: may(4), Description: "UNMATCHED MERCHANT", Amount: dec("-999")},
	}

	suggestions, err := svc.Suggest(ctx, bank.ID, lines)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	byDesc := map[string]Suggestion{}
	for _, s := range suggestions {
		byDesc[s.Description] = s
	}
	require.Equal(t, groceries.ID, byDesc["COLES SPOTSWOOD"].Split.ID)
	require.Equal(t, rent.ID, byDesc["RENT MAY"].Split.ID)
	require.InDelta(t, 1.0, byDesc["RENT MAY"].Similarity, 0.001, "identical descriptions score 1")
}

func TestSuggestRespectsDateWindowAndAmount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	svc := &ReconcileService{DB: f.DB, Log: quietLog()}
	bank := f.ledgerByTitle(t, "Bank")

	postExpense(t, f, "COLES", time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), "50")

	// Right amount, ten days away.
	suggestions, err := svc.Suggest(ctx, bank.ID, []StatementLine{
		{Date: time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), Description: "COLES", Amount: dec("-50")},
	})
	require.NoError(t, err)
	require.Empty(t, suggestions)

	// Right date, wrong amount.
	suggestions, err = svc.Suggest(ctx, bank.ID, []StatementLine{
		{Date: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), Description: "COLES", Amount: dec("-50.01")},
	})
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func TestSuggestClaimsEachSplitOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	svc := &ReconcileService{DB: f.DB, Log: quietLog()}
	bank := f.ledgerByTitle(t, "Bank")

	at := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	postExpense(t, f, "COFFEE", at, "4.50")

	// Two identical statement lines, one matching split.
	line := StatementLine{Date: at, Description: "COFFEE", Amount: dec("-4.50")}
	suggestions, err := svc.Suggest(ctx, bank.ID, []StatementLine{line, line})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
}

func TestSuggestSkipsReconciledSplits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, "alice")
	svc := &ReconcileService{DB: f.DB, Log: quietLog()}
	bank := f.ledgerByTitle(t, "Bank")

	at := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	split := postExpense(t, f, "COFFEE", at, "4.50")
	require.NoError(t, svc.MarkReconciled(ctx, split.ID, at))

	suggestions, err := svc.Suggest(ctx, bank.ID, []StatementLine{
		{Date: at, Description: "COFFEE", Amount: dec("-4.50")},
	})
	require.NoError(t, err)
	require.Empty(t, suggestions)
}
