package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// ReconcileService pairs splits with external statement lines and records
// confirmations.
type ReconcileService struct {
	DB  *sql.DB
	Log *logrus.Logger
}

// StatementLine is one line from a bank or card statement, in the ledger's
// own commodity.
type StatementLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Suggestion proposes that a statement line confirms one split.
type Suggestion struct {
	Split       ledger.Split
	Description string // owning transaction's description
	Line        StatementLine
	Similarity  float64
}

// MarkReconciled flags a split as confirmed against an external statement.
func (s *ReconcileService) MarkReconciled(ctx context.Context, splitID string, when time.Time) error {
	repo := repository.NewTransactionRepo(s.DB)
	split, err := repo.GetSplit(ctx, splitID)
	if err != nil {
		return err
	}
	if split == nil {
		return fmt.Errorf("split %s: %w", splitID, ledger.ErrNotFound)
	}
	return repo.MarkReconciled(ctx, splitID, when.UTC())
}

// Suggest matches statement lines to the ledger's unreconciled splits.
// A candidate must match the exchanged amount exactly and fall within a
// week of the statement date; ties are broken by description similarity.
// Each split is claimed by at most one line.
func (s *ReconcileService) Suggest(ctx context.Context, ledgerID string, lines []StatementLine) ([]Suggestion, error) {
	repo := repository.NewTransactionRepo(s.DB)
	splits, err := repo.UnreconciledByLedger(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		split ledger.Split
		desc  string
		at    time.Time
	}
	candidates := make([]candidate, 0, len(splits))
	for _, sp := range splits {
		desc, at, err := repo.Header(ctx, sp.TransactionID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{split: sp, desc: desc, at: at})
	}

	var out []Suggestion
	claimed := map[string]bool{}
	for _, line := range lines {
		best := -1
		bestScore := 0.0
		for i, c := range candidates {
			if claimed[c.split.ID] {
				continue
			}
			if !c.split.Quantity.Equal(line.Amount) {
				continue
			}
			if daysApart(c.at, line.Date) > 7 {
				continue
			}
			if !descriptionsMatch(c.desc, line.Description) {
				continue
			}
			score := similarity(c.desc, line.Description)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			continue
		}
		c := candidates[best]
		claimed[c.split.ID] = true
		out = append(out, Suggestion{Split: c.split, Description: c.desc, Line: line, Similarity: bestScore})
	}
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{"ledger": ledgerID, "lines": len(lines), "matched": len(out)}).Debug("reconciliation suggestions")
	}
	return out, nil
}

// descriptionsMatch accepts descriptions whose edit distance stays under 40%
// of the longer string. Empty descriptions match anything: plenty of real
// statements carry no useful text.
func descriptionsMatch(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a), strings.ToUpper(b))
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return float64(dist)/float64(maxlen) < 0.4
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.5
	}
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxlen)
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
