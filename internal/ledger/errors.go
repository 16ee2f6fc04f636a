package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for matching with errors.Is. Typed errors below wrap these
// and carry the detail needed to explain which invariant failed.
var (
	ErrUnbalanced        = errors.New("transaction does not balance")
	ErrPlaceholderLedger = errors.New("placeholder ledgers cannot hold postings")
	ErrForeignLedger     = errors.New("foreign ledger balances are not authoritative")
	ErrInvalidTypeCombo  = errors.New("invalid ledger type/subtype combination")
	ErrInvalidHierarchy  = errors.New("invalid ledger hierarchy")
	ErrDuplicateOwner    = errors.New("user already owns a root ledger")
	ErrQuantityRequired  = errors.New("cross-commodity split requires an explicit quantity")
	ErrQuantityMismatch  = errors.New("quantity must equal value for same-commodity splits")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
)

// UnbalancedError reports a transaction whose splits do not sum to zero, or
// that has fewer than two splits.
type UnbalancedError struct {
	Splits   int
	Residual decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	if e.Splits < 2 {
		return fmt.Sprintf("transaction does not balance: %d split(s), need at least 2", e.Splits)
	}
	return fmt.Sprintf("transaction does not balance: splits sum to %s, want 0", e.Residual)
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }

// PostingError reports a posting attempted against a ledger that cannot
// hold splits.
type PostingError struct {
	LedgerID    string
	LedgerTitle string
	Kind        error // ErrPlaceholderLedger or ErrForeignLedger
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("ledger %q (%s): %v", e.LedgerTitle, e.LedgerID, e.Kind)
}

func (e *PostingError) Unwrap() error { return e.Kind }

// TypeComboError reports a disallowed (type, subtype) pair.
type TypeComboError struct {
	Type    LedgerType
	Subtype LedgerSubtype
}

func (e *TypeComboError) Error() string {
	return fmt.Sprintf("invalid ledger type/subtype combination %s/%s", e.Type, e.Subtype)
}

func (e *TypeComboError) Unwrap() error { return ErrInvalidTypeCombo }

// HierarchyError reports a structural violation in the ledger tree.
type HierarchyError struct {
	LedgerID string
	Reason   string
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("invalid hierarchy at ledger %s: %s", e.LedgerID, e.Reason)
}

func (e *HierarchyError) Unwrap() error { return ErrInvalidHierarchy }
