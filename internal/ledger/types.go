// Package ledger holds the domain model for the bookkeeping engine: commodity
// and ledger classifications, the error kinds surfaced by the engine, the
// static currency table and the visibility propagation algorithm.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CommodityType classifies a commodity.
type CommodityType int

const (
	// Currency is a cash currency (symbol is an ISO 4217 code).
	Currency CommodityType = 0
	// Stock is a traded stock (symbol like "NYSE:AAPL").
	Stock CommodityType = 1
	// Fund is a mutual fund.
	Fund CommodityType = 2
)

func (t CommodityType) String() string {
	switch t {
	case Currency:
		return "currency"
	case Stock:
		return "stock"
	case Fund:
		return "fund"
	}
	return "unknown"
}

// LedgerType is the broad classification of a ledger.
type LedgerType int

const (
	TypeUser      LedgerType = 0
	TypeAsset     LedgerType = 1
	TypeLiability LedgerType = 2
	TypeIncome    LedgerType = 3
	TypeExpense   LedgerType = 4
	TypeEquity    LedgerType = 5
)

func (t LedgerType) String() string {
	switch t {
	case TypeUser:
		return "user"
	case TypeAsset:
		return "asset"
	case TypeLiability:
		return "liability"
	case TypeIncome:
		return "income"
	case TypeExpense:
		return "expense"
	case TypeEquity:
		return "equity"
	}
	return "unknown"
}

// ParseLedgerType maps a name back to a LedgerType.
func ParseLedgerType(s string) (LedgerType, bool) {
	switch strings.ToLower(s) {
	case "user":
		return TypeUser, true
	case "asset":
		return TypeAsset, true
	case "liability":
		return TypeLiability, true
	case "income":
		return TypeIncome, true
	case "expense":
		return TypeExpense, true
	case "equity":
		return TypeEquity, true
	}
	return 0, false
}

// LedgerSubtype refines a LedgerType. Affects presentation only.
type LedgerSubtype int

const (
	SubtypeNone          LedgerSubtype = 0
	SubtypeBank          LedgerSubtype = 1
	SubtypeCash          LedgerSubtype = 2
	SubtypeCreditCard    LedgerSubtype = 3
	SubtypeAccReceivable LedgerSubtype = 4
	SubtypeAccPayable    LedgerSubtype = 5
)

func (t LedgerSubtype) String() string {
	switch t {
	case SubtypeNone:
		return "none"
	case SubtypeBank:
		return "bank"
	case SubtypeCash:
		return "cash"
	case SubtypeCreditCard:
		return "creditcard"
	case SubtypeAccReceivable:
		return "receivable"
	case SubtypeAccPayable:
		return "payable"
	}
	return "unknown"
}

// ParseLedgerSubtype maps a name back to a LedgerSubtype.
func ParseLedgerSubtype(s string) (LedgerSubtype, bool) {
	switch strings.ToLower(s) {
	case "", "none":
		return SubtypeNone, true
	case "bank":
		return SubtypeBank, true
	case "cash":
		return SubtypeCash, true
	case "creditcard":
		return SubtypeCreditCard, true
	case "receivable":
		return SubtypeAccReceivable, true
	case "payable":
		return SubtypeAccPayable, true
	}
	return 0, false
}

// TypeCombo is a (type, subtype) pair.
type TypeCombo struct {
	Type    LedgerType
	Subtype LedgerSubtype
}

// validCombos is the whitelist of allowed (type, subtype) pairs.
var validCombos = map[TypeCombo]bool{
	{TypeUser, SubtypeNone}:            true,
	{TypeAsset, SubtypeNone}:           true,
	{TypeAsset, SubtypeBank}:           true,
	{TypeAsset, SubtypeCash}:           true,
	{TypeLiability, SubtypeNone}:       true,
	{TypeLiability, SubtypeCreditCard}: true,
	{TypeLiability, SubtypeAccPayable}: true,
	{TypeIncome, SubtypeNone}:          true,
	{TypeIncome, SubtypeAccReceivable}: true,
	{TypeExpense, SubtypeNone}:         true,
	{TypeEquity, SubtypeNone}:          true,
}

// ValidTypeCombo reports whether the (type, subtype) pair is allowed.
func ValidTypeCombo(t LedgerType, s LedgerSubtype) bool {
	return validCombos[TypeCombo{t, s}]
}

// TransferColumn carries the debit/credit header labels and the signage for
// one ledger classification, following the operational principles for
// personal accounts.
type TransferColumn struct {
	Debit  string
	Credit string
	Sign   int
}

// TransferColumns maps ledger classifications to display labels and signage.
var TransferColumns = map[TypeCombo]TransferColumn{
	{TypeAsset, SubtypeNone}:           {"Increase", "Decrease", +1},
	{TypeAsset, SubtypeBank}:           {"Deposit", "Withdrawal", +1},
	{TypeAsset, SubtypeCash}:           {"Receive", "Spend", +1},
	{TypeLiability, SubtypeNone}:       {"Decrease", "Increase", -1},
	{TypeLiability, SubtypeCreditCard}: {"Payment", "Charge", -1},
	{TypeIncome, SubtypeNone}:          {"Charge", "Income", -1},
	{TypeExpense, SubtypeNone}:         {"Expense", "Rebate", +1},
	{TypeEquity, SubtypeNone}:          {"Decrease", "Increase", -1},
}

// Kind distinguishes ledger variants.
type Kind string

const (
	// KindLedger is an ordinary account ledger.
	KindLedger Kind = "ledger"
	// KindUser is the root of one user's tree. Always a placeholder,
	// never has a parent, owned by exactly one user.
	KindUser Kind = "user"
	// KindForeign is a remotely-hosted ledger. Its local balance is not
	// authoritative and it cannot hold postings.
	KindForeign Kind = "foreign"
)

// Action is a permission checked by the access layer.
type Action string

const (
	ActionRead Action = "read"
	// ActionWrite permits creating the user's own transactions.
	ActionWrite Action = "write"
	// ActionWriteAll additionally permits touching other users' transactions.
	ActionWriteAll Action = "write_all"
)

// Commodity is a unit of value that ledgers and splits are denominated in.
// At most one commodity exists per (type, symbol) pair and a commodity never
// changes once created.
type Commodity struct {
	ID     string
	Type   CommodityType
	Symbol string
	Title  string
}

// Ledger is one node in the chart of accounts.
type Ledger struct {
	ID          string
	Kind        Kind
	OwnerID     string // set only for KindUser
	RemoteURL   string // set only for KindForeign
	Title       string
	Code        string
	Description string
	Notes       string
	Placeholder bool
	Hidden      bool
	Type        LedgerType
	Subtype     LedgerSubtype
	CommodityID string
	ParentID    string // empty only for the per-user root
	Balance     decimal.Decimal
}

// Transaction is a single economic event between ledgers. Not to be
// confused with database transactions.
type Transaction struct {
	ID          string
	Datetime    time.Time
	Num         string
	Description string
	CommodityID string
	Disabled    bool
	Splits      []Split
}

// Split is one posting of a transaction against one ledger. Value is in the
// transaction's commodity; Quantity is in the ledger's own commodity and
// equals Value unless the two commodities differ.
type Split struct {
	ID             string
	TransactionID  string
	LedgerID       string
	Value          decimal.Decimal
	Quantity       decimal.Decimal
	Reconciled     bool
	ReconciledDate *time.Time
}

// Access is one per-(user, ledger) grant row.
type Access struct {
	LedgerID string
	UserID   string
	Read     bool
	Write    bool
	WriteAll bool
}
