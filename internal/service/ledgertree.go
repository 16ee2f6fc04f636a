package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pennywise/internal/database"
	"pennywise/internal/database/repository"
	"pennywise/internal/ledger"
)

// LedgerTreeService owns the chart of accounts: creating roots and ledgers,
// seeding the starter chart, visibility listings, and the balance mutators
// used by the transaction engine.
type LedgerTreeService struct {
	DB  *sql.DB
	Log *logrus.Logger
}

// CreateLedgerParams carries caller-supplied attributes for a new ledger.
// Balance is deliberately absent: new ledgers always start at zero.
type CreateLedgerParams struct {
	Kind        ledger.Kind // empty means ordinary ledger
	Title       string
	Code        string
	Description string
	Notes       string
	Placeholder bool
	Hidden      bool
	Type        ledger.LedgerType
	Subtype     ledger.LedgerSubtype
	CommodityID string
	RemoteURL   string // foreign ledgers only
}

// CreateUserRoot creates the root ledger for a user's tree. Each user owns
// at most one root; the second attempt fails with ErrDuplicateOwner.
func (s *LedgerTreeService) CreateUserRoot(ctx context.Context, ownerID, commodityID string) (*ledger.Ledger, error) {
	repo := repository.NewLedgerRepo(s.DB)

	existing, err := repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lookup root for %s: %w", ownerID, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s: %w", ownerID, ledger.ErrDuplicateOwner)
	}

	root := ledger.Ledger{
		ID:          uuid.NewString(),
		Kind:        ledger.KindUser,
		OwnerID:     ownerID,
		Title:       ownerID,
		Placeholder: true, // user roots only group ledgers
		Type:        ledger.TypeUser,
		Subtype:     ledger.SubtypeNone,
		CommodityID: commodityID,
		Balance:     decimal.Zero,
	}
	if err := repo.Insert(ctx, root); err != nil {
		return nil, fmt.Errorf("create user root: %w", err)
	}
	if s.Log != nil {
		s.Log.WithField("owner", ownerID).Info("user root created")
	}
	return &root, nil
}

// CreateLedger creates a ledger under parentID. The (type, subtype) pair
// must be whitelisted and the parent must be a placeholder; caller-supplied
// balances are ignored by construction.
func (s *LedgerTreeService) CreateLedger(ctx context.Context, parentID string, p CreateLedgerParams) (*ledger.Ledger, error) {
	repo := repository.NewLedgerRepo(s.DB)
	parent, err := repo.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("parent ledger %s: %w", parentID, ledger.ErrNotFound)
	}
	l, err := newLedger(parent, p)
	if err != nil {
		return nil, err
	}
	if err := repo.Insert(ctx, *l); err != nil {
		return nil, fmt.Errorf("create ledger %q: %w", p.Title, err)
	}
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{"title": p.Title, "parent": parent.Title}).Debug("ledger created")
	}
	return l, nil
}

// newLedger validates params against the parent and builds the row.
func newLedger(parent *ledger.Ledger, p CreateLedgerParams) (*ledger.Ledger, error) {
	kind := p.Kind
	if kind == "" {
		kind = ledger.KindLedger
	}
	if kind == ledger.KindUser {
		return nil, &ledger.HierarchyError{LedgerID: parent.ID, Reason: "user roots cannot have a parent"}
	}
	if kind == ledger.KindForeign && p.RemoteURL == "" {
		return nil, &ledger.HierarchyError{LedgerID: parent.ID, Reason: "foreign ledger needs a remote URL"}
	}
	if !ledger.ValidTypeCombo(p.Type, p.Subtype) {
		return nil, &ledger.TypeComboError{Type: p.Type, Subtype: p.Subtype}
	}
	if !parent.Placeholder {
		return nil, &ledger.HierarchyError{LedgerID: parent.ID, Reason: "parent is not a placeholder"}
	}
	return &ledger.Ledger{
		ID:          uuid.NewString(),
		Kind:        kind,
		RemoteURL:   p.RemoteURL,
		Title:       p.Title,
		Code:        p.Code,
		Description: p.Description,
		Notes:       p.Notes,
		Placeholder: p.Placeholder,
		Hidden:      p.Hidden,
		Type:        p.Type,
		Subtype:     p.Subtype,
		CommodityID: p.CommodityID,
		ParentID:    parent.ID,
		Balance:     decimal.Zero, // balance on new ledgers is always zero
	}, nil
}

// chartEntry describes one ledger in the fixed starter chart.
type chartEntry struct {
	parent      string // key of parent entry; empty means the root
	key         string
	title       string
	description string
	placeholder bool
	hidden      bool
	typ         ledger.LedgerType
	subtype     ledger.LedgerSubtype
}

// defaultChart is data, not an algorithm: the starter accounts every new
// user gets, each inheriting the root's commodity.
var defaultChart = []chartEntry{
	{"", "assets", "Assets", "All current assets", true, false, ledger.TypeAsset, ledger.SubtypeNone},
	{"", "liabilities", "Liabilities", "All current liabilities", true, false, ledger.TypeLiability, ledger.SubtypeNone},
	{"", "income", "Income", "All sources of income", true, false, ledger.TypeIncome, ledger.SubtypeNone},
	{"", "expenses", "Expenses", "All expenses", true, false, ledger.TypeExpense, ledger.SubtypeNone},
	{"", "equity", "Equity", "Financial infusions", true, false, ledger.TypeEquity, ledger.SubtypeNone},
	{"assets", "cash", "Cash", "Cash in my wallet", false, false, ledger.TypeAsset, ledger.SubtypeCash},
	{"assets", "bank", "Bank", "My bank account", false, false, ledger.TypeAsset, ledger.SubtypeBank},
	{"liabilities", "creditcard", "Credit Card", "My credit cards", false, false, ledger.TypeLiability, ledger.SubtypeCreditCard},
	{"income", "salary", "Salary", "Income from current and previous employers", false, false, ledger.TypeIncome, ledger.SubtypeNone},
	{"income", "hobbies", "Hobbies", "Income from hobbies", false, false, ledger.TypeIncome, ledger.SubtypeNone},
	{"income", "gifts", "Gifts", "Cash gifts", false, false, ledger.TypeIncome, ledger.SubtypeNone},
	{"expenses", "rent", "Rent", "Monthly house rent", false, false, ledger.TypeExpense, ledger.SubtypeNone},
	{"expenses", "emi", "EMI", "Monthly payments for the house and car", false, false, ledger.TypeExpense, ledger.SubtypeNone},
	{"expenses", "food", "Food", "Breakfast, lunch and dinner", false, false, ledger.TypeExpense, ledger.SubtypeNone},
	{"expenses", "shopping", "Shopping", "All purchases", false, false, ledger.TypeExpense, ledger.SubtypeNone},
	{"equity", "opening", "Opening Balances", "", false, true, ledger.TypeEquity, ledger.SubtypeNone},
}

// SeedDefaultChart populates the starter chart under a user root, all in one
// storage transaction. It helps a new user get started and is not meant to
// be run twice on the same root.
func (s *LedgerTreeService) SeedDefaultChart(ctx context.Context, rootID string) error {
	repo := repository.NewLedgerRepo(s.DB)
	root, err := repo.Get(ctx, rootID)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("root ledger %s: %w", rootID, ledger.ErrNotFound)
	}
	if root.Kind != ledger.KindUser {
		return &ledger.HierarchyError{LedgerID: rootID, Reason: "default chart can only be seeded under a user root"}
	}

	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		txRepo := repository.NewLedgerRepo(tx)
		byKey := map[string]*ledger.Ledger{"": root}
		for _, e := range defaultChart {
			parent := byKey[e.parent]
			l, err := newLedger(parent, CreateLedgerParams{
				Title:       e.title,
				Description: e.description,
				Placeholder: e.placeholder,
				Hidden:      e.hidden,
				Type:        e.typ,
				Subtype:     e.subtype,
				CommodityID: root.CommodityID,
			})
			if err != nil {
				return err
			}
			if err := txRepo.Insert(ctx, *l); err != nil {
				return fmt.Errorf("seed %q: %w", e.title, err)
			}
			byKey[e.key] = l
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.Log != nil {
		s.Log.WithField("root", rootID).Info("default chart seeded")
	}
	return nil
}

// RootForOwner returns the user's root ledger, or ErrNotFound.
func (s *LedgerTreeService) RootForOwner(ctx context.Context, ownerID string) (*ledger.Ledger, error) {
	root, err := repository.NewLedgerRepo(s.DB).GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("no root ledger for user %s: %w", ownerID, ledger.ErrNotFound)
	}
	return root, nil
}

// Get returns one ledger by id, or ErrNotFound.
func (s *LedgerTreeService) Get(ctx context.Context, id string) (*ledger.Ledger, error) {
	l, err := repository.NewLedgerRepo(s.DB).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("ledger %s: %w", id, ledger.ErrNotFound)
	}
	return l, nil
}

// SetHidden toggles explicit display suppression on one ledger.
func (s *LedgerTreeService) SetHidden(ctx context.Context, id string, hidden bool) error {
	return repository.NewLedgerRepo(s.DB).SetHidden(ctx, id, hidden)
}

// ListTree flattens the subtree under rootID into a display list with
// propagated hidden flags. With includeHidden false, rows that ended up
// hidden are dropped.
func (s *LedgerTreeService) ListTree(ctx context.Context, rootID string, includeHidden bool) ([]ledger.TreeRow, error) {
	repo := repository.NewLedgerRepo(s.DB)
	root, err := repo.Get(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("ledger %s: %w", rootID, ledger.ErrNotFound)
	}
	node, err := buildNode(ctx, repo, root)
	if err != nil {
		return nil, err
	}
	rows := ledger.FlattenTree(node)
	if includeHidden {
		return rows, nil
	}
	var visible []ledger.TreeRow
	for _, r := range rows {
		if !r.EffectiveHidden {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

func buildNode(ctx context.Context, repo *repository.LedgerRepo, l *ledger.Ledger) (*ledger.Node, error) {
	children, err := repo.Children(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	node := &ledger.Node{Ledger: l}
	for i := range children {
		child, err := buildNode(ctx, repo, &children[i])
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// attachSplit and detachSplit are the only paths that assign a ledger
// balance once it leaves its zero-balance construction state. Both expect
// to run inside the caller's storage transaction.
func attachSplit(ctx context.Context, db repository.DBTX, split ledger.Split) error {
	repo := repository.NewLedgerRepo(db)
	balance, err := repo.Balance(ctx, split.LedgerID)
	if err != nil {
		return err
	}
	return repo.SetBalance(ctx, split.LedgerID, balance.Add(split.Value))
}

func detachSplit(ctx context.Context, db repository.DBTX, split ledger.Split) error {
	repo := repository.NewLedgerRepo(db)
	balance, err := repo.Balance(ctx, split.LedgerID)
	if err != nil {
		return err
	}
	return repo.SetBalance(ctx, split.LedgerID, balance.Sub(split.Value))
}
