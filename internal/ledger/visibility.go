package ledger

// Node is one ledger in an assembled subtree. Children must already be in
// display order (by title); FlattenTree preserves the order it is given.
type Node struct {
	Ledger   *Ledger
	Children []*Node
}

// TreeRow is one entry in the flattened display list.
type TreeRow struct {
	Depth           int
	Ledger          *Ledger
	EffectiveHidden bool
}

// FlattenTree flattens a subtree into a pre-order display list with hidden
// flags propagated:
//
//   - a ledger's own hidden flag is the starting value,
//   - a hidden ledger hides every descendant (descendants already hidden
//     stay hidden; propagation never unhides),
//   - a placeholder whose children all ended up hidden is itself hidden,
//     regardless of its own flag.
//
// The function reads but never mutates ledger state, so repeated calls on an
// unchanged tree return identical output.
func FlattenTree(root *Node) []TreeRow {
	rows, _ := flatten(root, 0)
	return rows
}

func flatten(n *Node, depth int) ([]TreeRow, bool) {
	hidden := n.Ledger.Hidden
	rows := []TreeRow{{Depth: depth, Ledger: n.Ledger, EffectiveHidden: hidden}}
	allSubHidden := true
	for _, child := range n.Children {
		crows, childHidden := flatten(child, depth+1)
		rows = append(rows, crows...)
		if hidden && !childHidden {
			// Hidden ledgers hide everything below them.
			for i := 1; i < len(rows); i++ {
				rows[i].EffectiveHidden = true
			}
			childHidden = true
		}
		if !childHidden {
			allSubHidden = false
		}
	}
	if n.Ledger.Placeholder && allSubHidden {
		// A category whose entire contents are hidden is itself hidden.
		hidden = true
		rows[0].EffectiveHidden = true
	}
	return rows, hidden
}
