package repository

import (
	"context"
	"math"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Treap-based, in-memory Index implementation.
//
// Ordering: projected value DESC, then candidate id ASC (deterministic).
// The BST comparator treats "less" as "ranks earlier", so in-order
// traversal walks candidates from best to worst. Nodes carry subtree sizes
// for O(log n) rank queries. The tree is built once per snapshot and never
// mutated afterwards, matching the replace-the-whole-snapshot discipline.

// valueScale converts float64 projections to fixed point for exact
// comparisons inside the tree.
const valueScale = 1_000_000

type valueFP int64

func toFixedPoint(x float64) valueFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * valueScale
	if scaled > float64(math.MaxInt64) {
		return valueFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return valueFP(math.MinInt64)
	}
	return valueFP(math.Round(scaled))
}

type node struct {
	id    string
	value valueFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aValue, aID) ranks earlier than (bValue, bID).
func less(aValue valueFP, aID string, bValue valueFP, bID string) bool {
	if aValue != bValue {
		return aValue > bValue // higher value ranks earlier
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// valueToPriority keeps higher-valued candidates nearer the root, which
// speeds up TopN traversals on the hot prefix.
func valueToPriority(v valueFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(v) + offset
}

func insert(n *node, id string, v valueFP) *node {
	if n == nil {
		return &node{id: id, value: v, prio: valueToPriority(v), size: 1}
	}
	if less(v, id, n.value, n.id) {
		n.left = insert(n.left, id, v)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, v)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// TreapIndex implements Index over one catalog snapshot.
type TreapIndex struct {
	version string
	root    *node
	byID    map[string]model.Candidate
}

// NewTreapIndex builds the value index for a snapshot.
func NewTreapIndex(cat *model.Catalog) *TreapIndex {
	idx := &TreapIndex{
		version: cat.Version(),
		byID:    make(map[string]model.Candidate, cat.Len()),
	}
	for _, c := range cat.Candidates() {
		idx.byID[c.ID] = c
		idx.root = insert(idx.root, c.ID, toFixedPoint(c.Projected))
	}
	return idx
}

// Version returns the catalog version the index was built from.
func (s *TreapIndex) Version() string { return s.version }

// Count returns the number of indexed candidates.
func (s *TreapIndex) Count(_ context.Context) int { return nsize(s.root) }

// TopN returns the best n candidates by projected value.
func (s *TreapIndex) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	out := make([]Entry, 0, n)
	s.collectTopN(s.root, n, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (s *TreapIndex) collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	s.collectTopN(n.left, limit, out)
	if len(*out) < limit {
		if c, ok := s.byID[n.id]; ok {
			*out = append(*out, entryFor(c))
		}
	}
	if len(*out) < limit {
		s.collectTopN(n.right, limit, out)
	}
}

// Rank returns the 1-based value rank for a candidate id.
func (s *TreapIndex) Rank(_ context.Context, id string) (Entry, error) {
	c, ok := s.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	v := toFixedPoint(c.Projected)
	rank := 1
	n := s.root
	for n != nil {
		if n.id == id && n.value == v {
			rank += nsize(n.left)
			e := entryFor(c)
			e.Rank = rank
			return e, nil
		}
		if less(v, id, n.value, n.id) {
			n = n.left
		} else {
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return Entry{}, ErrNotFound
}

func entryFor(c model.Candidate) Entry {
	return Entry{
		ID:        c.ID,
		Name:      c.Name,
		GroupID:   c.GroupID,
		Position:  c.Position,
		Price:     c.Price,
		Projected: c.Projected,
	}
}
