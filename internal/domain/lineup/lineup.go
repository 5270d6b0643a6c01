// Package lineup derives the legal starting eleven from a fixed roster:
// per-position top picks by projected value, a captain, and an ordered
// bench with the reserve goalkeeper first.
package lineup

import (
	"sort"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Derive selects the starters matching the formation, the captain, and the
// bench ordering. The roster's quota split (2/5/5/3) exceeds any valid
// formation's needs by exactly the bench size, so selection is independent
// per position; no further combinatorics are involved.
//
// Captain doubling is the consumer's concern; this package only designates
// the captain.
func Derive(roster model.Roster, f model.Formation) (model.Lineup, error) {
	if !f.Valid() {
		return model.Lineup{}, &InvalidFormationError{
			Formation: f,
			Reason:    "formation counts out of range",
		}
	}
	counts := roster.PositionCounts()
	want := [4]int{model.GoalkeeperQuota, model.DefenderQuota, model.MidfielderQuota, model.ForwardQuota}
	if counts != want {
		// Guards against reusing a roster produced under different rules.
		return model.Lineup{}, &InvalidFormationError{
			Formation: f,
			Reason:    "roster does not carry the 2/5/5/3 position split",
		}
	}

	starters := make([]model.Candidate, 0, model.StartersCnt)
	bench := make([]model.Candidate, 0, model.BenchSize)
	for _, p := range model.Positions() {
		members := roster.ByPosition(p)
		sortByValue(members)
		n := f.Starters(p)
		starters = append(starters, members[:n]...)
		bench = append(bench, members[n:]...)
	}

	captain := starters[0]
	for _, c := range starters[1:] {
		if c.Projected > captain.Projected ||
			(c.Projected == captain.Projected && c.ID < captain.ID) {
			captain = c
		}
	}

	orderBench(bench)
	return model.Lineup{
		Formation: f,
		Starters:  starters,
		CaptainID: captain.ID,
		Bench:     bench,
	}, nil
}

// sortByValue orders by projected value desc, price asc, id asc, the same
// rule the selector ranks with.
func sortByValue(cs []model.Candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Projected != cs[j].Projected {
			return cs[i].Projected > cs[j].Projected
		}
		if cs[i].Price != cs[j].Price {
			return cs[i].Price < cs[j].Price
		}
		return cs[i].ID < cs[j].ID
	})
}

// orderBench puts the reserve goalkeeper first, then the remaining
// non-starters by projected value desc with id as the tie-break.
func orderBench(bench []model.Candidate) {
	sort.Slice(bench, func(i, j int) bool {
		gi, gj := bench[i].Position == model.Goalkeeper, bench[j].Position == model.Goalkeeper
		if gi != gj {
			return gi
		}
		if bench[i].Projected != bench[j].Projected {
			return bench[i].Projected > bench[j].Projected
		}
		return bench[i].ID < bench[j].ID
	})
}
