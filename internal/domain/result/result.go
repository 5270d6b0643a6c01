// Package result assembles the external optimization result: roster plus
// lineup plus a short human-readable rationale per pick. Rationale rules
// are enumerable and pure functions of the computed result and catalog-wide
// summary statistics, so assembly adds no nondeterminism.
package result

import (
	"sort"

	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
)

// Pick is one selected candidate with its lineup role and rationale.
type Pick struct {
	Candidate model.Candidate `json:"candidate"`
	Starter   bool            `json:"starter"`
	Captain   bool            `json:"captain"`
	Rationale string          `json:"rationale"`
}

// Result is the external shape returned for an optimization request.
type Result struct {
	CatalogVersion string          `json:"catalog_version"`
	Mode           string          `json:"mode"`
	Fallback       bool            `json:"fallback,omitempty"`
	Roster         model.Roster    `json:"roster"`
	Lineup         model.Lineup    `json:"lineup"`
	Picks          []Pick          `json:"picks"`
	Formation      model.Formation `json:"formation"`
}

// Rationale strings. Rules are checked in order; the first match wins.
const (
	rationaleRequired   = "included by explicit request"
	rationaleHighRatio  = "value-to-price ratio above catalog median"
	rationaleLowCost    = "low-cost quota filler"
	rationaleTopProject = "best projected value available within budget"
)

// Assemble combines the selection and lineup into the final result.
func Assemble(cat *model.Catalog, spec constraint.Spec, sel optimizer.Selection, lu model.Lineup) Result {
	medianRatio := catalogMedianRatio(cat)
	lowCost := positionPriceFloor(cat)

	starters := make(map[string]struct{}, len(lu.Starters))
	for _, s := range lu.Starters {
		starters[s.ID] = struct{}{}
	}

	picks := make([]Pick, 0, len(sel.Roster.Members))
	for _, m := range sel.Roster.Members {
		_, isStarter := starters[m.ID]
		picks = append(picks, Pick{
			Candidate: m,
			Starter:   isStarter,
			Captain:   m.ID == lu.CaptainID,
			Rationale: rationaleFor(m, spec, medianRatio, lowCost[m.Position]),
		})
	}

	return Result{
		CatalogVersion: cat.Version(),
		Mode:           sel.Mode.String(),
		Fallback:       sel.Fallback,
		Roster:         sel.Roster,
		Lineup:         lu,
		Picks:          picks,
		Formation:      lu.Formation,
	}
}

func rationaleFor(c model.Candidate, spec constraint.Spec, medianRatio float64, priceFloor model.Price) string {
	switch {
	case spec.IsRequired(c.ID):
		return rationaleRequired
	case c.Ratio() > medianRatio:
		return rationaleHighRatio
	case c.Price <= priceFloor:
		return rationaleLowCost
	default:
		return rationaleTopProject
	}
}

// catalogMedianRatio returns the median value-to-price ratio across the
// whole catalog.
func catalogMedianRatio(cat *model.Catalog) float64 {
	ratios := make([]float64, 0, cat.Len())
	for _, c := range cat.Candidates() {
		ratios = append(ratios, c.Ratio())
	}
	if len(ratios) == 0 {
		return 0
	}
	sort.Float64s(ratios)
	mid := len(ratios) / 2
	if len(ratios)%2 == 1 {
		return ratios[mid]
	}
	return (ratios[mid-1] + ratios[mid]) / 2
}

// positionPriceFloor returns, per position, the price at the cheapest
// quartile boundary of the catalog. Picks at or below it read as budget
// fillers.
func positionPriceFloor(cat *model.Catalog) [4]model.Price {
	var out [4]model.Price
	for i, p := range model.Positions() {
		members := cat.ByPosition(p)
		if len(members) == 0 {
			continue
		}
		prices := make([]model.Price, 0, len(members))
		for _, c := range members {
			prices = append(prices, c.Price)
		}
		sort.Slice(prices, func(a, b int) bool { return prices[a] < prices[b] })
		out[i] = prices[len(prices)/4]
	}
	return out
}
