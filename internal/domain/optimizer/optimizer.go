// Package optimizer solves the constrained squad-selection problem: pick
// the 15-member roster maximizing total projected value under a budget, the
// fixed per-position quotas, and a per-group cap.
//
// Two modes exist behind one interface. Exact mode decomposes into
// per-position (count, budget) knapsack tables joined by a budget-split
// combination, with group caps enforced by branching on members of a
// violated group. Heuristic mode is a deterministic value-per-price greedy
// pass. Both apply the same tie-break rules, so identical inputs always
// produce identical rosters.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/model"
)

// Mode identifies which search strategy produced a roster.
type Mode uint8

const (
	ModeHeuristic Mode = iota
	ModeExact
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeHeuristic:
		return "heuristic"
	}
	return "unknown"
}

// ParseMode parses "exact" or "heuristic".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "exact":
		return ModeExact, nil
	case "heuristic":
		return ModeHeuristic, nil
	}
	return 0, fmt.Errorf("unknown optimization mode %q", s)
}

// Selection is the selector output: the roster, the mode that produced it,
// and whether an exact request degraded to the heuristic because a search
// budget was exceeded.
type Selection struct {
	Roster   model.Roster
	Mode     Mode
	Fallback bool
}

// Selector holds the search configuration. It is stateless across calls
// and safe for concurrent use.
type Selector struct {
	mode       Mode
	stateLimit int
	nodeLimit  int
}

// New creates a Selector with default configuration.
func New(opts ...Option) *Selector {
	s := &Selector{
		mode:       ModeHeuristic,
		stateLimit: defaultStateLimit,
		nodeLimit:  defaultNodeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select solves the selection problem in the selector's default mode.
func (s *Selector) Select(ctx context.Context, cat *model.Catalog, spec constraint.Spec) (Selection, error) {
	return s.SelectWithMode(ctx, cat, spec, s.mode)
}

// SelectWithMode solves the selection problem in an explicit mode. Exact
// mode degrades to heuristic when its search budgets are exceeded; the
// returned Selection records the degradation.
func (s *Selector) SelectWithMode(ctx context.Context, cat *model.Catalog, spec constraint.Spec, mode Mode) (Selection, error) {
	pr, err := prepare(cat, spec)
	if err != nil {
		return Selection{}, err
	}

	if mode == ModeExact {
		members, err := s.solveExact(ctx, pr)
		switch {
		case err == nil:
			return Selection{Roster: model.NewRoster(members), Mode: ModeExact}, nil
		case errors.Is(err, errLimitExceeded):
			members, herr := solveHeuristic(pr)
			if herr != nil {
				return Selection{}, herr
			}
			return Selection{Roster: model.NewRoster(members), Mode: ModeHeuristic, Fallback: true}, nil
		default:
			return Selection{}, err
		}
	}

	members, err := solveHeuristic(pr)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Roster: model.NewRoster(members), Mode: ModeHeuristic}, nil
}

// problem is the normalized search input: required ids pinned, excluded
// ids filtered, budgets and quotas reduced accordingly.
type problem struct {
	spec      constraint.Spec
	budget    model.Price    // remaining after pinning
	quotas    [4]int         // remaining per position
	groupRoom map[string]int // remaining per group
	pinned    []model.Candidate
	pool      [4][]model.Candidate // per position, value desc / price asc / id asc
}

// prepare pins required candidates, filters exclusions, and fails fast when
// the pinned set alone violates a quota, a group cap, or the budget.
func prepare(cat *model.Catalog, spec constraint.Spec) (*problem, error) {
	pr := &problem{
		spec:      spec,
		budget:    spec.Budget(),
		groupRoom: make(map[string]int),
	}
	for i, p := range model.Positions() {
		pr.quotas[i] = p.Quota()
	}

	pinned := make(map[string]struct{}, len(spec.Required()))
	for _, id := range spec.Required() {
		c, ok := cat.Lookup(id)
		if !ok {
			return nil, &InfeasibleError{
				Binding: BindingRequired,
				Reason:  "required candidate " + id + " is not in the catalog",
			}
		}
		pinned[id] = struct{}{}
		pr.pinned = append(pr.pinned, c)
		pr.quotas[c.Position]--
		if pr.quotas[c.Position] < 0 {
			return nil, &InfeasibleError{
				Binding: BindingQuota,
				Reason:  "required ids exceed the " + c.Position.String() + " quota",
			}
		}
		pr.budget -= c.Price
	}
	if pr.budget < 0 {
		return nil, &InfeasibleError{
			Binding: BindingBudget,
			Reason:  "required candidates alone exceed the budget",
		}
	}

	for g, n := range groupCounts(pr.pinned) {
		if n > spec.MaxPerGroup() {
			return nil, &InfeasibleError{
				Binding: BindingGroupCap,
				Reason:  "required ids exceed the cap for group " + g,
			}
		}
	}

	// Eligible pool: not excluded, not pinned, not from a saturated group,
	// and affordable within the remaining budget. Unavailable candidates
	// stay eligible; excluding them is a caller decision.
	for _, c := range cat.Candidates() {
		if _, isPinned := pinned[c.ID]; isPinned {
			continue
		}
		if spec.IsExcluded(c.ID) {
			continue
		}
		if room, ok := pr.room(c.GroupID); ok && room <= 0 {
			continue
		}
		if c.Price > pr.budget {
			continue
		}
		pr.pool[c.Position] = append(pr.pool[c.Position], c)
	}
	for i := range pr.pool {
		sortByValue(pr.pool[i])
	}

	for i, p := range model.Positions() {
		if len(pr.pool[i]) < pr.quotas[i] {
			return nil, &InfeasibleError{
				Binding: BindingQuota,
				Reason:  "not enough eligible " + p.String() + " candidates to fill the quota",
			}
		}
	}

	// Lower bound on completion cost, ignoring group caps. Above budget
	// here means no combination can fit, in either mode.
	if minFillCost(pr, nil, "") > pr.budget {
		return nil, &InfeasibleError{
			Binding: BindingBudget,
			Reason:  "cheapest quota-satisfying combination exceeds the budget",
		}
	}
	return pr, nil
}

// room returns the remaining capacity for a group, lazily seeded from the
// spec's cap minus pinned members.
func (pr *problem) room(groupID string) (int, bool) {
	if r, ok := pr.groupRoom[groupID]; ok {
		return r, true
	}
	r := pr.spec.MaxPerGroup()
	for _, c := range pr.pinned {
		if c.GroupID == groupID {
			r--
		}
	}
	pr.groupRoom[groupID] = r
	return r, true
}

// minFillCost returns the cheapest way to fill all remaining quota slots
// from the pool, skipping already-chosen ids and optionally charging for
// one tentative pick. Group caps are ignored, making this a lower bound.
func minFillCost(pr *problem, chosen map[string]struct{}, tentativeID string) model.Price {
	var total model.Price
	for i := range pr.pool {
		need := pr.quotas[i]
		if tentativeID != "" {
			for _, c := range pr.pool[i] {
				if c.ID == tentativeID {
					need--
					break
				}
			}
		}
		if need <= 0 {
			continue
		}
		prices := make([]model.Price, 0, len(pr.pool[i]))
		for _, c := range pr.pool[i] {
			if c.ID == tentativeID {
				continue
			}
			if _, taken := chosen[c.ID]; taken {
				continue
			}
			prices = append(prices, c.Price)
		}
		sort.Slice(prices, func(a, b int) bool { return prices[a] < prices[b] })
		if len(prices) < need {
			// Not enough candidates left; report an impossible cost.
			return pr.budget + 1
		}
		for _, p := range prices[:need] {
			total += p
		}
	}
	return total
}

func groupCounts(cs []model.Candidate) map[string]int {
	out := make(map[string]int)
	for _, c := range cs {
		out[c.GroupID]++
	}
	return out
}

// sortByValue orders candidates by projected value desc, then price asc,
// then id asc: the tie-break rule shared by both modes.
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
