package optimizer

import (
	"context"
	"fmt"
	"sort"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Exact mode.
//
// The quotas make the four positions independent except for the shared
// budget and the per-group cap. Each position gets a (count, budget)
// knapsack table; the tables are joined by enumerating budget splits.
// Group caps are enforced afterwards: a roster carrying more than the cap
// from some group must drop one of those members, so the search branches
// into one child per member of the first violated group, each child
// banning that member and re-solving. Relaxed value bounds prune branches.

// dpCell holds the best (value, cost) for one DP state. Ties on value
// prefer the cheaper total, per the shared tie-break rules.
type dpCell struct {
	val  float64
	cost model.Price
	ok   bool
}

func betterCell(a, b dpCell) bool {
	if a.val != b.val {
		return a.val > b.val
	}
	return a.cost < b.cost
}

// posTable is the per-position knapsack result over a candidate list.
type posTable struct {
	items []model.Candidate
	k     int
	width int      // budget axis size (maxB+1)
	dp    []dpCell // (k+1) x width
	dec   []bool   // len(items) x (k+1) x width, true when the cell took the item
}

func (t *posTable) cell(k, b int) dpCell { return t.dp[k*t.width+b] }

func (t *posTable) decision(i, k, b int) bool {
	return t.dec[(i*(t.k+1)+k)*t.width+b]
}

// buildPosTable fills the knapsack table for one position: dp[k][b] is the
// best value of exactly k items with total price at most b tenths.
func buildPosTable(items []model.Candidate, k, maxB int) *posTable {
	t := &posTable{
		items: items,
		k:     k,
		width: maxB + 1,
		dp:    make([]dpCell, (k+1)*(maxB+1)),
		dec:   make([]bool, len(items)*(k+1)*(maxB+1)),
	}
	for b := 0; b <= maxB; b++ {
		t.dp[b] = dpCell{ok: true} // zero items fit any budget
	}
	for i, it := range items {
		cost := int(it.Price)
		top := i + 1
		if top > k {
			top = k
		}
		for kk := top; kk >= 1; kk-- {
			row := kk * t.width
			prev := (kk - 1) * t.width
			for b := maxB; b >= cost; b-- {
				src := t.dp[prev+b-cost]
				if !src.ok {
					continue
				}
				cand := dpCell{val: src.val + it.Projected, cost: src.cost + it.Price, ok: true}
				if cur := t.dp[row+b]; !cur.ok || betterCell(cand, cur) {
					t.dp[row+b] = cand
					t.dec[(i*(t.k+1)+kk)*t.width+b] = true
				}
			}
		}
	}
	return t
}

// reconstruct walks the decision flags backwards and returns the k items
// composing dp[k][budget].
func (t *posTable) reconstruct(budget int) []model.Candidate {
	out := make([]model.Candidate, 0, t.k)
	k, b := t.k, budget
	for i := len(t.items) - 1; i >= 0 && k > 0; i-- {
		if t.decision(i, k, b) {
			out = append(out, t.items[i])
			b -= int(t.items[i].Price)
			k--
		}
	}
	return out
}

// relaxedSolution is one group-cap-relaxed optimum over the pool (pinned
// members excluded; they are a constant offset).
type relaxedSolution struct {
	members []model.Candidate
	val     float64
	cost    model.Price
}

func betterSolution(a, b *relaxedSolution) bool {
	if a.val != b.val {
		return a.val > b.val
	}
	return a.cost < b.cost
}

type exactState struct {
	pr        *problem
	stateLim  int
	nodeLim   int
	maxB      int
	nodes     int
	best      *relaxedSolution
	bannedBuf map[string]struct{}
}

func (s *Selector) solveExact(ctx context.Context, pr *problem) ([]model.Candidate, error) {
	es := &exactState{
		pr:        pr,
		stateLim:  s.stateLimit,
		nodeLim:   s.nodeLimit,
		maxB:      usefulBudget(pr),
		bannedBuf: make(map[string]struct{}),
	}
	if err := es.search(ctx); err != nil {
		return nil, err
	}
	if es.best == nil {
		return nil, &InfeasibleError{
			Binding: BindingGroupCap,
			Reason:  "no quota-satisfying combination respects the per-group cap",
		}
	}
	members := make([]model.Candidate, 0, model.RosterSize)
	members = append(members, pr.pinned...)
	members = append(members, es.best.members...)
	return members, nil
}

// usefulBudget clamps the budget axis: spending beyond the priciest
// quota-filling combination buys nothing, so the axis never exceeds it.
// This keeps table sizes finite for arbitrarily large request budgets.
func usefulBudget(pr *problem) int {
	var maxCost model.Price
	for i := range pr.pool {
		prices := make([]model.Price, 0, len(pr.pool[i]))
		for _, c := range pr.pool[i] {
			prices = append(prices, c.Price)
		}
		sort.Slice(prices, func(a, b int) bool { return prices[a] > prices[b] })
		need := pr.quotas[i]
		if need > len(prices) {
			need = len(prices)
		}
		for _, p := range prices[:need] {
			maxCost += p
		}
	}
	if maxCost < pr.budget {
		return int(maxCost)
	}
	return int(pr.budget)
}

func (es *exactState) search(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("exact search canceled: %w", err)
	}
	es.nodes++
	if es.nodes > es.nodeLim {
		return errLimitExceeded
	}

	relaxed, feasible, err := es.relax()
	if err != nil {
		return err
	}
	if !feasible {
		return nil // nothing quota-satisfying under these bans
	}
	if es.best != nil && !betterSolution(relaxed, es.best) {
		return nil // bound: the relaxation cannot beat the incumbent
	}

	group, offenders := es.firstViolatedGroup(relaxed.members)
	if group == "" {
		es.best = relaxed
		return nil
	}

	// Any feasible roster in this branch omits at least one member of the
	// violated group; branch on each, in id order for determinism.
	for _, off := range offenders {
		es.bannedBuf[off.ID] = struct{}{}
		err := es.search(ctx)
		delete(es.bannedBuf, off.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// relax solves the group-cap-relaxed problem under the current ban set.
func (es *exactState) relax() (*relaxedSolution, bool, error) {
	width := es.maxB + 1
	tables := make([]*posTable, len(es.pr.pool))
	var states int
	for i := range es.pr.pool {
		items := make([]model.Candidate, 0, len(es.pr.pool[i]))
		for _, c := range es.pr.pool[i] {
			if _, banned := es.bannedBuf[c.ID]; banned {
				continue
			}
			items = append(items, c)
		}
		if len(items) < es.pr.quotas[i] {
			return nil, false, nil
		}
		states += len(items) * (es.pr.quotas[i] + 1) * width
		if states > es.stateLim {
			return nil, false, errLimitExceeded
		}
		tables[i] = buildPosTable(items, es.pr.quotas[i], es.maxB)
	}

	// Join positions by enumerating budget splits. split[p][b] records the
	// budget granted to position p when b is available to positions 0..p.
	g := make([]dpCell, width)
	for b := 0; b < width; b++ {
		g[b] = tables[0].cell(tables[0].k, b)
	}
	split := make([][]int, len(tables))
	for p := 1; p < len(tables); p++ {
		split[p] = make([]int, width)
		ng := make([]dpCell, width)
		for b := 0; b < width; b++ {
			for s := 0; s <= b; s++ {
				left, right := g[b-s], tables[p].cell(tables[p].k, s)
				if !left.ok || !right.ok {
					continue
				}
				cand := dpCell{val: left.val + right.val, cost: left.cost + right.cost, ok: true}
				if !ng[b].ok || betterCell(cand, ng[b]) {
					ng[b] = cand
					split[p][b] = s
				}
			}
		}
		g = ng
	}
	total := g[es.maxB]
	if !total.ok {
		return nil, false, nil
	}

	members := make([]model.Candidate, 0, model.RosterSize)
	b := es.maxB
	for p := len(tables) - 1; p >= 1; p-- {
		s := split[p][b]
		members = append(members, tables[p].reconstruct(s)...)
		b -= s
	}
	members = append(members, tables[0].reconstruct(b)...)
	return &relaxedSolution{members: members, val: total.val, cost: total.cost}, true, nil
}

// firstViolatedGroup returns the lowest group id whose members (pinned plus
// selected) exceed the cap, with the selected offenders in id order.
func (es *exactState) firstViolatedGroup(members []model.Candidate) (string, []model.Candidate) {
	counts := groupCounts(members)
	var violated []string
	for g, n := range counts {
		room, _ := es.pr.room(g)
		if n > room {
			violated = append(violated, g)
		}
	}
	if len(violated) == 0 {
		return "", nil
	}
	sort.Strings(violated)
	g := violated[0]
	var offenders []model.Candidate
	for _, c := range members {
		if c.GroupID == g {
			offenders = append(offenders, c)
		}
	}
	sort.Slice(offenders, func(i, j int) bool { return offenders[i].ID < offenders[j].ID })
	return g, offenders
}
