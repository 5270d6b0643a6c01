package optimizer

import (
	"sort"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Heuristic mode: rank the eligible pool by projected value per unit of
// price and admit greedily while the position quota, the group cap, and the
// budget all permit. An admission is also rejected when it would leave too
// little budget to fill the remaining quota slots at their cheapest. A
// cheapest-first repair pass fills anything still open.
//
// A greedy pass can wedge itself: high-ratio picks saturate a group's cap
// and leave a later quota slot with only blocked candidates. When that
// happens the lowest-ratio groupmate of the cheapest blocked candidate is
// banned and the whole greedy run restarts. Each restart bans one more
// candidate, so the loop terminates after at most pool-size attempts.
// Deterministic but not guaranteed optimal.
func solveHeuristic(pr *problem) ([]model.Candidate, error) {
	ranked := make([]model.Candidate, 0, pr.poolSize())
	for i := range pr.pool {
		ranked = append(ranked, pr.pool[i]...)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ri, rj := ranked[i].Ratio(), ranked[j].Ratio()
		if ri != rj {
			return ri > rj
		}
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].ID < ranked[j].ID
	})
	cheap := make([]model.Candidate, len(ranked))
	copy(cheap, ranked)
	sort.Slice(cheap, func(i, j int) bool {
		if cheap[i].Price != cheap[j].Price {
			return cheap[i].Price < cheap[j].Price
		}
		if cheap[i].Projected != cheap[j].Projected {
			return cheap[i].Projected > cheap[j].Projected
		}
		return cheap[i].ID < cheap[j].ID
	})

	banned := make(map[string]struct{})
	for attempt := 0; attempt <= len(ranked); attempt++ {
		st := newGreedyState(pr, banned)
		for _, c := range ranked {
			if st.full() {
				break
			}
			st.tryAdmit(pr, c)
		}
		if !st.full() {
			// The ratio order can strand expensive slots; fill the
			// remainder cheapest-first.
			for _, c := range cheap {
				if st.full() {
					break
				}
				st.tryAdmit(pr, c)
			}
		}
		if st.full() {
			members := make([]model.Candidate, 0, model.RosterSize)
			members = append(members, pr.pinned...)
			members = append(members, st.chosen...)
			return members, nil
		}

		victim, ok := st.blockingVictim(pr, cheap)
		if !ok {
			break
		}
		banned[victim.ID] = struct{}{}
	}
	return nil, &InfeasibleError{
		Binding: BindingGroupCap,
		Reason:  "greedy selection could not fill every quota slot under the group cap and budget",
	}
}

type greedyState struct {
	chosen    []model.Candidate
	chosenIDs map[string]struct{}
	banned    map[string]struct{}
	need      [4]int
	groupUsed map[string]int
	budget    model.Price
}

func newGreedyState(pr *problem, banned map[string]struct{}) *greedyState {
	return &greedyState{
		chosenIDs: make(map[string]struct{}),
		banned:    banned,
		need:      pr.quotas,
		groupUsed: make(map[string]int),
		budget:    pr.budget,
	}
}

func (st *greedyState) full() bool {
	return st.need[0] == 0 && st.need[1] == 0 && st.need[2] == 0 && st.need[3] == 0
}

func (st *greedyState) tryAdmit(pr *problem, c model.Candidate) {
	if _, taken := st.chosenIDs[c.ID]; taken {
		return
	}
	if _, out := st.banned[c.ID]; out {
		return
	}
	if st.need[c.Position] == 0 {
		return
	}
	if st.groupBlocked(pr, c) {
		return
	}
	if c.Price > st.budget {
		return
	}
	// Keep enough budget to finish: after taking c, the cheapest fill of
	// the remaining slots must still be affordable.
	remaining := st.budget - c.Price
	if st.minFillAfter(pr, c) > remaining {
		return
	}

	st.chosen = append(st.chosen, c)
	st.chosenIDs[c.ID] = struct{}{}
	st.need[c.Position]--
	st.groupUsed[c.GroupID]++
	st.budget = remaining
}

func (st *greedyState) groupBlocked(pr *problem, c model.Candidate) bool {
	room, _ := pr.room(c.GroupID)
	return st.groupUsed[c.GroupID] >= room
}

// blockingVictim locates the wedge after a failed run: the cheapest
// candidate for an open position that only the group cap keeps out, and
// among that group's chosen members the one contributing the least value
// per price. Banning the victim lets the next run route around the group.
func (st *greedyState) blockingVictim(pr *problem, cheap []model.Candidate) (model.Candidate, bool) {
	for _, c := range cheap {
		if st.need[c.Position] == 0 {
			continue
		}
		if _, taken := st.chosenIDs[c.ID]; taken {
			continue
		}
		if _, out := st.banned[c.ID]; out {
			continue
		}
		if !st.groupBlocked(pr, c) {
			continue
		}
		victim, ok := st.lowestRatioInGroup(c.GroupID)
		if ok {
			return victim, true
		}
	}
	return model.Candidate{}, false
}

func (st *greedyState) lowestRatioInGroup(groupID string) (model.Candidate, bool) {
	var best model.Candidate
	found := false
	for _, m := range st.chosen {
		if m.GroupID != groupID {
			continue
		}
		if !found || lowerRatio(m, best) {
			best = m
			found = true
		}
	}
	return best, found
}

// lowerRatio orders eviction victims: least value per price first, then the
// pricier one (freeing more budget), then lower id.
func lowerRatio(a, b model.Candidate) bool {
	ra, rb := a.Ratio(), b.Ratio()
	if ra != rb {
		return ra < rb
	}
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.ID < b.ID
}

// minFillAfter is the cheapest completion cost for all slots still open
// after tentatively admitting c, ignoring group caps (a lower bound).
func (st *greedyState) minFillAfter(pr *problem, c model.Candidate) model.Price {
	var total model.Price
	for i := range pr.pool {
		need := st.need[i]
		if model.Position(i) == c.Position {
			need--
		}
		if need <= 0 {
			continue
		}
		found := 0
		// Pool slices are value-ordered; collect prices and take the
		// cheapest. Pools are small enough that re-sorting per admission
		// stays cheap.
		prices := make([]model.Price, 0, len(pr.pool[i]))
		for _, cand := range pr.pool[i] {
			if cand.ID == c.ID {
				continue
			}
			if _, taken := st.chosenIDs[cand.ID]; taken {
				continue
			}
			if _, out := st.banned[cand.ID]; out {
				continue
			}
			prices = append(prices, cand.Price)
		}
		sort.Slice(prices, func(a, b int) bool { return prices[a] < prices[b] })
		for _, p := range prices {
			if found == need {
				break
			}
			total += p
			found++
		}
		if found < need {
			return pr.budget + 1 // cannot complete at all
		}
	}
	return total
}

func (pr *problem) poolSize() int {
	var n int
	for i := range pr.pool {
		n += len(pr.pool[i])
	}
	return n
}
