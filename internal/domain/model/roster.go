package model

import "sort"

// Roster is the selected 15-member squad with derived totals. Members are
// ordered by position then id, so equal selections compare byte-identical.
type Roster struct {
	Members        []Candidate `json:"members"`
	TotalPrice     Price       `json:"total_price"`
	TotalProjected float64     `json:"total_projected"`
}

// NewRoster normalizes the member ordering and computes totals.
func NewRoster(members []Candidate) Roster {
	ms := make([]Candidate, len(members))
	copy(ms, members)
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Position != ms[j].Position {
			return ms[i].Position < ms[j].Position
		}
		return ms[i].ID < ms[j].ID
	})
	var price Price
	var projected float64
	for _, m := range ms {
		price += m.Price
		projected += m.Projected
	}
	return Roster{Members: ms, TotalPrice: price, TotalProjected: projected}
}

// PositionCounts returns the member count per position in canonical order.
func (r Roster) PositionCounts() [4]int {
	var out [4]int
	for _, m := range r.Members {
		out[m.Position]++
	}
	return out
}

// GroupCounts returns the member count per group id.
func (r Roster) GroupCounts() map[string]int {
	out := make(map[string]int)
	for _, m := range r.Members {
		out[m.GroupID]++
	}
	return out
}

// Contains reports whether a candidate id is part of the roster.
func (r Roster) Contains(id string) bool {
	for _, m := range r.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ByPosition returns the roster members of one position ordered by id.
func (r Roster) ByPosition(p Position) []Candidate {
	var out []Candidate
	for _, m := range r.Members {
		if m.Position == p {
			out = append(out, m)
		}
	}
	return out
}

// Lineup is the starting eleven derived from a roster: starters matching a
// formation, a captain among them, and the remaining four as an ordered
// bench with the reserve goalkeeper first.
type Lineup struct {
	Formation Formation   `json:"formation"`
	Starters  []Candidate `json:"starters"`
	CaptainID string      `json:"captain_id"`
	Bench     []Candidate `json:"bench"`
}
