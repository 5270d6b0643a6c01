package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Formation range limits. One goalkeeper always starts, so the outfield
// triple must sum to ten.
const (
	MinDefenders   = 3
	MaxDefenders   = 5
	MinMidfielders = 2
	MaxMidfielders = 5
	MinForwards    = 1
	MaxForwards    = 3

	outfieldStarters = StartersCnt - 1
)

// Formation is the starting-lineup shape: defender, midfielder and forward
// counts. The goalkeeper count is implicitly one.
type Formation struct {
	Defenders   int `json:"defenders"`
	Midfielders int `json:"midfielders"`
	Forwards    int `json:"forwards"`
}

// Valid reports whether each count is within range and the triple sums to
// the ten outfield starters.
func (f Formation) Valid() bool {
	return f.Defenders >= MinDefenders && f.Defenders <= MaxDefenders &&
		f.Midfielders >= MinMidfielders && f.Midfielders <= MaxMidfielders &&
		f.Forwards >= MinForwards && f.Forwards <= MaxForwards &&
		f.Defenders+f.Midfielders+f.Forwards == outfieldStarters
}

// Starters returns the starting count for a position under this formation.
func (f Formation) Starters(p Position) int {
	switch p {
	case Goalkeeper:
		return 1
	case Defender:
		return f.Defenders
	case Midfielder:
		return f.Midfielders
	case Forward:
		return f.Forwards
	}
	return 0
}

// String renders the common "3-4-3" notation.
func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Defenders, f.Midfielders, f.Forwards)
}

// ParseFormation parses "D-M-F" notation, e.g. "3-4-3".
func ParseFormation(s string) (Formation, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Formation{}, fmt.Errorf("formation %q: want D-M-F", s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Formation{}, fmt.Errorf("formation %q: %w", s, err)
		}
		n[i] = v
	}
	return Formation{Defenders: n[0], Midfielders: n[1], Forwards: n[2]}, nil
}
