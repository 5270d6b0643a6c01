// Package model contains the immutable domain values passed between the
// engine components: candidates, catalogs, formations, rosters and lineups.
package model

import (
	"fmt"
	"math"
	"strconv"
)

// Position is one of the four mutually exclusive candidate roles.
type Position uint8

const (
	Goalkeeper Position = iota
	Defender
	Midfielder
	Forward

	positionCount = 4
)

// Fixed roster quotas per position (2/5/5/3, 15 total).
const (
	GoalkeeperQuota = 2
	DefenderQuota   = 5
	MidfielderQuota = 5
	ForwardQuota    = 3

	RosterSize  = GoalkeeperQuota + DefenderQuota + MidfielderQuota + ForwardQuota
	StartersCnt = 11
	BenchSize   = RosterSize - StartersCnt
)

// Positions lists all positions in canonical order.
func Positions() [4]Position {
	return [4]Position{Goalkeeper, Defender, Midfielder, Forward}
}

// Quota returns the fixed roster quota for the position.
func (p Position) Quota() int {
	switch p {
	case Goalkeeper:
		return GoalkeeperQuota
	case Defender:
		return DefenderQuota
	case Midfielder:
		return MidfielderQuota
	case Forward:
		return ForwardQuota
	}
	return 0
}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "goalkeeper"
	case Defender:
		return "defender"
	case Midfielder:
		return "midfielder"
	case Forward:
		return "forward"
	}
	return "unknown"
}

// ParsePosition parses the canonical lowercase position names.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "goalkeeper":
		return Goalkeeper, nil
	case "defender":
		return Defender, nil
	case "midfielder":
		return Midfielder, nil
	case "forward":
		return Forward, nil
	}
	return 0, fmt.Errorf("unknown position %q", s)
}

// MarshalText implements encoding.TextMarshaler for JSON catalogs.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Price is a fixed-point amount in tenths of a unit. Prices in the feed
// carry one decimal place (e.g. 12.5), so tenths represent them exactly.
type Price int

// PriceFromFloat converts a decimal amount to tenths, rounding half away
// from zero.
func PriceFromFloat(v float64) Price {
	return Price(math.Round(v * 10))
}

// Float returns the decimal amount.
func (p Price) Float() float64 { return float64(p) / 10 }

// String renders the amount with one decimal place.
func (p Price) String() string {
	return strconv.FormatFloat(p.Float(), 'f', 1, 64)
}

// MarshalJSON renders the price as a decimal number.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a decimal number with up to one decimal place.
func (p *Price) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", b, err)
	}
	*p = PriceFromFloat(v)
	return nil
}

// Candidate is a selectable athlete. Candidates are created by the catalog
// provider and never mutated by the engine.
type Candidate struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	GroupID     string   `json:"group_id"`
	Position    Position `json:"position"`
	Price       Price    `json:"price"`
	Projected   float64  `json:"projected"`
	Unavailable bool     `json:"unavailable,omitempty"`
}

// Ratio returns projected value per unit of price. Zero-priced candidates
// do not occur in valid catalogs; the guard keeps the math finite anyway.
func (c Candidate) Ratio() float64 {
	if c.Price <= 0 {
		return 0
	}
	return c.Projected / c.Price.Float()
}

// Group is an affiliation (club) candidates belong to. Roster selections
// are capped per group.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
