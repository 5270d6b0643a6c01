package model

import (
	"fmt"
	"sort"
)

// Catalog is an immutable, versioned snapshot of all selectable candidates.
// A refresh produces a whole new Catalog under a new version; in-flight
// computations keep their reference and stay consistent.
type Catalog struct {
	version    string
	candidates []Candidate
	groups     []Group
	byID       map[string]int
	byPosition [positionCount][]Candidate
}

// NewCatalog builds a snapshot from the provider's candidate list. The list
// is copied and ordered by id so identical inputs always produce identical
// iteration order. Duplicate ids and non-positive prices are rejected.
func NewCatalog(version string, candidates []Candidate, groups []Group) (*Catalog, error) {
	if version == "" {
		return nil, fmt.Errorf("catalog version must not be empty")
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("catalog has no candidates")
	}
	cs := make([]Candidate, len(candidates))
	copy(cs, candidates)
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })

	byID := make(map[string]int, len(cs))
	var byPos [positionCount][]Candidate
	for i, c := range cs {
		if c.ID == "" {
			return nil, fmt.Errorf("candidate %q has empty id", c.Name)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		if c.Price <= 0 {
			return nil, fmt.Errorf("candidate %q has non-positive price %s", c.ID, c.Price)
		}
		if int(c.Position) >= positionCount {
			return nil, fmt.Errorf("candidate %q has unknown position", c.ID)
		}
		byID[c.ID] = i
		byPos[c.Position] = append(byPos[c.Position], c)
	}

	gs := make([]Group, len(groups))
	copy(gs, groups)
	sort.Slice(gs, func(i, j int) bool { return gs[i].ID < gs[j].ID })

	return &Catalog{
		version:    version,
		candidates: cs,
		groups:     gs,
		byID:       byID,
		byPosition: byPos,
	}, nil
}

// Version returns the opaque snapshot version token.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of candidates in the snapshot.
func (c *Catalog) Len() int { return len(c.candidates) }

// Candidates returns all candidates ordered by id. Callers must not mutate
// the returned slice.
func (c *Catalog) Candidates() []Candidate { return c.candidates }

// Groups returns the group directory ordered by id.
func (c *Catalog) Groups() []Group { return c.groups }

// Lookup returns the candidate with the given id.
func (c *Catalog) Lookup(id string) (Candidate, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Candidate{}, false
	}
	return c.candidates[i], true
}

// ByPosition returns the candidates of one position ordered by id.
func (c *Catalog) ByPosition(p Position) []Candidate {
	if int(p) >= positionCount {
		return nil
	}
	return c.byPosition[p]
}

// PositionCounts returns the candidate count per position in canonical order.
func (c *Catalog) PositionCounts() [4]int {
	var out [4]int
	for i := range c.byPosition {
		out[i] = len(c.byPosition[i])
	}
	return out
}
