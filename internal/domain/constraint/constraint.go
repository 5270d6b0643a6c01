// Package constraint normalizes and validates raw optimization requests
// into immutable constraint specs. Validation is fail-fast: the first
// violated field is reported and no search ever runs on a malformed request.
package constraint

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Per-group cap bounds. The default matches the common league rule of at
// most three candidates per club.
const (
	DefaultMaxPerGroup = 3
	minGroupCap        = 1
	maxGroupCap        = model.RosterSize
)

// Request carries the raw, untrusted optimization request fields.
type Request struct {
	Budget      float64         `json:"budget"`
	Formation   model.Formation `json:"formation"`
	RequiredIDs []string        `json:"required_ids,omitempty"`
	ExcludedIDs []string        `json:"excluded_ids,omitempty"`
	// MaxPerGroup overrides the per-group cap; zero means the default.
	MaxPerGroup int `json:"max_per_group,omitempty"`
}

// Spec is a validated, immutable constraint set. Construct only via
// Validate; the zero value is not meaningful.
type Spec struct {
	budget      model.Price
	formation   model.Formation
	required    []string
	excluded    []string
	maxPerGroup int
}

// Validate checks the request fields in order and returns an immutable
// Spec, or an *InvalidConstraintError naming the first violated field.
func Validate(req Request) (Spec, error) {
	if req.Budget <= 0 {
		return Spec{}, &InvalidConstraintError{Field: "budget", Reason: "must be positive"}
	}
	if !req.Formation.Valid() {
		return Spec{}, &InvalidConstraintError{
			Field:  "formation",
			Reason: "counts must be defenders 3-5, midfielders 2-5, forwards 1-3 and sum to 10",
		}
	}

	required := normalizeIDs(req.RequiredIDs)
	excluded := normalizeIDs(req.ExcludedIDs)
	if len(required) > model.RosterSize {
		return Spec{}, &InvalidConstraintError{Field: "required_ids", Reason: "more ids than roster slots"}
	}
	if id, ok := firstOverlap(required, excluded); ok {
		return Spec{}, &InvalidConstraintError{
			Field:  "required_ids",
			Reason: "id " + id + " is both required and excluded",
		}
	}

	groupCap := req.MaxPerGroup
	if groupCap == 0 {
		groupCap = DefaultMaxPerGroup
	}
	if groupCap < minGroupCap || groupCap > maxGroupCap {
		return Spec{}, &InvalidConstraintError{Field: "max_per_group", Reason: "must be between 1 and 15"}
	}

	return Spec{
		budget:      model.PriceFromFloat(req.Budget),
		formation:   req.Formation,
		required:    required,
		excluded:    excluded,
		maxPerGroup: groupCap,
	}, nil
}

// Budget returns the budget in fixed-point tenths.
func (s Spec) Budget() model.Price { return s.budget }

// Formation returns the requested starting formation.
func (s Spec) Formation() model.Formation { return s.formation }

// Required returns the required candidate ids, sorted and deduplicated.
// Callers must not mutate the returned slice.
func (s Spec) Required() []string { return s.required }

// Excluded returns the excluded candidate ids, sorted and deduplicated.
func (s Spec) Excluded() []string { return s.excluded }

// MaxPerGroup returns the per-group roster cap.
func (s Spec) MaxPerGroup() int { return s.maxPerGroup }

// IsRequired reports whether an id is in the required set.
func (s Spec) IsRequired(id string) bool { return contains(s.required, id) }

// IsExcluded reports whether an id is in the excluded set.
func (s Spec) IsExcluded(id string) bool { return contains(s.excluded, id) }

// Key returns a canonical string identity for the spec. Together with a
// catalog version it keys cached results; equal specs always render the
// same key.
func (s Spec) Key() string {
	var b strings.Builder
	b.WriteString("b=")
	b.WriteString(s.budget.String())
	b.WriteString(";f=")
	b.WriteString(s.formation.String())
	b.WriteString(";g=")
	b.WriteString(strconv.Itoa(s.maxPerGroup))
	b.WriteString(";r=")
	b.WriteString(strings.Join(s.required, ","))
	b.WriteString(";x=")
	b.WriteString(strings.Join(s.excluded, ","))
	return b.String()
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func firstOverlap(a, b []string) (string, bool) {
	for _, id := range a {
		if contains(b, id) {
			return id, true
		}
	}
	return "", false
}

func contains(sorted []string, id string) bool {
	i := sort.SearchStrings(sorted, id)
	return i < len(sorted) && sorted[i] == id
}
