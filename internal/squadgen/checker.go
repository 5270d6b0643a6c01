package squadgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/dugout-io/dugout/internal/adapters/catalog"
	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/lineup"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
)

// CheckReport summarizes one catalog verification run.
type CheckReport struct {
	CatalogSize int
	Checked     int
	Infeasible  int
	Problems    []string
}

// Ok reports whether the run found no problems.
func (r CheckReport) Ok() bool { return len(r.Problems) == 0 }

// Check loads a catalog file and runs the engine over a set of formations
// in both modes, verifying roster legality, determinism, and that the
// heuristic never beats the exact optimum.
func Check(ctx context.Context, path string, budget float64, formations []model.Formation) (CheckReport, error) {
	cat, err := catalog.NewFileProvider(path).Load(ctx)
	if err != nil {
		return CheckReport{}, fmt.Errorf("load catalog: %w", err)
	}

	report := CheckReport{CatalogSize: cat.Len()}
	sel := optimizer.New()

	for _, f := range formations {
		spec, verr := constraint.Validate(constraint.Request{Budget: budget, Formation: f})
		if verr != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", f, verr))
			continue
		}
		report.Checked++

		exact, eerr := sel.SelectWithMode(ctx, cat, spec, optimizer.ModeExact)
		heur, herr := sel.SelectWithMode(ctx, cat, spec, optimizer.ModeHeuristic)

		if errors.Is(eerr, optimizer.ErrInfeasible) && errors.Is(herr, optimizer.ErrInfeasible) {
			report.Infeasible++
			continue
		}
		if eerr != nil || herr != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: exact=%v heuristic=%v", f, eerr, herr))
			continue
		}

		for _, p := range []struct {
			name string
			sel  optimizer.Selection
		}{{"exact", exact}, {"heuristic", heur}} {
			if msg := verifyRoster(cat, spec, p.sel.Roster); msg != "" {
				report.Problems = append(report.Problems, fmt.Sprintf("%s %s: %s", f, p.name, msg))
			}
			if _, lerr := lineup.Derive(p.sel.Roster, f); lerr != nil {
				report.Problems = append(report.Problems, fmt.Sprintf("%s %s: lineup: %v", f, p.name, lerr))
			}
		}

		if !exact.Fallback && heur.Roster.TotalProjected > exact.Roster.TotalProjected {
			report.Problems = append(report.Problems,
				fmt.Sprintf("%s: heuristic total %.3f exceeds exact total %.3f",
					f, heur.Roster.TotalProjected, exact.Roster.TotalProjected))
		}

		// Same inputs twice must produce the same roster.
		again, aerr := sel.SelectWithMode(ctx, cat, spec, optimizer.ModeHeuristic)
		if aerr != nil || !sameMembers(heur.Roster, again.Roster) {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: heuristic result not deterministic", f))
		}
	}

	return report, nil
}

func verifyRoster(cat *model.Catalog, spec constraint.Spec, r model.Roster) string {
	if len(r.Members) != model.RosterSize {
		return fmt.Sprintf("roster has %d members", len(r.Members))
	}
	if r.TotalPrice > spec.Budget() {
		return fmt.Sprintf("total price %s exceeds budget %s", r.TotalPrice, spec.Budget())
	}
	counts := r.PositionCounts()
	for pos := model.Goalkeeper; pos <= model.Forward; pos++ {
		if counts[pos] != pos.Quota() {
			return fmt.Sprintf("%s count %d, want %d", pos, counts[pos], pos.Quota())
		}
	}
	for groupID, n := range r.GroupCounts() {
		if n > spec.MaxPerGroup() {
			return fmt.Sprintf("group %s has %d members, cap %d", groupID, n, spec.MaxPerGroup())
		}
	}
	for _, m := range r.Members {
		if _, ok := cat.Lookup(m.ID); !ok {
			return fmt.Sprintf("member %s not in catalog", m.ID)
		}
	}
	return ""
}

func sameMembers(a, b model.Roster) bool {
	if len(a.Members) != len(b.Members) {
		return false
	}
	for i := range a.Members {
		if a.Members[i].ID != b.Members[i].ID {
			return false
		}
	}
	return true
}
