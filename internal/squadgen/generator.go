// Package squadgen builds synthetic candidate catalogs for local runs and
// load testing, and sanity-checks existing catalogs against the engine.
package squadgen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Default generation shape: enough depth per position to make every legal
// formation satisfiable several times over.
const (
	defaultGroups      = 20
	defaultGoalkeepers = 40
	defaultDefenders   = 100
	defaultMidfielders = 100
	defaultForwards    = 60
)

// Params shape a generated catalog. Zero fields fall back to defaults.
type Params struct {
	Seed        int64
	Groups      int
	Goalkeepers int
	Defenders   int
	Midfielders int
	Forwards    int
}

func (p *Params) fill() {
	if p.Groups <= 0 {
		p.Groups = defaultGroups
	}
	if p.Goalkeepers <= 0 {
		p.Goalkeepers = defaultGoalkeepers
	}
	if p.Defenders <= 0 {
		p.Defenders = defaultDefenders
	}
	if p.Midfielders <= 0 {
		p.Midfielders = defaultMidfielders
	}
	if p.Forwards <= 0 {
		p.Forwards = defaultForwards
	}
}

// snapshot mirrors the JSON layout the catalog file provider reads.
type snapshot struct {
	Candidates []model.Candidate `json:"candidates"`
	Groups     []model.Group     `json:"groups"`
}

// priceRange bounds generated prices per position, in tenths.
type priceRange struct {
	lo, hi model.Price
}

var priceRanges = [4]priceRange{
	model.Goalkeeper: {lo: 40, hi: 60},
	model.Defender:   {lo: 40, hi: 75},
	model.Midfielder: {lo: 45, hi: 130},
	model.Forward:    {lo: 45, hi: 150},
}

// Generate builds a deterministic synthetic catalog: same params, same
// catalog.
func Generate(p Params) ([]model.Candidate, []model.Group) {
	p.fill()
	rng := rand.New(rand.NewSource(p.Seed))

	groups := make([]model.Group, p.Groups)
	for i := range groups {
		groups[i] = model.Group{
			ID:   fmt.Sprintf("club-%02d", i+1),
			Name: fmt.Sprintf("Club %02d", i+1),
		}
	}

	counts := [4]int{
		model.Goalkeeper: p.Goalkeepers,
		model.Defender:   p.Defenders,
		model.Midfielder: p.Midfielders,
		model.Forward:    p.Forwards,
	}

	var candidates []model.Candidate
	serial := 0
	for pos := model.Goalkeeper; pos <= model.Forward; pos++ {
		for i := 0; i < counts[pos]; i++ {
			serial++
			pr := priceRanges[pos]
			price := pr.lo + model.Price(rng.Intn(int(pr.hi-pr.lo)+1))

			// Projected value tracks price with noise, so cheap bargains
			// and expensive busts both occur.
			base := float64(price) / 10.0
			projected := base*rng.Float64()*1.5 + rng.Float64()*2.0

			candidates = append(candidates, model.Candidate{
				ID:          fmt.Sprintf("cand-%04d", serial),
				Name:        fmt.Sprintf("Player %04d", serial),
				GroupID:     groups[rng.Intn(len(groups))].ID,
				Position:    pos,
				Price:       price,
				Projected:   projected,
				Unavailable: rng.Float64() < 0.05,
			})
		}
	}

	return candidates, groups
}

// WriteFile generates a catalog and writes it as a snapshot JSON file.
func WriteFile(path string, p Params) error {
	candidates, groups := Generate(p)
	snap := snapshot{Candidates: candidates, Groups: groups}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
