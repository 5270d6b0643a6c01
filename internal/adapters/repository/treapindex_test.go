package repository_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/dugout-io/dugout/internal/adapters/repository"
	"github.com/dugout-io/dugout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func buildCatalog(n int, seed int64) *model.Catalog {
	rng := rand.New(rand.NewSource(seed))
	candidates := make([]model.Candidate, n)
	for i := range candidates {
		candidates[i] = model.Candidate{
			ID:        fmt.Sprintf("cand-%03d", i),
			Position:  model.Position(i % 4),
			Price:     model.Price(40 + rng.Intn(100)),
			Projected: rng.Float64() * 10,
		}
	}
	cat, err := model.NewCatalog("idx-v1", candidates, nil)
	if err != nil {
		panic(err)
	}
	return cat
}

func TestTopN(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(200, 7)
	idx := repository.NewTreapIndex(cat)

	// Reference ordering: projected desc, id asc.
	sorted := append([]model.Candidate{}, cat.Candidates()...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Projected != sorted[j].Projected {
			return sorted[i].Projected > sorted[j].Projected
		}
		return sorted[i].ID < sorted[j].ID
	})

	Convey("Given a populated index", t, func() {
		So(idx.Count(ctx), ShouldEqual, 200)
		So(idx.Version(), ShouldEqual, "idx-v1")

		Convey("Then TopN returns the best candidates in rank order", func() {
			entries, err := idx.TopN(ctx, 25)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 25)
			for i, e := range entries {
				So(e.Rank, ShouldEqual, i+1)
				So(e.ID, ShouldEqual, sorted[i].ID)
			}
		})

		Convey("Then TopN beyond the population returns everything", func() {
			entries, err := idx.TopN(ctx, 500)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 200)
		})

		Convey("Then a non-positive limit is rejected", func() {
			_, err := idx.TopN(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestRank(t *testing.T) {
	ctx := context.Background()
	cat := buildCatalog(150, 11)
	idx := repository.NewTreapIndex(cat)

	Convey("Given a populated index", t, func() {
		Convey("Then every candidate's rank agrees with the full ordering", func() {
			all, err := idx.TopN(ctx, 150)
			So(err, ShouldBeNil)

			for i := 0; i < 150; i += 17 {
				e, rerr := idx.Rank(ctx, all[i].ID)
				So(rerr, ShouldBeNil)
				So(e.Rank, ShouldEqual, i+1)
				So(e.Projected, ShouldEqual, all[i].Projected)
			}
		})

		Convey("Then unknown ids report not found", func() {
			_, err := idx.Rank(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
