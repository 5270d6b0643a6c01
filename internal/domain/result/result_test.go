package result_test

import (
	"context"
	"testing"

	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/lineup"
	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
	"github.com/dugout-io/dugout/internal/domain/result"
	. "github.com/smartystreets/goconvey/convey"
)

func testCatalog() *model.Catalog {
	candidates := []model.Candidate{
		{ID: "gk1", GroupID: "a", Position: model.Goalkeeper, Price: 45, Projected: 3.2},
		{ID: "gk2", GroupID: "b", Position: model.Goalkeeper, Price: 50, Projected: 4.0},
		{ID: "gk3", GroupID: "c", Position: model.Goalkeeper, Price: 40, Projected: 2.5},
		{ID: "d1", GroupID: "a", Position: model.Defender, Price: 75, Projected: 5.5},
		{ID: "d2", GroupID: "a", Position: model.Defender, Price: 60, Projected: 4.8},
		{ID: "d3", GroupID: "b", Position: model.Defender, Price: 55, Projected: 4.1},
		{ID: "d4", GroupID: "c", Position: model.Defender, Price: 50, Projected: 3.6},
		{ID: "d5", GroupID: "d", Position: model.Defender, Price: 45, Projected: 3.0},
		{ID: "d6", GroupID: "d", Position: model.Defender, Price: 42, Projected: 2.4},
		{ID: "d7", GroupID: "e", Position: model.Defender, Price: 40, Projected: 0.4},
		{ID: "m1", GroupID: "a", Position: model.Midfielder, Price: 130, Projected: 9.1},
		{ID: "m2", GroupID: "b", Position: model.Midfielder, Price: 105, Projected: 7.6},
		{ID: "m3", GroupID: "b", Position: model.Midfielder, Price: 85, Projected: 6.2},
		{ID: "m4", GroupID: "c", Position: model.Midfielder, Price: 70, Projected: 5.0},
		{ID: "m5", GroupID: "d", Position: model.Midfielder, Price: 55, Projected: 3.8},
		{ID: "m6", GroupID: "e", Position: model.Midfielder, Price: 48, Projected: 2.9},
		{ID: "m7", GroupID: "e", Position: model.Midfielder, Price: 45, Projected: 2.2},
		{ID: "f1", GroupID: "a", Position: model.Forward, Price: 150, Projected: 10.4},
		{ID: "f2", GroupID: "b", Position: model.Forward, Price: 95, Projected: 6.8},
		{ID: "f3", GroupID: "d", Position: model.Forward, Price: 60, Projected: 4.3},
		{ID: "f4", GroupID: "e", Position: model.Forward, Price: 45, Projected: 2.8},
	}
	cat, err := model.NewCatalog("res-v1", candidates, nil)
	if err != nil {
		panic(err)
	}
	return cat
}

func TestAssemble(t *testing.T) {
	cat := testCatalog()
	spec, err := constraint.Validate(constraint.Request{
		Budget:      120.0,
		Formation:   model.Formation{Defenders: 4, Midfielders: 4, Forwards: 2},
		RequiredIDs: []string{"d7"},
	})
	if err != nil {
		t.Fatal(err)
	}

	sel, err := optimizer.New().SelectWithMode(context.Background(), cat, spec, optimizer.ModeExact)
	if err != nil {
		t.Fatal(err)
	}
	lu, err := lineup.Derive(sel.Roster, spec.Formation())
	if err != nil {
		t.Fatal(err)
	}

	Convey("Given an assembled result", t, func() {
		res := result.Assemble(cat, spec, sel, lu)

		Convey("Then identity fields carry through", func() {
			So(res.CatalogVersion, ShouldEqual, "res-v1")
			So(res.Mode, ShouldEqual, "exact")
			So(res.Fallback, ShouldBeFalse)
			So(res.Formation, ShouldResemble, spec.Formation())
		})

		Convey("Then there is one pick per roster member", func() {
			So(res.Picks, ShouldHaveLength, model.RosterSize)
		})

		Convey("Then starter and captain flags agree with the lineup", func() {
			var starterCnt, captainCnt int
			for _, p := range res.Picks {
				if p.Starter {
					starterCnt++
				}
				if p.Captain {
					captainCnt++
					So(p.Candidate.ID, ShouldEqual, lu.CaptainID)
					So(p.Starter, ShouldBeTrue)
				}
			}
			So(starterCnt, ShouldEqual, model.StartersCnt)
			So(captainCnt, ShouldEqual, 1)
		})

		Convey("Then the required pick carries the explicit-request rationale", func() {
			for _, p := range res.Picks {
				if p.Candidate.ID == "d7" {
					So(p.Rationale, ShouldEqual, "included by explicit request")
				}
			}
		})

		Convey("Then every pick has some rationale", func() {
			for _, p := range res.Picks {
				So(p.Rationale, ShouldNotBeEmpty)
			}
		})

		Convey("Then assembly is deterministic", func() {
			again := result.Assemble(cat, spec, sel, lu)
			So(again, ShouldResemble, res)
		})
	})
}
