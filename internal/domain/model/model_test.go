package model_test

import (
	"encoding/json"
	"testing"

	"github.com/dugout-io/dugout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPosition(t *testing.T) {
	Convey("Given the four positions", t, func() {
		Convey("Then quotas sum to the roster size", func() {
			total := 0
			for _, p := range model.Positions() {
				total += p.Quota()
			}
			So(total, ShouldEqual, model.RosterSize)
		})

		Convey("Then quotas match the fixed composition", func() {
			So(model.Goalkeeper.Quota(), ShouldEqual, 2)
			So(model.Defender.Quota(), ShouldEqual, 5)
			So(model.Midfielder.Quota(), ShouldEqual, 5)
			So(model.Forward.Quota(), ShouldEqual, 3)
		})

		Convey("Then names round-trip through parsing", func() {
			for _, p := range model.Positions() {
				parsed, err := model.ParsePosition(p.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, p)
			}
		})

		Convey("Then an unknown name fails to parse", func() {
			_, err := model.ParsePosition("libero")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPrice(t *testing.T) {
	Convey("Given prices in tenths", t, func() {
		Convey("Then float conversion is exact for tenth values", func() {
			So(model.PriceFromFloat(4.5), ShouldEqual, model.Price(45))
			So(model.PriceFromFloat(100.0), ShouldEqual, model.Price(1000))
			So(model.Price(45).Float(), ShouldEqual, 4.5)
		})

		Convey("Then formatting shows one decimal", func() {
			So(model.Price(45).String(), ShouldEqual, "4.5")
			So(model.Price(1000).String(), ShouldEqual, "100.0")
		})

		Convey("Then JSON round-trips as a decimal number", func() {
			b, err := json.Marshal(model.Price(125))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "12.5")

			var p model.Price
			So(json.Unmarshal([]byte("7.5"), &p), ShouldBeNil)
			So(p, ShouldEqual, model.Price(75))
		})
	})
}

func TestFormation(t *testing.T) {
	Convey("Given formation validity rules", t, func() {
		Convey("Then standard formations are valid", func() {
			for _, raw := range []string{"3-4-3", "3-5-2", "4-4-2", "4-3-3", "5-4-1", "5-3-2"} {
				f, err := model.ParseFormation(raw)
				So(err, ShouldBeNil)
				So(f.Valid(), ShouldBeTrue)
				So(f.String(), ShouldEqual, raw)
			}
		})

		Convey("Then out-of-range or wrong-sum formations are invalid", func() {
			So(model.Formation{Defenders: 2, Midfielders: 5, Forwards: 3}.Valid(), ShouldBeFalse)
			So(model.Formation{Defenders: 4, Midfielders: 4, Forwards: 4}.Valid(), ShouldBeFalse)
			So(model.Formation{Defenders: 5, Midfielders: 5, Forwards: 1}.Valid(), ShouldBeFalse)
		})

		Convey("Then starters per position include the goalkeeper", func() {
			f := model.Formation{Defenders: 4, Midfielders: 4, Forwards: 2}
			So(f.Starters(model.Goalkeeper), ShouldEqual, 1)
			So(f.Starters(model.Defender), ShouldEqual, 4)
			So(f.Starters(model.Midfielder), ShouldEqual, 4)
			So(f.Starters(model.Forward), ShouldEqual, 2)
		})

		Convey("Then malformed strings fail to parse", func() {
			for _, raw := range []string{"", "442", "4-4", "a-b-c", "4-4-2-0"} {
				_, err := model.ParseFormation(raw)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestCatalog(t *testing.T) {
	candidates := []model.Candidate{
		{ID: "c2", Name: "Two", GroupID: "g1", Position: model.Defender, Price: 50, Projected: 4},
		{ID: "c1", Name: "One", GroupID: "g1", Position: model.Goalkeeper, Price: 45, Projected: 3},
	}
	groups := []model.Group{{ID: "g1", Name: "Group One"}}

	Convey("Given a valid snapshot", t, func() {
		cat, err := model.NewCatalog("v1", candidates, groups)
		So(err, ShouldBeNil)

		Convey("Then candidates are ordered by id", func() {
			So(cat.Candidates()[0].ID, ShouldEqual, "c1")
			So(cat.Candidates()[1].ID, ShouldEqual, "c2")
		})

		Convey("Then lookup and position queries work", func() {
			c, ok := cat.Lookup("c2")
			So(ok, ShouldBeTrue)
			So(c.Name, ShouldEqual, "Two")

			So(cat.ByPosition(model.Goalkeeper), ShouldHaveLength, 1)
			counts := cat.PositionCounts()
			So(counts[model.Defender], ShouldEqual, 1)
		})
	})

	Convey("Given invalid snapshots", t, func() {
		Convey("Then duplicate ids are rejected", func() {
			dup := append([]model.Candidate{}, candidates...)
			dup = append(dup, model.Candidate{ID: "c1", Position: model.Forward, Price: 10, Projected: 1})
			_, err := model.NewCatalog("v1", dup, groups)
			So(err, ShouldNotBeNil)
		})

		Convey("Then non-positive prices are rejected", func() {
			bad := []model.Candidate{{ID: "x", Position: model.Forward, Price: 0, Projected: 1}}
			_, err := model.NewCatalog("v1", bad, groups)
			So(err, ShouldNotBeNil)
		})

		Convey("Then an empty snapshot is rejected", func() {
			_, err := model.NewCatalog("v1", nil, groups)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRoster(t *testing.T) {
	Convey("Given roster members in arbitrary order", t, func() {
		members := []model.Candidate{
			{ID: "f1", GroupID: "g2", Position: model.Forward, Price: 60, Projected: 6},
			{ID: "gk1", GroupID: "g1", Position: model.Goalkeeper, Price: 45, Projected: 3},
			{ID: "d1", GroupID: "g1", Position: model.Defender, Price: 50, Projected: 4},
		}
		r := model.NewRoster(members)

		Convey("Then members are ordered by position then id", func() {
			So(r.Members[0].ID, ShouldEqual, "gk1")
			So(r.Members[1].ID, ShouldEqual, "d1")
			So(r.Members[2].ID, ShouldEqual, "f1")
		})

		Convey("Then totals are accumulated", func() {
			So(r.TotalPrice, ShouldEqual, model.Price(155))
			So(r.TotalProjected, ShouldEqual, 13.0)
		})

		Convey("Then group counts and membership queries work", func() {
			So(r.GroupCounts()["g1"], ShouldEqual, 2)
			So(r.Contains("d1"), ShouldBeTrue)
			So(r.Contains("nope"), ShouldBeFalse)
		})
	})
}
