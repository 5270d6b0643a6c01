package squadgen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dugout-io/dugout/internal/domain/model"
	"github.com/dugout-io/dugout/internal/squadgen"
	"github.com/dugout-io/dugout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallParams(seed int64) squadgen.Params {
	return squadgen.Params{
		Seed:        seed,
		Groups:      10,
		Goalkeepers: 8,
		Defenders:   16,
		Midfielders: 16,
		Forwards:    10,
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given generation parameters", t, func() {
		p := smallParams(42)

		Convey("Then the requested shape is produced", func() {
			candidates, groups := squadgen.Generate(p)
			So(candidates, ShouldHaveLength, 8+16+16+10)
			So(groups, ShouldHaveLength, 10)

			var counts [4]int
			seen := make(map[string]struct{}, len(candidates))
			for _, c := range candidates {
				counts[c.Position]++
				_, dup := seen[c.ID]
				So(dup, ShouldBeFalse)
				seen[c.ID] = struct{}{}
				So(c.Price, ShouldBeGreaterThan, 0)
			}
			So(counts[model.Goalkeeper], ShouldEqual, 8)
			So(counts[model.Defender], ShouldEqual, 16)
			So(counts[model.Midfielder], ShouldEqual, 16)
			So(counts[model.Forward], ShouldEqual, 10)
		})

		Convey("Then the same seed reproduces the same catalog", func() {
			c1, g1 := squadgen.Generate(p)
			c2, g2 := squadgen.Generate(p)
			So(c2, ShouldResemble, c1)
			So(g2, ShouldResemble, g1)
		})

		Convey("Then a different seed produces a different catalog", func() {
			c1, _ := squadgen.Generate(smallParams(1))
			c2, _ := squadgen.Generate(smallParams(2))
			So(c2, ShouldNotResemble, c1)
		})

		Convey("Then zero fields fall back to defaults", func() {
			candidates, groups := squadgen.Generate(squadgen.Params{Seed: 7})
			So(len(candidates), ShouldEqual, 40+100+100+60)
			So(len(groups), ShouldEqual, 20)
		})
	})
}

func TestWriteFileAndCheck(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generated catalog file", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.json")
		So(squadgen.WriteFile(path, smallParams(42)), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"cand-0001"`)

		Convey("When the checker runs the engine over it", func() {
			formations := []model.Formation{
				{Defenders: 4, Midfielders: 4, Forwards: 2},
				{Defenders: 3, Midfielders: 4, Forwards: 3},
			}
			report, err := squadgen.Check(ctx, path, 100.0, formations)
			So(err, ShouldBeNil)

			Convey("Then every formation verifies clean", func() {
				So(report.CatalogSize, ShouldEqual, 50)
				So(report.Checked, ShouldEqual, 2)
				So(report.Infeasible, ShouldEqual, 0)
				So(report.Problems, ShouldBeEmpty)
				So(report.Ok(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a missing catalog file", t, func() {
		_, err := squadgen.Check(ctx, "/no/such/catalog.json", 100.0, nil)
		So(err, ShouldNotBeNil)
	})
}
