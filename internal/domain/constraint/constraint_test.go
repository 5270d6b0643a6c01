package constraint_test

import (
	"errors"
	"testing"

	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validRequest() constraint.Request {
	return constraint.Request{
		Budget:    100.0,
		Formation: model.Formation{Defenders: 4, Midfielders: 4, Forwards: 2},
	}
}

func TestValidate(t *testing.T) {
	Convey("Given a well-formed request", t, func() {
		spec, err := constraint.Validate(validRequest())
		So(err, ShouldBeNil)

		Convey("Then the budget is converted to tenths", func() {
			So(spec.Budget(), ShouldEqual, model.Price(1000))
		})

		Convey("Then the group cap defaults to three", func() {
			So(spec.MaxPerGroup(), ShouldEqual, constraint.DefaultMaxPerGroup)
		})
	})

	Convey("Given malformed requests", t, func() {
		Convey("Then a non-positive budget is rejected first", func() {
			req := validRequest()
			req.Budget = 0
			req.Formation = model.Formation{} // also invalid, budget wins
			_, err := constraint.Validate(req)
			var ice *constraint.InvalidConstraintError
			So(errors.As(err, &ice), ShouldBeTrue)
			So(ice.Field, ShouldEqual, "budget")
			So(errors.Is(err, constraint.ErrInvalidConstraint), ShouldBeTrue)
		})

		Convey("Then an invalid formation is rejected", func() {
			req := validRequest()
			req.Formation = model.Formation{Defenders: 2, Midfielders: 6, Forwards: 2}
			_, err := constraint.Validate(req)
			var ice *constraint.InvalidConstraintError
			So(errors.As(err, &ice), ShouldBeTrue)
			So(ice.Field, ShouldEqual, "formation")
		})

		Convey("Then too many required ids are rejected", func() {
			req := validRequest()
			for i := 0; i < model.RosterSize+1; i++ {
				req.RequiredIDs = append(req.RequiredIDs, string(rune('a'+i)))
			}
			_, err := constraint.Validate(req)
			var ice *constraint.InvalidConstraintError
			So(errors.As(err, &ice), ShouldBeTrue)
			So(ice.Field, ShouldEqual, "required_ids")
		})

		Convey("Then required/excluded overlap is rejected", func() {
			req := validRequest()
			req.RequiredIDs = []string{"p1", "p2"}
			req.ExcludedIDs = []string{"p2"}
			_, err := constraint.Validate(req)
			var ice *constraint.InvalidConstraintError
			So(errors.As(err, &ice), ShouldBeTrue)
			So(ice.Reason, ShouldContainSubstring, "p2")
		})

		Convey("Then an out-of-range group cap is rejected", func() {
			req := validRequest()
			req.MaxPerGroup = 16
			_, err := constraint.Validate(req)
			var ice *constraint.InvalidConstraintError
			So(errors.As(err, &ice), ShouldBeTrue)
			So(ice.Field, ShouldEqual, "max_per_group")

			req.MaxPerGroup = -1
			_, err = constraint.Validate(req)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given id lists with noise", t, func() {
		req := validRequest()
		req.RequiredIDs = []string{"p3", " p1 ", "p3", "", "p2"}
		spec, err := constraint.Validate(req)
		So(err, ShouldBeNil)

		Convey("Then ids are trimmed, deduplicated, and sorted", func() {
			So(spec.Required(), ShouldResemble, []string{"p1", "p2", "p3"})
			So(spec.IsRequired("p1"), ShouldBeTrue)
			So(spec.IsRequired("p9"), ShouldBeFalse)
		})
	})
}

func TestSpecKey(t *testing.T) {
	Convey("Given two requests with the same content in different order", t, func() {
		a := validRequest()
		a.RequiredIDs = []string{"p2", "p1"}
		b := validRequest()
		b.RequiredIDs = []string{"p1", "p2", "p1"}

		specA, errA := constraint.Validate(a)
		specB, errB := constraint.Validate(b)
		So(errA, ShouldBeNil)
		So(errB, ShouldBeNil)

		Convey("Then their keys are identical", func() {
			So(specA.Key(), ShouldEqual, specB.Key())
		})
	})

	Convey("Given requests differing in any field", t, func() {
		base, _ := constraint.Validate(validRequest())

		other := validRequest()
		other.Budget = 99.5
		changed, _ := constraint.Validate(other)

		Convey("Then their keys differ", func() {
			So(base.Key(), ShouldNotEqual, changed.Key())
		})
	})
}
