package scoring_test

import (
	"testing"

	scoring "github.com/okian/rankdesk/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPoints(t *testing.T) {
	Convey("Given the placement score table", t, func() {
		Convey("When scoring a major event", func() {
			Convey("Then each band pays its fixed value", func() {
				So(scoring.Points(1, false), ShouldEqual, 25)
				So(scoring.Points(2, false), ShouldEqual, 20)
				So(scoring.Points(3, false), ShouldEqual, 16)
				So(scoring.Points(4, false), ShouldEqual, 16)
				So(scoring.Points(5, false), ShouldEqual, 10)
				So(scoring.Points(8, false), ShouldEqual, 10)
				So(scoring.Points(9, false), ShouldEqual, 5)
				So(scoring.Points(16, false), ShouldEqual, 5)
			})

			Convey("And every position past sixteenth pays the remainder value", func() {
				So(scoring.Points(17, false), ShouldEqual, 2)
				So(scoring.Points(64, false), ShouldEqual, 2)
				So(scoring.Points(1000, false), ShouldEqual, 2)
			})
		})

		Convey("When scoring a minor event", func() {
			Convey("Then points are halved rounding up", func() {
				So(scoring.Points(1, true), ShouldEqual, 13)
				So(scoring.Points(2, true), ShouldEqual, 10)
				So(scoring.Points(3, true), ShouldEqual, 8)
				So(scoring.Points(5, true), ShouldEqual, 5)
				So(scoring.Points(9, true), ShouldEqual, 3)
				So(scoring.Points(17, true), ShouldEqual, 1)
			})

			Convey("And the minor value is never zero for a scored position", func() {
				for pos := 1; pos <= 40; pos++ {
					So(scoring.Points(pos, true), ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When the position is invalid", func() {
			Convey("Then no points are awarded", func() {
				So(scoring.Points(0, false), ShouldEqual, 0)
				So(scoring.Points(-3, false), ShouldEqual, 0)
				So(scoring.Points(0, true), ShouldEqual, 0)
			})
		})
	})
}

func TestCeilHalf(t *testing.T) {
	Convey("Given the ceiling-half helper", t, func() {
		Convey("Then odd values round up", func() {
			So(scoring.CeilHalf(5), ShouldEqual, 3)
			So(scoring.CeilHalf(25), ShouldEqual, 13)
			So(scoring.CeilHalf(1), ShouldEqual, 1)
		})
		Convey("And even values halve exactly", func() {
			So(scoring.CeilHalf(20), ShouldEqual, 10)
			So(scoring.CeilHalf(2), ShouldEqual, 1)
			So(scoring.CeilHalf(0), ShouldEqual, 0)
		})
	})
}
