package versus_test

import (
	"testing"

	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
	"github.com/beerlog/beerboard/internal/domain/versus"
	"github.com/smartystreets/goconvey/convey"
)

func fixture() *model.DashboardData {
	d := model.NewDashboardData(aggregate.DefaultStartDate)
	for _, e := range []model.Entry{
		{Email: "a@x.com", Date: "2025-12-20", Brand: "Quilmes", Amount: 1000},
		{Email: "a@x.com", Date: "2025-02-01", Brand: "Quilmes", Amount: 500},
		{Email: "a@x.com", Date: "2025-02-02", Brand: "Andes", Amount: 500},
		{Email: "b@x.com", Date: "2025-03-05", Brand: "Andes", Amount: 330},
		{Email: "b@x.com", Date: "2025-03-06", Brand: "Andes", Amount: 330},
		{Email: "b@x.com", Date: "", Brand: "Patagonia", Amount: 330},
		{Email: "c@x.com", Date: "2025-07-01", Brand: "Imperial", Amount: 500},
	} {
		aggregate.Add(d, e)
	}
	return d
}

func TestPerMonth(t *testing.T) {
	convey.Convey("Given two members active in different months", t, func() {
		d := fixture()

		convey.Convey("When comparing beers per month", func() {
			rows := versus.BeersPerMonth(d, "a@x.com", "B@x.com ")

			convey.Convey("Then only months either member used appear, oldest first and zero-filled", func() {
				convey.So(rows, convey.ShouldResemble, []types.ComparisonRow{
					{Key: "2025-02", Label: "Feb 2025", Player1Value: 2, Player2Value: 0},
					{Key: "2025-03", Label: "Mar 2025", Player1Value: 0, Player2Value: 2},
					{Key: "2025-12", Label: "Dic 2025", Player1Value: 1, Player2Value: 0},
				})
			})
		})

		convey.Convey("When comparing liters per month", func() {
			rows := versus.LitersPerMonth(d, "a@x.com", "b@x.com")
			convey.So(rows, convey.ShouldHaveLength, 3)
			convey.So(rows[0].Player1Value, convey.ShouldEqual, 1)
			convey.So(rows[1].Player2Value, convey.ShouldEqual, 0.66)
			totals := versus.Totals(rows)
			convey.So(totals.Player1, convey.ShouldEqual, 2)
			convey.So(totals.Player2, convey.ShouldEqual, 0.66)
			convey.So(totals.Difference, convey.ShouldAlmostEqual, 1.34, 1e-9)
		})

		convey.Convey("When a member is compared with themselves", func() {
			rows := versus.BeersPerMonth(d, "b@x.com", "b@x.com")
			convey.So(rows, convey.ShouldHaveLength, 1)
			convey.So(rows[0].Player1Value, convey.ShouldEqual, rows[0].Player2Value)
		})
	})
}

func TestByCategory(t *testing.T) {
	convey.Convey("Given two members sharing a brand", t, func() {
		d := fixture()
		rows := versus.ByBrand(d, "a@x.com", "b@x.com")

		convey.Convey("Then rows sort by combined count and skip other members", func() {
			convey.So(rows, convey.ShouldResemble, []types.ComparisonRow{
				{Key: "andes", Label: "Andes", Player1Value: 1, Player2Value: 2},
				{Key: "quilmes", Label: "Quilmes", Player1Value: 2, Player2Value: 0},
				{Key: "patagonia", Label: "Patagonia", Player1Value: 0, Player2Value: 1},
			})
			convey.So(versus.Totals(rows).Difference, convey.ShouldEqual, 0)
		})

		convey.Convey("Then empty categories are skipped", func() {
			convey.So(versus.ByEvent(d, "a@x.com", "b@x.com"), convey.ShouldBeEmpty)
			convey.So(versus.ByLocation(d, "a@x.com", "b@x.com"), convey.ShouldBeEmpty)
			convey.So(versus.ByVariety(d, "a@x.com", "b@x.com"), convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given equal combined totals", t, func() {
		d := model.NewDashboardData(aggregate.DefaultStartDate)
		aggregate.Add(d, model.Entry{Email: "a@x.com", Location: "Casa"})
		aggregate.Add(d, model.Entry{Email: "b@x.com", Location: "Bar"})

		convey.Convey("Then labels break the tie", func() {
			rows := versus.ByLocation(d, "a@x.com", "b@x.com")
			convey.So(rows[0].Label, convey.ShouldEqual, "Bar")
			convey.So(rows[1].Label, convey.ShouldEqual, "Casa")
		})
	})
}

func TestCompare(t *testing.T) {
	convey.Convey("Given the comparison kinds", t, func() {
		d := fixture()
		for _, kind := range versus.Kinds {
			_, ok := versus.Compare(d, kind, "a@x.com", "b@x.com")
			convey.So(ok, convey.ShouldBeTrue)
		}
		_, ok := versus.Compare(d, "food", "a@x.com", "b@x.com")
		convey.So(ok, convey.ShouldBeFalse)

		rows, ok := versus.Compare(nil, versus.KindBeers, "a@x.com", "b@x.com")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(rows, convey.ShouldBeEmpty)
	})
}
