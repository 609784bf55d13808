package aggregate_test

import (
	"errors"
	"testing"

	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/testrows"
	. "github.com/smartystreets/goconvey/convey"
)

var header = testrows.Header

func row(brand, variety, date, location, event, alone, email, amount, tr string) []string {
	return []string{"ts", brand, variety, date, location, event, alone, email, amount, "", tr, ""}
}

func TestBuildEmpty(t *testing.T) {
	Convey("Given tables without data rows", t, func() {
		for _, rows := range [][][]string{nil, {}, {header}} {
			d := aggregate.Build(rows)

			So(d.TotalBeers, ShouldEqual, 0)
			So(d.TotalMilliliters, ShouldEqual, 0)
			So(d.Entries, ShouldNotBeNil)
			So(d.Entries, ShouldBeEmpty)
			So(d.PlayersStats, ShouldNotBeNil)
			So(d.PlayersStats, ShouldBeEmpty)
			So(d.GlobalBrands, ShouldBeEmpty)
			So(d.StartDate, ShouldEqual, aggregate.DefaultStartDate)
		}
	})
}

func TestBuild(t *testing.T) {
	Convey("Given a small sheet", t, func() {
		dir := entry.NewDirectory(map[string]string{"a@x.com": "Ana", "b@x.com": "Beto"})
		rows := [][]string{
			header,
			row("Quilmes", "Rubia", "1/3/2025", "Casa", "Asado", "No", "a@x.com", "473", "20-23"),
			row(" quilmes", "RUBIA", "1/3/2025", "casa ", "", "Sí", "A@x.com", "330", "20 - 23hs"),
			row("Patagonia", "IPA", "2/3/2025", "Bar", "Partido", "", "b@x.com", "500", "0-3"),
			{"", "", ""},
			row("Andes", "", "bad", "", "", "No", "c@x.com", "x", "later"),
		}
		d := aggregate.Build(rows, aggregate.WithDirectory(dir), aggregate.WithStartDate("2025-03-01"))

		Convey("Then totals count every non-blank row", func() {
			So(d.StartDate, ShouldEqual, "2025-03-01")
			So(d.TotalBeers, ShouldEqual, 4)
			So(d.TotalMilliliters, ShouldEqual, 1303)
			So(d.Entries, ShouldHaveLength, 4)
			So(d.GlobalAlone, ShouldEqual, 2)
		})

		Convey("Then category variants merge into one bucket", func() {
			So(d.GlobalBrands, ShouldResemble, map[string]int{"Quilmes": 2, "Patagonia": 1, "Andes": 1})
			So(d.GlobalVarieties, ShouldResemble, map[string]int{"Rubia": 2, "Ipa": 1})
			So(d.GlobalLocations, ShouldResemble, map[string]int{"Casa": 2, "Bar": 1})
			So(d.GlobalEvents, ShouldResemble, map[string]int{"Asado": 1, "Partido": 1})
			So(d.GlobalTimeRanges, ShouldResemble, map[string]int{"20-23": 2, "0-3": 1})
		})

		Convey("Then rows without a date stay out of the day series only", func() {
			So(d.GlobalBeerPerDay, ShouldResemble, map[string]int{"2025-03-01": 2, "2025-03-02": 1})
			So(d.GlobalMilliLitersPerDay, ShouldResemble, map[string]int{"2025-03-01": 803, "2025-03-02": 500})
		})

		Convey("Then members are keyed by normalized email in first-seen order", func() {
			So(d.Players, ShouldResemble, []string{"a@x.com", "b@x.com", "c@x.com"})
			a := d.PlayersStats["a@x.com"]
			So(a.Alias, ShouldEqual, "Ana")
			So(a.TotalBeers, ShouldEqual, 2)
			So(a.TotalMilliliters, ShouldEqual, 803)
			So(a.DrankAlone, ShouldEqual, 1)
			So(a.Entries, ShouldHaveLength, 2)
			So(a.BeerPerDay, ShouldResemble, map[string]int{"2025-03-01": 2})
			So(d.PlayersStats["c@x.com"].Alias, ShouldEqual, "C")
		})

		Convey("Then the global indexes equal the member sums", func() {
			So(aggregate.Check(d), ShouldBeNil)
		})
	})
}

func TestBuildSumInvariant(t *testing.T) {
	Convey("Given generated sheets", t, func() {
		for seed := uint64(1); seed <= 25; seed++ {
			cfg := testrows.DefaultConfig()
			cfg.Seed = seed
			cfg.Rows = 50 + int(seed)*20
			cfg.Members = 1 + int(seed%7)
			d := aggregate.Build(testrows.Generate(cfg))

			So(aggregate.Check(d), ShouldBeNil)

			beers, ml := 0, 0
			for _, p := range d.PlayersStats {
				beers += p.TotalBeers
				ml += p.TotalMilliliters
			}
			So(beers, ShouldEqual, d.TotalBeers)
			So(ml, ShouldEqual, d.TotalMilliliters)
			So(len(d.Players), ShouldEqual, len(d.PlayersStats))
		}
	})
}

func TestCheckDetectsDrift(t *testing.T) {
	Convey("Given a consistent aggregate", t, func() {
		d := model.NewDashboardData(aggregate.DefaultStartDate)
		aggregate.Add(d, model.Entry{Email: "a@x.com", Name: "A", Brand: "Quilmes", Date: "2025-03-01", Amount: 330})
		So(aggregate.Check(d), ShouldBeNil)

		Convey("When a global bucket drifts", func() {
			d.GlobalBrands["Quilmes"]++
			So(errors.Is(aggregate.Check(d), aggregate.ErrInconsistent), ShouldBeTrue)
		})

		Convey("When a member total drifts", func() {
			d.PlayersStats["a@x.com"].TotalMilliliters = 1
			So(errors.Is(aggregate.Check(d), aggregate.ErrInconsistent), ShouldBeTrue)
		})
	})
}
