package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beerlog/beerboard/internal/adapters/repository"
	"github.com/beerlog/beerboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(id string, fetched time.Time, beers int) *repository.Snapshot {
	d := model.NewDashboardData("2025-02-01")
	d.TotalBeers = beers
	return &repository.Snapshot{ID: id, FetchedAt: fetched, Rows: beers + 1, Data: d}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemoryStore(ctx, repository.WithClock(func() time.Time { return now }))
		defer store.Close()

		Convey("Then reads report that nothing is published", func() {
			_, err := store.Current(ctx)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
			_, err = store.Age(ctx)
			So(errors.Is(err, repository.ErrNoSnapshot), ShouldBeTrue)
		})

		Convey("When a snapshot is published", func() {
			So(store.Replace(ctx, snapshot("one", now.Add(-90*time.Second), 3)), ShouldBeNil)

			Convey("Then it is current and aged by the clock", func() {
				snap, err := store.Current(ctx)
				So(err, ShouldBeNil)
				So(snap.ID, ShouldEqual, "one")
				age, err := store.Age(ctx)
				So(err, ShouldBeNil)
				So(age, ShouldEqual, 90*time.Second)
			})

			Convey("Then a later snapshot replaces it wholesale", func() {
				So(store.Replace(ctx, snapshot("two", now, 7)), ShouldBeNil)
				snap, _ := store.Current(ctx)
				So(snap.ID, ShouldEqual, "two")
				So(snap.Data.TotalBeers, ShouldEqual, 7)
			})
		})

		Convey("When the snapshot is invalid", func() {
			err := store.Replace(ctx, &repository.Snapshot{ID: "bad"})
			So(errors.Is(err, repository.ErrInvalidSnapshot), ShouldBeTrue)
			So(errors.Is(store.Replace(ctx, nil), repository.ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(store.Replace(cctx, snapshot("x", now, 1)), ShouldEqual, context.Canceled)
			_, err := store.Current(cctx)
			So(err, ShouldEqual, context.Canceled)
		})
	})
}

func TestMemoryStoreConcurrentReaders(t *testing.T) {
	Convey("Given readers racing a writer", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithMetricsUpdateInterval(time.Millisecond))
		defer store.Close()
		So(store.Replace(ctx, snapshot("seed", time.Now(), 0)), ShouldBeNil)

		var wg sync.WaitGroup
		failures := make(chan error, 64)
		for r := 0; r < 8; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 500; i++ {
					snap, err := store.Current(ctx)
					if err != nil {
						failures <- err
						return
					}
					if snap.Rows != snap.Data.TotalBeers+1 {
						failures <- errors.New("torn snapshot")
						return
					}
				}
			}()
		}
		for i := 1; i <= 200; i++ {
			_ = store.Replace(ctx, snapshot("w", time.Now(), i))
		}
		wg.Wait()
		close(failures)

		Convey("Then every read sees a complete snapshot", func() {
			So(len(failures), ShouldEqual, 0)
		})
	})
}
