package sheets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/api/option"

	"github.com/beerlog/beerboard/internal/adapters/sheets"
	"github.com/beerlog/beerboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestFromSheetValues(t *testing.T) {
	Convey("Given API cells of mixed types", t, func() {
		rows := sheets.FromSheetValues([][]interface{}{
			{"Marca temporal", "Marca"},
			{"1/3/2025", nil, float64(473), true},
			{},
		})

		Convey("Then every cell becomes a string", func() {
			So(rows, ShouldResemble, [][]string{
				{"Marca temporal", "Marca"},
				{"1/3/2025", "", "473", "true"},
				{},
			})
		})
	})
}

func TestStaticSource(t *testing.T) {
	Convey("Given a static source", t, func() {
		table := [][]string{{"h"}, {"a", "b"}}
		src := sheets.NewStaticSource(table)

		Convey("Then fetches return copies of the table", func() {
			rows, err := src.Fetch(context.Background())
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, table)
			rows[1][0] = "changed"
			again, _ := src.Fetch(context.Background())
			So(again[1][0], ShouldEqual, "a")
		})

		Convey("Then a failing source wraps ErrFetch", func() {
			_, err := sheets.NewFailingSource(errors.New("boom")).Fetch(context.Background())
			So(errors.Is(err, sheets.ErrFetch), ShouldBeTrue)
		})
	})
}

func TestCSVSource(t *testing.T) {
	Convey("Given a CSV export on disk", t, func() {
		path := filepath.Join(t.TempDir(), "log.csv")
		table := [][]string{
			{"Marca temporal", "Marca", "Variedad"},
			{"1/3/2025 21:00", "Quilmes, Clásica", "Rubia"},
			{"2/3/2025 01:00", "Andes"},
		}
		So(sheets.WriteCSV(path, table), ShouldBeNil)

		Convey("Then ragged rows and quoted commas survive a round trip", func() {
			src, err := sheets.NewCSVSource(path)
			So(err, ShouldBeNil)
			rows, err := src.Fetch(context.Background())
			So(err, ShouldBeNil)
			So(rows, ShouldResemble, table)
		})

		Convey("Then a missing file is a fetch error", func() {
			src, _ := sheets.NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"))
			_, err := src.Fetch(context.Background())
			So(errors.Is(err, sheets.ErrFetch), ShouldBeTrue)
		})

		Convey("Then an empty path is not configured", func() {
			_, err := sheets.NewCSVSource("")
			So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func sheetsServer(status *atomic.Int32, calls *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		key := r.URL.Query().Get("key")
		if key == "" {
			key = r.Header.Get("X-Goog-Api-Key")
		}
		if !strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-1/values/") || key != "test-key" {
			http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"range":"A1:L3","majorDimension":"ROWS","values":[["Marca temporal","Marca"],["1/3/2025","Quilmes",330]]}`))
	}))
}

func TestGoogleSource(t *testing.T) {
	Convey("Given a Sheets API endpoint", t, func() {
		var status, calls atomic.Int32
		status.Store(http.StatusOK)
		srv := sheetsServer(&status, &calls)
		defer srv.Close()

		ctx := context.Background()
		src, err := sheets.NewGoogleSource(ctx, "test-key", "sheet-1",
			sheets.WithRateLimit(1000, 100),
			sheets.WithTimeout(2*time.Second),
			sheets.WithBreaker(3, 0.6, time.Minute, 1),
			sheets.WithClientOptions(option.WithEndpoint(srv.URL+"/")),
		)
		So(err, ShouldBeNil)

		Convey("When the API answers", func() {
			rows, err := src.Fetch(ctx)

			Convey("Then values are converted to rows", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, [][]string{{"Marca temporal", "Marca"}, {"1/3/2025", "Quilmes", "330"}})
				So(src.Name(), ShouldEqual, "google")
				So(src.State(), ShouldEqual, "closed")
			})
		})

		Convey("When the API keeps failing", func() {
			status.Store(http.StatusInternalServerError)
			for i := 0; i < 3; i++ {
				_, err := src.Fetch(ctx)
				So(errors.Is(err, sheets.ErrFetch), ShouldBeTrue)
			}

			Convey("Then the breaker opens and stops calling the API", func() {
				before := calls.Load()
				_, err := src.Fetch(ctx)
				So(errors.Is(err, sheets.ErrUnavailable), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, before)
				So(src.State(), ShouldEqual, "open")
			})
		})
	})

	Convey("Given missing credentials", t, func() {
		_, err := sheets.NewGoogleSource(context.Background(), "", "sheet-1")
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
		_, err = sheets.NewGoogleSource(context.Background(), "key", "")
		So(errors.Is(err, sheets.ErrNotConfigured), ShouldBeTrue)
	})
}
