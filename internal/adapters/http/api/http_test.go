package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/beerlog/beerboard/internal/adapters/http/api"
	"github.com/beerlog/beerboard/internal/adapters/repository"
	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/testrows"
	"github.com/beerlog/beerboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

// Mock implementations for testing
type mockDeps struct {
	snap          *repository.Snapshot
	revalidateErr error
	revalidated   int
}

func (m *mockDeps) Current(context.Context) (*repository.Snapshot, error) {
	if m.snap == nil {
		return nil, model.ErrDataUnavailable
	}
	return m.snap, nil
}

func (m *mockDeps) Revalidate(context.Context) (string, error) {
	if m.revalidateErr != nil {
		return "", m.revalidateErr
	}
	m.revalidated++
	return "req-1", nil
}

func (m *mockDeps) SeasonDays() int { return 100 }

func (m *mockDeps) Now() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func row(brand, date, alone, email, amount, tr string) []string {
	return []string{"ts", brand, "Rubia", date, "Casa", "Asado", alone, email, amount, "", tr, ""}
}

func fixtureSnapshot() *repository.Snapshot {
	rows := [][]string{
		testrows.Header,
		row("Quilmes", "1/3/2025", "No", "a@x.com", "500", "20-23"),
		row("Quilmes", "2/3/2025", "Sí", "a@x.com", "500", "0-3"),
		row("Andes", "1/3/2025", "No", "b@x.com", "330", "20-23"),
		row("Andes", "1/3/2025", "No", "b@x.com", "330", "20-23"),
		row("Patagonia", "1/3/2025", "No", "b@x.com", "330", "20-23"),
	}
	d := aggregate.Build(rows,
		aggregate.WithDirectory(entry.NewDirectory(map[string]string{"a@x.com": "Ana", "b@x.com": "Beto"})),
		aggregate.WithStartDate("2025-03-01"),
	)
	return &repository.Snapshot{ID: "snap-1", FetchedAt: time.Now(), Rows: len(rows), Hash: 0xabc, Data: d}
}

func newMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, api.WithMaxLimit(50))
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(h http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) {
	So(json.Unmarshal(w.Body.Bytes(), v), ShouldBeNil)
}

func TestServer_NoSnapshot(t *testing.T) {
	Convey("Given a server before the first refresh", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then query endpoints answer 503", func() {
			for _, target := range []string{"/api/dashboard", "/api/totals", "/api/leaderboard", "/api/streaks", "/api/months/2025-03"} {
				w := do(mux, http.MethodGet, target)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				var body map[string]string
				decode(w, &body)
				So(body["code"], ShouldEqual, "data_unavailable")
			}
		})

		Convey("Then health and stats still answer", func() {
			So(do(mux, http.MethodGet, "/healthz").Code, ShouldEqual, http.StatusOK)
			w := do(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})
	})
}

func TestServer_Dashboard(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		mux := newMux(&mockDeps{snap: fixtureSnapshot()})

		Convey("When fetching the dashboard", func() {
			w := do(mux, http.MethodGet, "/api/dashboard")

			Convey("Then the aggregate is returned with an ETag", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("ETag"), ShouldEqual, `"0000000000000abc"`)
				So(w.Header().Get("X-Snapshot-ID"), ShouldEqual, "snap-1")
				var d model.DashboardData
				decode(w, &d)
				So(d.TotalBeers, ShouldEqual, 5)
				So(d.Players, ShouldResemble, []string{"a@x.com", "b@x.com"})
			})

			Convey("Then a matching If-None-Match is not modified", func() {
				again := do(mux, http.MethodGet, "/api/dashboard", "If-None-Match", w.Header().Get("ETag"))
				So(again.Code, ShouldEqual, http.StatusNotModified)
				So(again.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("When posting to a query endpoint", func() {
			w := do(mux, http.MethodPost, "/api/totals")

			Convey("Then the method is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
			})
		})

		Convey("When fetching totals", func() {
			w := do(mux, http.MethodGet, "/api/totals")

			Convey("Then season figures use the service clock", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				decode(w, &body)
				So(body["totalBeers"], ShouldEqual, 5.0)
				So(body["totalDays"], ShouldEqual, 100.0)
				So(body["daysSinceStart"], ShouldEqual, 9.0)
			})
		})

		Convey("When fetching the leaderboard", func() {
			w := do(mux, http.MethodGet, "/api/leaderboard")

			Convey("Then members are ranked by beers", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var items []map[string]any
				decode(w, &items)
				So(len(items), ShouldEqual, 2)
				So(items[0]["name"], ShouldEqual, "Beto")
				So(items[0]["rank"], ShouldEqual, 1.0)
				So(items[1]["name"], ShouldEqual, "Ana")
			})
		})

		Convey("When fetching the alone ranking", func() {
			Convey("Then only members with solo drinks appear", func() {
				w := do(mux, http.MethodGet, "/api/alone")
				So(w.Code, ShouldEqual, http.StatusOK)
				var items []map[string]any
				decode(w, &items)
				So(len(items), ShouldEqual, 1)
				So(items[0]["email"], ShouldEqual, "a@x.com")
				So(items[0]["percentage"], ShouldEqual, 50.0)
			})

			Convey("Then an out of range limit is rejected", func() {
				So(do(mux, http.MethodGet, "/api/alone?limit=0").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/api/alone?limit=51").Code, ShouldEqual, http.StatusBadRequest)
				So(do(mux, http.MethodGet, "/api/alone?limit=x").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_Records(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		mux := newMux(&mockDeps{snap: fixtureSnapshot()})

		Convey("Then global beer records are the default", func() {
			w := do(mux, http.MethodGet, "/api/records")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Kind    string           `json:"kind"`
				Records []map[string]any `json:"records"`
			}
			decode(w, &body)
			So(body.Kind, ShouldEqual, "global-beers")
			So(len(body.Records), ShouldEqual, 2)
			So(body.Records[0]["date"], ShouldEqual, "2025-03-01")
			So(body.Records[0]["beers"], ShouldEqual, 4.0)
		})

		Convey("Then individual records name the member", func() {
			w := do(mux, http.MethodGet, "/api/records?kind=individual-liters&limit=1&unique=1")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"email":"b@x.com"`)
		})

		Convey("Then an unknown kind is rejected", func() {
			So(do(mux, http.MethodGet, "/api/records?kind=weekly").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then milestones are keyed by member", func() {
			w := do(mux, http.MethodGet, "/api/milestones?step=2&max=4")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string][]map[string]any
			decode(w, &body)
			So(len(body["b@x.com"]), ShouldEqual, 1)
			So(body["b@x.com"][0]["milestone"], ShouldEqual, 2.0)
			So(len(body["a@x.com"]), ShouldEqual, 1)
		})

		Convey("Then a max below the step is rejected", func() {
			So(do(mux, http.MethodGet, "/api/milestones?step=10&max=5").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestServer_Months(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		mux := newMux(&mockDeps{snap: fixtureSnapshot()})

		Convey("Then active months are listed with metadata", func() {
			w := do(mux, http.MethodGet, "/api/months")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Months []map[string]any `json:"months"`
				Dates  []string         `json:"dates"`
			}
			decode(w, &body)
			So(len(body.Months), ShouldEqual, 1)
			So(body.Months[0]["key"], ShouldEqual, "2025-03")
			So(body.Months[0]["daysInMonth"], ShouldEqual, 31.0)
			So(body.Dates, ShouldResemble, []string{"2025-03-01", "2025-03-02"})
		})

		Convey("Then one month carries daily counts", func() {
			w := do(mux, http.MethodGet, "/api/months/2025-03")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Days  map[string]int `json:"days"`
				Total int            `json:"total"`
			}
			decode(w, &body)
			So(body.Total, ShouldEqual, 5)
			So(body.Days["2025-03-01"], ShouldEqual, 4)
		})

		Convey("Then a malformed month is rejected", func() {
			So(do(mux, http.MethodGet, "/api/months/march").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then consumption can be cumulative per member", func() {
			w := do(mux, http.MethodGet, "/api/consumption?member=A@x.com&cumulative=true")
			So(w.Code, ShouldEqual, http.StatusOK)
			var points []map[string]any
			decode(w, &points)
			So(len(points), ShouldEqual, 1)
			So(points[0]["beers"], ShouldEqual, 2.0)
			So(points[0]["liters"], ShouldEqual, 1.0)
		})

		Convey("Then unknown members and bad flags are rejected", func() {
			So(do(mux, http.MethodGet, "/api/consumption?member=nobody@x.com").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/api/consumption?cumulative=maybe").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then the month grid has a row per member", func() {
			w := do(mux, http.MethodGet, "/api/month-grid")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"labels":["Mar 2025"]`)
		})
	})
}

func TestServer_Categories(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		mux := newMux(&mockDeps{snap: fixtureSnapshot()})

		Convey("Then global brand shares sum the log", func() {
			w := do(mux, http.MethodGet, "/api/categories?kind=brand")
			So(w.Code, ShouldEqual, http.StatusOK)
			var shares []map[string]any
			decode(w, &shares)
			So(len(shares), ShouldEqual, 3)
			So(shares[0]["label"], ShouldEqual, "Andes")
			So(shares[0]["percentage"], ShouldEqual, 40.0)
		})

		Convey("Then member shares use the member total", func() {
			w := do(mux, http.MethodGet, "/api/categories?kind=brand&member=b@x.com")
			So(w.Code, ShouldEqual, http.StatusOK)
			var shares []map[string]any
			decode(w, &shares)
			So(shares[0]["percentage"], ShouldAlmostEqual, 66.7, 0.001)
		})

		Convey("Then bad kinds and members are rejected", func() {
			So(do(mux, http.MethodGet, "/api/categories?kind=food").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/categories?member=zz@x.com").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then the time-range views follow the canonical axis", func() {
			w := do(mux, http.MethodGet, "/api/time-ranges")
			So(w.Code, ShouldEqual, http.StatusOK)
			var tr struct {
				Order  []string       `json:"order"`
				Totals map[string]int `json:"totals"`
			}
			decode(w, &tr)
			So(tr.Order, ShouldResemble, model.TimeRanges)
			So(tr.Totals["20-23"], ShouldEqual, 4)

			w = do(mux, http.MethodGet, "/api/matrix")
			var m struct {
				Counts [][]int `json:"counts"`
			}
			decode(w, &m)
			So(len(m.Counts), ShouldEqual, 7)
			// 2025-03-01 is a Saturday, 2025-03-02 a Sunday.
			So(m.Counts[5][5], ShouldEqual, 4)
			So(m.Counts[6][0], ShouldEqual, 1)
		})

		Convey("Then top brands respect the uniqueness floor", func() {
			w := do(mux, http.MethodGet, "/api/top-brands?min_unique=2")
			So(w.Code, ShouldEqual, http.StatusOK)
			var items []map[string]any
			decode(w, &items)
			So(len(items), ShouldEqual, 1)
			So(items[0]["email"], ShouldEqual, "b@x.com")
		})
	})
}

func TestServer_Players(t *testing.T) {
	Convey("Given a server with a published snapshot", t, func() {
		mux := newMux(&mockDeps{snap: fixtureSnapshot()})

		Convey("Then players are listed in first-seen order", func() {
			w := do(mux, http.MethodGet, "/api/players")
			So(w.Code, ShouldEqual, http.StatusOK)
			var items []map[string]any
			decode(w, &items)
			So(len(items), ShouldEqual, 2)
			So(items[0]["email"], ShouldEqual, "a@x.com")
			So(items[0]["liters"], ShouldEqual, 1.0)
		})

		Convey("Then a profile is found regardless of case", func() {
			w := do(mux, http.MethodGet, "/api/players/B@X.com")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			decode(w, &body)
			So(body["name"], ShouldEqual, "Beto")
			So(body["totalBeers"], ShouldEqual, 3.0)
			So(body["milestones"], ShouldNotBeNil)
			So(len(body["progression"].([]any)), ShouldEqual, 1)
		})

		Convey("Then an unknown member is not found", func() {
			So(do(mux, http.MethodGet, "/api/players/zz@x.com").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then versus compares two members", func() {
			w := do(mux, http.MethodGet, "/api/versus?p1=a@x.com&p2=b@x.com&kind=brand")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Rows   []map[string]any   `json:"rows"`
				Totals map[string]float64 `json:"totals"`
			}
			decode(w, &body)
			So(len(body.Rows), ShouldEqual, 3)
			So(body.Totals["difference"], ShouldEqual, -1.0)
		})

		Convey("Then versus validates its parameters", func() {
			So(do(mux, http.MethodGet, "/api/versus?p1=a@x.com").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/versus?p1=a@x.com&p2=b@x.com&kind=food").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then streaks cross midnight", func() {
			w := do(mux, http.MethodGet, "/api/streaks?member=a@x.com")
			So(w.Code, ShouldEqual, http.StatusOK)
			var items []map[string]any
			decode(w, &items)
			So(len(items), ShouldEqual, 1)
			So(items[0]["beers"], ShouldEqual, 2.0)
			So(items[0]["startDate"], ShouldEqual, "2025-03-01")
			So(items[0]["endDate"], ShouldEqual, "2025-03-02")
			So(len(items[0]["details"].([]any)), ShouldEqual, 2)
		})
	})
}

func TestServer_Revalidate(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a refresh is requested", func() {
			w := do(mux, http.MethodPost, "/api/revalidate")

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"revalidated":true`)
				So(deps.revalidated, ShouldEqual, 1)
			})
		})

		Convey("When a refresh is already pending", func() {
			deps.revalidateErr = model.ErrBackpressure
			w := do(mux, http.MethodPost, "/api/revalidate")

			Convey("Then it is rejected with 429", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(w.Body.String(), ShouldContainSubstring, "backpressure")
			})
		})

		Convey("When the service cannot refresh", func() {
			deps.revalidateErr = context.Canceled
			So(do(mux, http.MethodPost, "/api/revalidate").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When using GET", func() {
			So(do(mux, http.MethodGet, "/api/revalidate").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the wrapped handler", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		deps := &mockDeps{snap: fixtureSnapshot()}
		server := api.NewServer(deps, &mockStatsProvider{}, api.WithRateLimit(1, 2))
		mux := http.NewServeMux()
		server.Register(ctx, mux)
		h := server.Handler(ctx, mux)

		Convey("Then a request id is minted or echoed", func() {
			w := do(h, http.MethodGet, "/api/totals")
			So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			w = do(h, http.MethodGet, "/api/totals", "X-Request-ID", "abc")
			So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc")
		})

		Convey("Then a client over its burst is limited", func() {
			codes := []int{}
			for i := 0; i < 3; i++ {
				codes = append(codes, do(h, http.MethodGet, "/api/totals", "X-Forwarded-For", "10.0.0.1, 10.0.0.2").Code)
			}
			So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})

			Convey("And other clients are unaffected", func() {
				So(do(h, http.MethodGet, "/api/totals", "X-Forwarded-For", "10.0.0.9").Code, ShouldEqual, http.StatusOK)
			})
		})
	})

	Convey("Given a rate limiter", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		l := api.NewRateLimiter(ctx, 10, 1)

		Convey("Then clients are tracked separately", func() {
			So(l.Allow("a"), ShouldBeTrue)
			So(l.Allow("a"), ShouldBeFalse)
			So(l.Allow("b"), ShouldBeTrue)
			So(l.Len(), ShouldEqual, 2)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given an operation error", t, func() {
		err := api.WrapKind("api.op", api.ErrBadRequest, context.Canceled)

		Convey("Then both the kind and the cause match", func() {
			So(strings.HasPrefix(err.Error(), "api.op: bad request"), ShouldBeTrue)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(errors.Is(api.NewKind("op", api.ErrNotFound), api.ErrNotFound), ShouldBeTrue)
		})
	})
}
