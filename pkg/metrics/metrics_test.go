package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.snapshotCount.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "beerboard_dashboard_snapshots_published_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.entriesTotal.Set(7)
				So(testutil.ToFloat64(manager.entriesTotal), ShouldEqual, 7)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_sub_entries" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "beerboard")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a snapshot", func() {
			RecordSnapshot(12, 11, 3, 11, 1700000000)

			Convey("Then the snapshot gauges reflect it", func() {
				So(testutil.ToFloat64(globalManager.rowsIngested), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.entriesTotal), ShouldEqual, 11)
				So(testutil.ToFloat64(globalManager.membersTotal), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.beersTotal), ShouldEqual, 11)
				So(testutil.ToFloat64(globalManager.snapshotLastUnix), ShouldEqual, 1700000000)
			})
		})

		Convey("When counting refreshes", func() {
			before := testutil.ToFloat64(globalManager.refreshes.WithLabelValues("manual", OutcomeSuccess))
			RecordRefresh("manual", OutcomeSuccess)
			RecordRefresh("manual", OutcomeSuccess)

			Convey("Then the labelled counter grows", func() {
				after := testutil.ToFloat64(globalManager.refreshes.WithLabelValues("manual", OutcomeSuccess))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording queue metrics", func() {
			UpdateQueueSize(3)
			UpdateQueueCapacity(8)

			Convey("Then gauges are set", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 8)
			})

			Convey("And counters do not panic", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording latency, errors and system metrics", func() {
			So(func() {
				RecordRefreshLatency(12.5)
				RecordFetchLatency(10)
				RecordAggregateLatency(2.5)
				RecordFetchError("google", "timeout")
				UpdateBreakerState("sheets", 2)
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
				RecordHTTPError("leaderboard", "GET", "data_unavailable")
				RecordRateLimited("http")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the breaker gauge holds the state", func() {
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("sheets")), ShouldEqual, 2)
			})
		})

		Convey("When asking for the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
