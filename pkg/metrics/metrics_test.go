package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("arena"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors should be registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.battlesInvalid.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_arena_battles_invalid_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording battles", func() {
			before := testutil.ToFloat64(globalManager.battlesResolved.WithLabelValues("Thor"))
			RecordBattle("Thor", 0.05, false)
			RecordBattle("Thor", 0, true)

			Convey("Then the winner counter should grow", func() {
				So(testutil.ToFloat64(globalManager.battlesResolved.WithLabelValues("Thor")), ShouldEqual, before+2)
			})
		})

		Convey("When recording the remaining collectors", func() {
			So(func() {
				RecordBattleAttribute("speed", "tie")
				RecordInvalidProfile()
				RecordRevealDelay(2000)
				ArenaOpened()
				ArenaClosed()
				RecordArenaTransition("Revealed")
				RecordStaleReveal()
				RecordSignupAccepted()
				RecordSignupDuplicate()
				RecordSignupRejected("invalid_email")
				UpdateSubscribers(3)
				UpdateQueueSize(1)
				UpdateQueueCapacity(10)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError("full")
				UpdateWorkerCount(2)
				RecordWorkerError("store")
				RecordWorkerLatency(1.5)
				RecordHTTPRequest("battles", "POST", "200")
				RecordHTTPRequestDuration("battles", "POST", "200", 3)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("When gathering the global registry", func() {
			RecordInvalidProfile()
			families, err := GetRegistry().Gather()

			Convey("Then herofan metrics should be exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "herofan_battles_invalid_total")
			})
		})
	})
}
