package metrics_test

import (
	"testing"

	"github.com/jakedibattista/Scout/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("scout_test"),
		)

		Convey("Then construction registers collectors without panicking", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})

		Convey("And duplicate registration on the same registry panics", func() {
			So(func() {
				metrics.NewManager(metrics.WithPrometheusRegistry(reg), metrics.WithNamespace("scout_test"))
			}, ShouldPanic)
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then recording does not panic and the registry gathers", func() {
			So(func() {
				metrics.RecordSearch()
				metrics.RecordSearchDuration(12.5)
				metrics.RecordCandidatesConsidered(10)
				metrics.RecordCandidatesMatched(3)
				metrics.RecordResultsReturned(3)
				metrics.RecordPlannerCall()
				metrics.RecordPlannerRetry()
				metrics.RecordPlannerFallback()
				metrics.RecordPlannerLatency(101)
				metrics.RecordStoreQueryLatency(2)
				metrics.RecordBundleFetchChunk()
				metrics.RecordSavedSearchCreate()
				metrics.RecordSavedSearchDuplicate()
				metrics.RecordHTTPRequest("search", "POST", "200")
				metrics.RecordHTTPRequestDuration("search", "POST", "200", 20)
				metrics.RecordErrorByComponent("planner", "timeout")
			}, ShouldNotPanic)

			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
