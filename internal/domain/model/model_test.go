package model_test

import (
	"encoding/json"
	"testing"

	"github.com/jakedibattista/Scout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlanFilterAbsence(t *testing.T) {
	Convey("Given plan JSON from the planning service", t, func() {
		Convey("When scalar filters are omitted they stay nil", func() {
			var plan model.QueryPlan
			err := json.Unmarshal([]byte(`{"intent":"general","filters":{},"sort":{"by":"relevance","direction":"desc"}}`), &plan)

			So(err, ShouldBeNil)
			So(plan.Filters.GPAMin, ShouldBeNil)
			So(plan.Filters.GradYearMin, ShouldBeNil)
			So(plan.Filters.GradYearMax, ShouldBeNil)
			So(plan.Filters.Positions, ShouldBeEmpty)
		})

		Convey("When a zero floor is explicit it survives decoding", func() {
			var plan model.QueryPlan
			err := json.Unmarshal([]byte(`{"intent":"general","filters":{"gpaMin":0},"sort":{"by":"relevance","direction":"desc"}}`), &plan)

			So(err, ShouldBeNil)
			So(plan.Filters.GPAMin, ShouldNotBeNil)
			So(*plan.Filters.GPAMin, ShouldEqual, 0)
		})
	})
}
