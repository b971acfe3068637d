package filter_test

import (
	"testing"

	"github.com/jakedibattista/Scout/internal/domain/filter"
	"github.com/jakedibattista/Scout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCanonicalPosition(t *testing.T) {
	Convey("Given the position synonym table", t, func() {
		So(filter.CanonicalPosition("Defender"), ShouldEqual, "defense")
		So(filter.CanonicalPosition("defence"), ShouldEqual, "defense")
		So(filter.CanonicalPosition("D Pole"), ShouldEqual, "defense")
		So(filter.CanonicalPosition("Face-Off"), ShouldEqual, "faceoff")
		So(filter.CanonicalPosition("FOGO"), ShouldEqual, "faceoff")
		So(filter.CanonicalPosition("middie"), ShouldEqual, "midfield")
		So(filter.CanonicalPosition("Attackman"), ShouldEqual, "attack")
		So(filter.CanonicalPosition("Keeper"), ShouldEqual, "goalie")

		Convey("And unknown labels pass through lowercased", func() {
			So(filter.CanonicalPosition(" Wing "), ShouldEqual, "wing")
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given scout preferences and plan filters", t, func() {
		prefs := model.ScoutPreferences{
			Sport:               "lacrosse",
			RecruitingStates:    []string{"MD", "VA"},
			PositionFocus:       []string{"Defense", "Midfield"},
			GradYearsRecruiting: []int{2026, 2027},
		}

		Convey("When the plan specifies nothing, standing preferences are adopted", func() {
			eff := filter.Merge(prefs, model.PlanFilters{})

			So(eff.Sport, ShouldEqual, "lacrosse")
			So(eff.Positions, ShouldResemble, []string{"defense", "midfield"})
			So(eff.RecruitingStates, ShouldResemble, []string{"MD", "VA"})
			So(eff.GradYears, ShouldResemble, []int{2026, 2027})
		})

		Convey("When the plan proposes values, the standing focus narrows them", func() {
			eff := filter.Merge(prefs, model.PlanFilters{
				Positions:           []string{"defender", "attack"},
				RecruitingStates:    []string{"md"},
				GradYearsRecruiting: []int{2027, 2028},
			})

			So(eff.Positions, ShouldResemble, []string{"defense"})
			So(eff.RecruitingStates, ShouldResemble, []string{"MD"})
			So(eff.GradYears, ShouldResemble, []int{2027})
		})

		Convey("When the plan and focus do not overlap, the result is empty", func() {
			eff := filter.Merge(
				model.ScoutPreferences{PositionFocus: []string{"Midfield"}},
				model.PlanFilters{Positions: []string{"Attack"}},
			)
			So(eff.Positions, ShouldBeEmpty)
		})

		Convey("When only the plan specifies a set, it is used as-is", func() {
			eff := filter.Merge(model.ScoutPreferences{}, model.PlanFilters{
				Positions: []string{"FOGO", "face-off"},
			})
			So(eff.Positions, ShouldResemble, []string{"faceoff"})
		})

		Convey("Then fields with no standing analog pass through", func() {
			eff := filter.Merge(prefs, model.PlanFilters{
				GradYearMin: intPtr(2026),
				GradYearMax: intPtr(2028),
				GPAMin:      floatPtr(3.5),
				Goal:        " play D1 ",
				ClubTeam:    "Crabs",
			})

			So(*eff.GradYearMin, ShouldEqual, 2026)
			So(*eff.GradYearMax, ShouldEqual, 2028)
			So(*eff.GPAMin, ShouldEqual, 3.5)
			So(eff.Goal, ShouldEqual, "play D1")
			So(eff.ClubTeam, ShouldEqual, "Crabs")
		})

		Convey("Then the plan never overrides sport", func() {
			eff := filter.Merge(prefs, model.PlanFilters{})
			So(eff.Sport, ShouldEqual, "lacrosse")
		})
	})
}
