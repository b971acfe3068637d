package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jakedibattista/Scout/internal/adapters/http/api"
	repository "github.com/jakedibattista/Scout/internal/adapters/repository"
	service "github.com/jakedibattista/Scout/internal/app"
	"github.com/jakedibattista/Scout/internal/domain/model"
)

// mockDeps is a canned implementation of api.Dependencies.
type mockDeps struct {
	searchResult *service.SearchResult
	searchErr    error

	saved     model.SavedSearch
	duplicate bool
	saveErr   error

	list    []model.SavedSearch
	listErr error

	deleteErr error
}

func (m *mockDeps) Search(context.Context, string, string) (*service.SearchResult, error) {
	return m.searchResult, m.searchErr
}

func (m *mockDeps) SaveSearch(context.Context, string, string, bool) (model.SavedSearch, bool, error) {
	return m.saved, m.duplicate, m.saveErr
}

func (m *mockDeps) ListSavedSearches(context.Context, string) ([]model.SavedSearch, error) {
	return m.list, m.listErr
}

func (m *mockDeps) DeleteSavedSearch(context.Context, string) error {
	return m.deleteErr
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	Convey("Given the search endpoint", t, func() {
		Convey("When posting a valid search", func() {
			deps := &mockDeps{searchResult: &service.SearchResult{
				Plan: model.QueryPlan{
					Intent: model.IntentSpeed,
					Sort:   model.PlanSort{By: model.SortSpeedScore, Direction: model.SortDesc},
				},
				Results: []model.RankedResult{
					{AthleteID: "ath-1", Name: "Jo Miller", SpeedScore: 6, Summary: "Shuttle: 3.80s · Dash: 2.40s"},
				},
				Considered: 4,
				Matched:    1,
			}}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/search", map[string]string{
				"scoutUsername": "coach_amy",
				"query":         "fastest attackers",
			})

			Convey("Then it returns the ranked results envelope", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					OK      bool                 `json:"ok"`
					Plan    model.QueryPlan      `json:"plan"`
					Results []model.RankedResult `json:"results"`
					Matched int                  `json:"matched"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.OK, ShouldBeTrue)
				So(resp.Plan.Intent, ShouldEqual, model.IntentSpeed)
				So(resp.Results, ShouldHaveLength, 1)
				So(resp.Results[0].Summary, ShouldContainSubstring, "Shuttle")
				So(resp.Matched, ShouldEqual, 1)
			})
		})

		Convey("When the scout username is missing", func() {
			mux := newTestMux(&mockDeps{})

			rec := postJSON(mux, "/search", map[string]string{"query": "anything"})

			Convey("Then it returns 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "scoutUsername")
			})
		})

		Convey("When the query is empty", func() {
			deps := &mockDeps{searchResult: &service.SearchResult{
				Plan: model.QueryPlan{
					Intent: model.IntentGeneral,
					Sort:   model.PlanSort{By: model.SortRelevance, Direction: model.SortDesc},
				},
			}}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/search", map[string]string{"scoutUsername": "coach_amy"})

			Convey("Then the search still runs on the default plan", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"relevance"`)
			})
		})

		Convey("When the body is not JSON", func() {
			mux := newTestMux(&mockDeps{})

			req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the scout is unknown", func() {
			deps := &mockDeps{searchErr: fmt.Errorf("look up scout: %w", repository.ErrScoutNotFound)}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/search", map[string]string{
				"scoutUsername": "nobody",
				"query":         "anything",
			})

			Convey("Then it returns 404 with the failure envelope", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)

				var resp struct {
					OK    bool   `json:"ok"`
					Error string `json:"error"`
					Code  string `json:"code"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.OK, ShouldBeFalse)
				So(resp.Error, ShouldNotBeEmpty)
				So(resp.Code, ShouldEqual, "scout_not_found")
			})
		})

		Convey("When the pipeline fails", func() {
			deps := &mockDeps{searchErr: errors.New("store unavailable")}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/search", map[string]string{
				"scoutUsername": "coach_amy",
				"query":         "anything",
			})

			Convey("Then it returns 500 with a generic error", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)

				var resp struct {
					OK    bool   `json:"ok"`
					Error string `json:"error"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.OK, ShouldBeFalse)
				So(resp.Error, ShouldEqual, http.StatusText(http.StatusInternalServerError))
				So(rec.Body.String(), ShouldNotContainSubstring, "store unavailable")
			})
		})

		Convey("When using the wrong method", func() {
			mux := newTestMux(&mockDeps{})

			req := httptest.NewRequest(http.MethodGet, "/search", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSavedSearchEndpoints(t *testing.T) {
	Convey("Given the saved search endpoints", t, func() {
		Convey("When saving a new search", func() {
			deps := &mockDeps{saved: model.SavedSearch{ID: "ss-1", ScoutID: "scout-1", Query: "attackers in maryland"}}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/searches", map[string]any{
				"scoutUsername": "coach_amy",
				"query":         "attackers in maryland",
				"notifyEmail":   true,
			})

			Convey("Then it returns 201 with the stored record", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var resp struct {
					Saved     model.SavedSearch `json:"saved"`
					Duplicate bool              `json:"duplicate"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Saved.ID, ShouldEqual, "ss-1")
				So(resp.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When saving a duplicate search", func() {
			deps := &mockDeps{saved: model.SavedSearch{ID: "ss-1"}, duplicate: true}
			mux := newTestMux(deps)

			rec := postJSON(mux, "/searches", map[string]any{
				"scoutUsername": "coach_amy",
				"query":         "attackers in maryland",
			})

			Convey("Then it returns 200 and flags the duplicate", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When listing saved searches", func() {
			deps := &mockDeps{list: []model.SavedSearch{{ID: "ss-2"}, {ID: "ss-1"}}}
			mux := newTestMux(deps)

			req := httptest.NewRequest(http.MethodGet, "/searches?scoutUsername=coach_amy", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns the list", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var list []model.SavedSearch
				So(json.Unmarshal(rec.Body.Bytes(), &list), ShouldBeNil)
				So(list, ShouldHaveLength, 2)
				So(list[0].ID, ShouldEqual, "ss-2")
			})
		})

		Convey("When listing without a scout username", func() {
			mux := newTestMux(&mockDeps{})

			req := httptest.NewRequest(http.MethodGet, "/searches", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When deleting a saved search", func() {
			mux := newTestMux(&mockDeps{})

			req := httptest.NewRequest(http.MethodDelete, "/searches/ss-1", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 204", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When deleting an unknown saved search", func() {
			deps := &mockDeps{deleteErr: repository.ErrSavedSearchNotFound}
			mux := newTestMux(deps)

			req := httptest.NewRequest(http.MethodDelete, "/searches/ss-404", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		mux := newTestMux(&mockDeps{})

		Convey("When requesting stats", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it returns the provider snapshot", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})

		Convey("When requesting health", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it serves Prometheus metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "scout_search")
			})
		})
	})
}
