package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/zrinyi/internal/adapters/http/api"
	"github.com/okian/zrinyi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	board   []api.Entry
	schools []api.SchoolEntry
	regions []model.RegionStatus
	report  []byte
	err     error
	lastN   int
}

func (m *mockDependencies) TopN(_ context.Context, n int) ([]api.Entry, error) {
	m.lastN = n
	if m.err != nil {
		return nil, m.err
	}
	return m.board[:min(n, len(m.board))], nil
}

func (m *mockDependencies) TopSchools(_ context.Context, n int) ([]api.SchoolEntry, error) {
	m.lastN = n
	if m.err != nil {
		return nil, m.err
	}
	return m.schools[:min(n, len(m.schools))], nil
}

func (m *mockDependencies) Regions(_ context.Context) ([]model.RegionStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.regions, nil
}

func (m *mockDependencies) Report(_ context.Context) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		board: []api.Entry{
			{CompetitorRecord: model.CompetitorRecord{Name: "Nagy Bela", Points: 100, Prior: 10}, Position: 1},
			{CompetitorRecord: model.CompetitorRecord{Name: "Kiss Anna", Points: 100, Prior: 10}, Position: 2, Tied: true},
		},
		schools: []api.SchoolEntry{
			{SchoolAggregate: model.SchoolAggregate{Key: "Iskola (Pecs)", TotalPoints: 200, TotalPrior: 20, Contributors: 2}, Position: 1},
		},
		regions: []model.RegionStatus{{ID: 10, Name: "Baranya", Records: 2}, {ID: 11, Missing: true}},
		report:  []byte("  1 Nagy Bela\n"),
	}
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newDeps()
		stats := &mockStatsProvider{stats: map[string]interface{}{"completed": true}}
		server := api.NewServer(deps, stats, 100)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then the health endpoint should expose metrics", func() {
			w := serve(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "zrinyi_results_")
		})

		Convey("Then the stats endpoint should return the provider's stats", func() {
			w := serve(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body["completed"], ShouldEqual, true)
			So(body["maxLimit"], ShouldEqual, 100.0)
		})

		Convey("Then the leaderboard should honour the limit", func() {
			w := serve(mux, http.MethodGet, "/leaderboard?limit=1")
			So(w.Code, ShouldEqual, http.StatusOK)
			var entries []map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
			So(entries[0]["name"], ShouldEqual, "Nagy Bela")
			So(entries[0]["position"], ShouldEqual, 1.0)
		})

		Convey("Then an absent limit should mean the maximum", func() {
			w := serve(mux, http.MethodGet, "/leaderboard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastN, ShouldEqual, 100)
		})

		Convey("Then the schools endpoint should list ranked schools", func() {
			w := serve(mux, http.MethodGet, "/schools?limit=5")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"school":"Iskola (Pecs)"`)
		})

		Convey("Then the regions endpoint should list every region", func() {
			w := serve(mux, http.MethodGet, "/regions")
			So(w.Code, ShouldEqual, http.StatusOK)
			var regions []model.RegionStatus
			So(json.Unmarshal(w.Body.Bytes(), &regions), ShouldBeNil)
			So(len(regions), ShouldEqual, 2)
			So(regions[1].Missing, ShouldBeTrue)
		})

		Convey("Then the report endpoint should return the text verbatim", func() {
			w := serve(mux, http.MethodGet, "/report")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/plain")
			So(w.Body.String(), ShouldEqual, "  1 Nagy Bela\n")
		})

		Convey("Then non-GET methods should not be found", func() {
			So(serve(mux, http.MethodPost, "/leaderboard?limit=1").Code, ShouldEqual, http.StatusNotFound)
			So(serve(mux, http.MethodDelete, "/report").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLimitValidation(t *testing.T) {
	Convey("Given a server with a limit of 100", t, func() {
		mux := http.NewServeMux()
		api.NewServer(newDeps(), &mockStatsProvider{}, 100).Register(context.Background(), mux)

		cases := []struct{ target, code string }{
			{"/leaderboard?limit=0", "bad_request"},
			{"/leaderboard?limit=-3", "bad_request"},
			{"/leaderboard?limit=abc", "bad_request"},
			{"/leaderboard?limit=101", "limit_exceeded"},
			{"/schools?limit=0", "bad_request"},
			{"/schools?limit=1000", "limit_exceeded"},
		}
		for _, tc := range cases {
			target, code := tc.target, tc.code
			Convey("When requesting "+target, func() {
				w := serve(mux, http.MethodGet, target)

				Convey("Then it should be rejected with "+code, func() {
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					var body map[string]string
					So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
					So(body["code"], ShouldEqual, code)
					So(body["message"], ShouldContainSubstring, "bad request")
				})
			})
		}

		Convey("When requesting the upper bound", func() {
			So(serve(mux, http.MethodGet, "/leaderboard?limit=100").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestDependencyErrors(t *testing.T) {
	Convey("Given dependencies without a completed run", t, func() {
		deps := newDeps()
		deps.err = api.Wrap("service.result", api.ErrNotReady)
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, 10).Register(context.Background(), mux)

		Convey("Then reads should answer 503", func() {
			for _, target := range []string{"/leaderboard?limit=1", "/schools", "/regions", "/report"} {
				w := serve(mux, http.MethodGet, target)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, "not_ready")
			}
		})
	})

	Convey("Given failing dependencies", t, func() {
		deps := newDeps()
		deps.err = errors.New("boom")
		mux := http.NewServeMux()
		api.NewServer(deps, &mockStatsProvider{}, 10).Register(context.Background(), mux)

		Convey("Then reads should answer 500 naming the operation", func() {
			w := serve(mux, http.MethodGet, "/leaderboard?limit=1")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "api.get_leaderboard: boom")
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given an operation name and a kind", t, func() {
		err := api.NewKind("api.get_schools", api.ErrBadRequest)

		Convey("Then the kind should be preserved and the operation named", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.get_schools: bad request")
			So(strings.HasPrefix(api.Wrap("op", err).Error(), "op: api.get_schools"), ShouldBeTrue)
		})
	})
}
