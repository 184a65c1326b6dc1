// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/zrinyi/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	SchoolsDependencies
	RegionsDependencies
	ReportDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = model.RankedRecord

// SchoolEntry mirrors the read shape returned by school queries.
type SchoolEntry = model.RankedSchool

// Server wires HTTP routes for the results API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	schoolsHandler     *SchoolsHandler
	regionsHandler     *RegionsHandler
	reportHandler      *ReportHandler
}

// NewServer creates a new API server with all handlers. maxLimit bounds the
// limit query parameter of the list endpoints.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider, maxLimit),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		schoolsHandler:     NewSchoolsHandler(deps, maxLimit),
		regionsHandler:     NewRegionsHandler(deps),
		reportHandler:      NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/schools", MetricsMiddleware(s.schoolsHandler.HandleGetSchools, "schools"))
	mux.HandleFunc("/regions", MetricsMiddleware(s.regionsHandler.HandleGetRegions, "regions"))
	mux.HandleFunc("/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDependencyError translates an upstream failure into a response.
func writeDependencyError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}

// parseLimit reads the limit query parameter. An absent limit means maxLimit.
func parseLimit(r *http.Request, maxLimit int) (int, string, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return maxLimit, "", true
	}
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		return 0, "bad_request", false
	}
	if n > maxLimit {
		return 0, "limit_exceeded", false
	}
	return n, "", true
}
