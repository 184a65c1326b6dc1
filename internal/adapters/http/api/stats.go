package api

import (
	"net/http"
)

// StatsProvider defines the interface for getting run statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	maxLimit      int
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, maxLimit int) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, maxLimit: maxLimit}
}

// HandleStats handles GET /stats requests. The provider's statistics are
// returned together with the API's own limit.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := map[string]interface{}{}
	if h.statsProvider != nil {
		for k, v := range h.statsProvider.GetStats() {
			stats[k] = v
		}
	}
	stats["maxLimit"] = h.maxLimit
	writeJSON(w, http.StatusOK, stats)
}
