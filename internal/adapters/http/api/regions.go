package api

import (
	"context"
	"net/http"

	"github.com/okian/zrinyi/internal/domain/model"
)

// RegionsDependencies defines the interface for region summary operations.
type RegionsDependencies interface {
	Regions(ctx context.Context) ([]model.RegionStatus, error)
}

// RegionsHandler handles region summary requests.
type RegionsHandler struct {
	deps RegionsDependencies
}

// NewRegionsHandler creates a new regions handler.
func NewRegionsHandler(deps RegionsDependencies) *RegionsHandler {
	return &RegionsHandler{deps: deps}
}

// HandleGetRegions handles GET /regions requests.
func (h *RegionsHandler) HandleGetRegions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_regions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	regions, err := h.deps.Regions(r.Context())
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}
