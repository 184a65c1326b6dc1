package api

import (
	"context"
	"net/http"
)

// SchoolsDependencies defines the interface for school ranking operations.
type SchoolsDependencies interface {
	TopSchools(ctx context.Context, n int) ([]SchoolEntry, error)
}

// SchoolsHandler handles school ranking requests.
type SchoolsHandler struct {
	deps     SchoolsDependencies
	maxLimit int
}

// NewSchoolsHandler creates a new schools handler.
func NewSchoolsHandler(deps SchoolsDependencies, maxLimit int) *SchoolsHandler {
	return &SchoolsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetSchools handles GET /schools?limit=N requests.
func (h *SchoolsHandler) HandleGetSchools(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_schools"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, ok := parseLimit(r, h.maxLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, code, NewKind(op, ErrBadRequest))
		return
	}
	schools, err := h.deps.TopSchools(r.Context(), n)
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, schools)
}
