package api

import (
	"context"
	"net/http"
)

// ReportDependencies defines the interface for the text report.
type ReportDependencies interface {
	Report(ctx context.Context) ([]byte, error)
}

// ReportHandler serves the text report.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /report requests. The body is byte-identical
// to the report file.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	text, err := h.deps.Report(r.Context())
	if err != nil {
		writeDependencyError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}
