package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/services"
)

// InspectionReportRequest carries the inspection records to summarize.
type InspectionReportRequest struct {
	Entries []services.InspectionEntry `json:"entries"`
}

// InspectionReportResponse carries the generated summary text.
type InspectionReportResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// ReportsHandler serves the inspection health-report summary.
type ReportsHandler struct {
	reportService services.ReportService
	logger        *zap.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(reportService services.ReportService, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{reportService: reportService, logger: logger}
}

// RegisterRoutes registers the reports handler's routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/reports/inspection", h.Inspection)
}

// Inspection handles POST /api/reports/inspection.
func (h *ReportsHandler) Inspection(w http.ResponseWriter, r *http.Request) {
	var req InspectionReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := WriteError(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	summary, err := h.reportService.InspectionSummary(r.Context(), req.Entries)
	if err != nil {
		h.logger.Error("Failed to generate inspection summary", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, InspectionReportResponse{Success: true, Summary: summary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
