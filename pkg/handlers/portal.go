package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/models"
	"github.com/tiangong-ops/opshub/pkg/repositories"
)

// recentAnnouncementLimit caps the landing-page announcement list.
const recentAnnouncementLimit = 5

// PortalDataResponse is the landing-page payload.
type PortalDataResponse struct {
	Success       bool                   `json:"success"`
	Apps          []*models.SubApp       `json:"apps"`
	Announcements []*models.Announcement `json:"announcements"`
}

// PortalHandler serves the portal shell's landing-page data.
type PortalHandler struct {
	repo   repositories.PortalRepository
	logger *zap.Logger
}

// NewPortalHandler creates a new portal handler.
func NewPortalHandler(repo repositories.PortalRepository, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the portal handler's routes on the given mux.
func (h *PortalHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/portal/data", h.Data)
}

// Data handles GET /api/portal/data.
func (h *PortalHandler) Data(w http.ResponseWriter, r *http.Request) {
	apps, err := h.repo.ListSubApps(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sub-apps", zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	announcements, err := h.repo.RecentAnnouncements(r.Context(), recentAnnouncementLimit)
	if err != nil {
		h.logger.Error("Failed to list announcements", zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	resp := PortalDataResponse{
		Success:       true,
		Apps:          apps,
		Announcements: announcements,
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
