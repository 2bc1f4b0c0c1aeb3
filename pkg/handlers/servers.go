package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/repositories"
)

// ServersHandler serves the CMDB server inventory.
type ServersHandler struct {
	repo   repositories.ServerRepository
	logger *zap.Logger
}

// NewServersHandler creates a new servers handler.
func NewServersHandler(repo repositories.ServerRepository, logger *zap.Logger) *ServersHandler {
	return &ServersHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the servers handler's routes on the given mux.
func (h *ServersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/servers", h.List)
}

// List handles GET /api/servers.
func (h *ServersHandler) List(w http.ResponseWriter, r *http.Request) {
	servers, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list servers", zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, Result{Success: true, Data: servers}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
