package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/models"
	"github.com/tiangong-ops/opshub/pkg/probe"
	"github.com/tiangong-ops/opshub/pkg/services"
)

// SourcePayload is the wire representation of a data source. The secret
// travels inbound only; list responses never carry it.
type SourcePayload struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Database    string `json:"database"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	Status      string `json:"status,omitempty"`
	LastScanned string `json:"lastScanned,omitempty"`
}

// TestPayload is the wire shape for a connectivity test: a save payload
// minus the id. The parameters need not match any stored record.
type TestPayload struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func toModel(p *SourcePayload) *models.DataSource {
	return &models.DataSource{
		ID:          p.ID,
		Name:        p.Name,
		EngineType:  p.Type,
		Host:        p.Host,
		Port:        p.Port,
		Database:    p.Database,
		Username:    p.Username,
		Secret:      p.Password,
		Status:      p.Status,
		LastScanned: p.LastScanned,
	}
}

func toPayload(ds *models.DataSource) SourcePayload {
	return SourcePayload{
		ID:          ds.ID,
		Name:        ds.Name,
		Type:        ds.EngineType,
		Host:        ds.Host,
		Port:        ds.Port,
		Database:    ds.Database,
		Username:    ds.Username,
		Status:      ds.Status,
		LastScanned: ds.LastScanned,
	}
}

// SourcesHandler handles data-source registry HTTP requests.
type SourcesHandler struct {
	sourceService services.SourceService
	logger        *zap.Logger
}

// NewSourcesHandler creates a new sources handler.
func NewSourcesHandler(sourceService services.SourceService, logger *zap.Logger) *SourcesHandler {
	return &SourcesHandler{
		sourceService: sourceService,
		logger:        logger,
	}
}

// RegisterRoutes registers the sources handler's routes on the given mux.
func (h *SourcesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sources", h.List)
	mux.HandleFunc("POST /api/sources", h.Save)
	mux.HandleFunc("DELETE /api/sources/{id}", h.Delete)
	mux.HandleFunc("POST /api/sources/test", h.Test)
	mux.HandleFunc("GET /api/sources/engines", h.Engines)
}

// List handles GET /api/sources.
// Returns all registered data sources with secrets redacted. A store
// outage yields 503, distinct from an empty list, so clients can show
// an offline state instead of an empty one.
func (h *SourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sourceService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list data sources", zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	payloads := make([]SourcePayload, len(sources))
	for i, ds := range sources {
		payloads[i] = toPayload(ds)
	}

	if err := WriteJSON(w, http.StatusOK, payloads); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Save handles POST /api/sources.
// Upserts a data source by id. An omitted or empty password on an
// existing id keeps the stored secret unchanged.
func (h *SourcesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SourcePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := WriteError(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	saved, err := h.sourceService.Save(r.Context(), toModel(&req))
	if err != nil {
		h.logger.Error("Failed to save data source",
			zap.String("id", req.ID),
			zap.String("name", req.Name),
			zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	resp := toPayload(saved)
	if err := WriteJSON(w, http.StatusOK, Result{Success: true, Data: resp}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/sources/{id}.
// Deleting an absent id returns 404 so clients can treat the row as
// already gone.
func (h *SourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		if err := WriteError(w, http.StatusBadRequest, "id is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.sourceService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete data source",
			zap.String("id", id),
			zap.Error(err))
		if err := WriteError(w, statusFor(err), err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, Result{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Test handles POST /api/sources/test.
// Probes connectivity with the submitted parameters without persisting
// anything. Probe failures are 200 with success=false and the driver's
// literal error text, since an unreachable target is a valid outcome,
// not a request error.
func (h *SourcesHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := WriteError(w, http.StatusBadRequest, "invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Type == "" {
		if err := WriteError(w, http.StatusBadRequest, "engine type is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	params := probe.Params{
		EngineType: req.Type,
		Host:       req.Host,
		Port:       req.Port,
		Database:   req.Database,
		Username:   req.Username,
		Secret:     req.Password,
	}

	if err := h.sourceService.Test(r.Context(), params); err != nil {
		h.logger.Info("Connection test failed",
			zap.String("engine_type", req.Type),
			zap.String("host", req.Host),
			zap.Error(err))
		if err := WriteJSON(w, http.StatusOK, Result{Success: false, Error: err.Error()}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, Result{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Engines handles GET /api/sources/engines.
// Tells the UI which engine types currently have a prober.
func (h *SourcesHandler) Engines(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.sourceService.Engines()); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
