package handlers

import (
	"net/http"

	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/pkg/logger"
)

// AdminHandler processes administrative HTTP requests
type AdminHandler struct {
	Service *services.AdminService
	Log     *logger.Logger
}

// NewAdminHandler creates handler with injected admin service
func NewAdminHandler(service *services.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{Service: service, Log: log}
}

// FactoryReset handles POST /api/admin/factory-reset - wipes everything
func (h *AdminHandler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.FactoryReset(r.Context()); err != nil {
		h.Log.Error("factory reset failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Factory reset failed")
		return
	}
	WriteJSON(w, http.StatusOK, "Factory reset completed", nil)
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, "Stats retrieved", h.Service.Stats(r.Context()))
}

// ReloadCatalog handles POST /api/admin/catalog/reload - starts a background
// reload and returns the task id for polling
func (h *AdminHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	taskID := h.Service.ReloadCatalog(r.Context())
	WriteJSON(w, http.StatusAccepted, "Catalog reload started", map[string]string{
		"task_id": taskID,
	})
}
