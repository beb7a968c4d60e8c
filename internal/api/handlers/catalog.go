package handlers

import (
	"net/http"

	"github.com/fenix-academy/progress-backend/internal/catalog"
)

// CatalogHandler serves the static course metadata
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

// NewCatalogHandler creates handler with the injected catalog
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: cat}
}

// List handles GET /api/catalog - all known courses
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, "Catalog retrieved", h.Catalog.Courses())
}

// Get handles GET /api/catalog/{courseID}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	meta := h.Catalog.Course(r.PathValue("courseID"))
	if meta == nil {
		WriteError(w, http.StatusNotFound, "Course not found")
		return
	}
	WriteJSON(w, http.StatusOK, "Course retrieved", meta)
}
