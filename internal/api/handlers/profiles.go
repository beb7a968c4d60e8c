package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
)

// ProfileHandler processes profile-related HTTP requests
type ProfileHandler struct {
	Sessions *session.Store
	Log      *logger.Logger
}

// NewProfileHandler creates handler with the injected profile registry
func NewProfileHandler(sessions *session.Store, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{Sessions: sessions, Log: log}
}

// List handles GET /api/profiles - returns all learner profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, "Profiles retrieved", map[string]interface{}{
		"profiles": h.Sessions.List(),
		"active":   h.Sessions.Current(),
	})
}

// Create handles POST /api/profiles - registers a new profile
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CreateProfileInput
	if err := DecodeJSONBody(r, &input); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.Name == "" {
		WriteError(w, http.StatusBadRequest, "Profile name is required")
		return
	}

	profile, err := h.Sessions.Create(input.Name)
	if err != nil {
		h.Log.Error("profile creation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}
	WriteJSON(w, http.StatusCreated, "Profile created", profile)
}

// Delete handles DELETE /api/profiles/{id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	if err := h.Sessions.Delete(id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, fmt.Sprintf("Profile %s deleted", id), nil)
}

// Select handles POST /api/profiles/{id}/select - sets the active profile
func (h *ProfileHandler) Select(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	if err := h.Sessions.Select(id); err != nil {
		WriteServiceError(w, err)
		return
	}
	h.Log.Info("profile selected", "profile_id", id)
	WriteJSON(w, http.StatusOK, "Profile selected", nil)
}
