package handlers

import (
	"net/http"

	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
)

// AwardsHandler serves achievements, certificates and learner stats
type AwardsHandler struct {
	Service  *services.ProgressService
	Sessions *session.Store
	Log      *logger.Logger
}

// NewAwardsHandler creates handler with injected dependencies
func NewAwardsHandler(service *services.ProgressService, sessions *session.Store, log *logger.Logger) *AwardsHandler {
	return &AwardsHandler{Service: service, Sessions: sessions, Log: log}
}

// ListAchievements handles GET /api/achievements
func (h *AwardsHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	achievements, err := h.Service.ListAchievements(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Achievements retrieved", achievements)
}

// ListCertificates handles GET /api/certificates
func (h *AwardsHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	certificates, err := h.Service.ListCertificates(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Certificates retrieved", certificates)
}

// IssueCertificate handles POST /api/courses/{courseID}/certificate
func (h *AwardsHandler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	courseID := r.PathValue("courseID")

	var input models.IssueCertificateInput
	if err := DecodeJSONBody(r, &input); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.Grade == nil {
		WriteError(w, http.StatusBadRequest, "grade is required")
		return
	}

	// the certificate prints the profile name when we have one
	userName := ""
	if profile, err := h.Sessions.Get(userID); err == nil {
		userName = profile.Name
	}

	cert, err := h.Service.IssueCertificate(r.Context(), userID, userName, courseID, *input.Grade)
	if err != nil {
		h.Log.Warn("certificate issuance rejected", "course_id", courseID, "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, "Certificate issued", cert)
}

// GetStats handles GET /api/stats
func (h *AwardsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	stats, err := h.Service.ComputeUserStats(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Stats computed", stats)
}
