package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
)

// ProgressHandler processes lesson/module/course progress HTTP requests
type ProgressHandler struct {
	Service  *services.ProgressService
	Sessions *session.Store
	Log      *logger.Logger
}

// NewProgressHandler creates handler with injected dependencies
func NewProgressHandler(service *services.ProgressService, sessions *session.Store, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{Service: service, Sessions: sessions, Log: log}
}

// resolveUser picks the acting user: explicit ?user= query param wins,
// otherwise the active profile on this device
func resolveUser(r *http.Request, sessions *session.Store) (uuid.UUID, error) {
	if raw := r.URL.Query().Get("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, session.ErrProfileNotFound
		}
		return id, nil
	}
	current := sessions.Current()
	if current == uuid.Nil {
		return uuid.Nil, session.ErrNoActiveProfile
	}
	return current, nil
}

// lessonKeyFromPath parses {courseID}/{moduleID}/{lessonID} path values
func lessonKeyFromPath(r *http.Request) (models.LessonKey, bool) {
	moduleID, err := strconv.Atoi(r.PathValue("moduleID"))
	if err != nil {
		return models.LessonKey{}, false
	}
	lessonID, err := strconv.Atoi(r.PathValue("lessonID"))
	if err != nil {
		return models.LessonKey{}, false
	}
	courseID := r.PathValue("courseID")
	if courseID == "" {
		return models.LessonKey{}, false
	}
	return models.LessonKey{CourseID: courseID, ModuleID: moduleID, LessonID: lessonID}, true
}

// StartLesson handles POST /api/progress/{courseID}/{moduleID}/{lessonID}/start
func (h *ProgressHandler) StartLesson(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	key, ok := lessonKeyFromPath(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid lesson identifiers")
		return
	}

	row, err := h.Service.StartLesson(r.Context(), userID, key)
	if err != nil {
		h.Log.Error("start lesson failed", "lesson", key.String(), "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Lesson started", row)
}

// CompleteLesson handles POST /api/progress/{courseID}/{moduleID}/{lessonID}/complete
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	key, ok := lessonKeyFromPath(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid lesson identifiers")
		return
	}

	// score is optional - quizzes send one, plain lessons don't
	var body struct {
		Score *int `json:"score"`
	}
	if r.ContentLength > 0 {
		if err := DecodeJSONBody(r, &body); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	row, earned, err := h.Service.CompleteLesson(r.Context(), userID, key, body.Score)
	if err != nil {
		h.Log.Error("complete lesson failed", "lesson", key.String(), "error", err)
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, "Lesson completed", map[string]interface{}{
		"lesson":           row,
		"new_achievements": earned,
	})
}

// AddTime handles POST /api/progress/{courseID}/{moduleID}/{lessonID}/time
func (h *ProgressHandler) AddTime(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	key, ok := lessonKeyFromPath(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid lesson identifiers")
		return
	}

	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := DecodeJSONBody(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := h.Service.AddTime(r.Context(), userID, key, body.Minutes)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Time recorded", row)
}

// SubmitProject handles POST /api/progress/{courseID}/{moduleID}/{lessonID}/submissions
func (h *ProgressHandler) SubmitProject(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	key, ok := lessonKeyFromPath(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid lesson identifiers")
		return
	}

	var input models.CreateSubmissionInput
	if err := DecodeJSONBody(r, &input); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.Title == "" {
		WriteError(w, http.StatusBadRequest, "submission title is required")
		return
	}

	submission, err := h.Service.SubmitProject(r.Context(), userID, key, input)
	if err != nil {
		h.Log.Error("project submission failed", "lesson", key.String(), "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, "Project submitted", submission)
}

// GetLesson handles GET /api/progress/{courseID}/{moduleID}/{lessonID}
func (h *ProgressHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	key, ok := lessonKeyFromPath(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid lesson identifiers")
		return
	}

	row, err := h.Service.GetLessonProgress(r.Context(), userID, key)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	// untouched lessons read back as null, probing is routine for the UI
	WriteJSON(w, http.StatusOK, "Lesson progress", row)
}

// GetModule handles GET /api/progress/{courseID}/{moduleID}
func (h *ProgressHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	moduleID, err := strconv.Atoi(r.PathValue("moduleID"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid module id")
		return
	}
	key := models.ModuleKey{CourseID: r.PathValue("courseID"), ModuleID: moduleID}

	progress, err := h.Service.GetModuleProgress(r.Context(), userID, key)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Module progress", progress)
}

// GetCourse handles GET /api/progress/{courseID}
func (h *ProgressHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	progress, err := h.Service.GetCourseProgress(r.Context(), userID, r.PathValue("courseID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Course progress", progress)
}

// ResetProgress handles DELETE /api/progress - wipes the acting user's data.
// Development/testing utility, the UI hides it behind a confirmation.
func (h *ProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := resolveUser(r, h.Sessions)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if err := h.Service.Reset(r.Context(), userID); err != nil {
		h.Log.Error("progress reset failed", "user_id", userID, "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "Progress reset", nil)
}
