package handlers

import (
	"net/http"
	"time"

	"github.com/fenix-academy/progress-backend/pkg/task"
)

// TaskHandler lets clients poll background task status
type TaskHandler struct {
	Tasks *task.Manager
}

// NewTaskHandler creates handler with the injected task manager
func NewTaskHandler(tasks *task.Manager) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// Get handles GET /api/tasks?id=<taskID>
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		WriteError(w, http.StatusBadRequest, "Task ID is required")
		return
	}

	t, exists := h.Tasks.Get(taskID)
	if !exists {
		WriteError(w, http.StatusNotFound, "Task not found")
		return
	}
	WriteJSON(w, http.StatusOK, "Task retrieved", t)
}

// Cleanup handles POST /api/tasks/cleanup - drops finished tasks older than
// an hour
func (h *TaskHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	cleaned := h.Tasks.CleanupOld(1 * time.Hour)
	WriteJSON(w, http.StatusOK, "Cleanup completed", map[string]int{"cleaned": cleaned})
}
