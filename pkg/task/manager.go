package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status shows what state a task is in
type Status string

const (
	StatusPending    Status = "pending"    // waiting to start
	StatusProcessing Status = "processing" // currently running
	StatusCompleted  Status = "completed"  // finished successfully
	StatusFailed     Status = "failed"     // something went wrong
)

// Task represents a background job that might take a while, like a catalog
// reload or a bulk recompute
type Task struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Status       Status      `json:"status"`
	Progress     float32     `json:"progress"` // 0-100 percent done
	CreatedAt    time.Time   `json:"created_at"`
	StartedAt    time.Time   `json:"started_at,omitempty"`
	CompletedAt  time.Time   `json:"completed_at,omitempty"`
	Message      string      `json:"message,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result,omitempty"`
}

// Manager keeps track of all background tasks. It's constructed once at
// startup and passed to whoever starts jobs - no package globals.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewManager returns an empty task manager
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*Task)}
}

// Create registers a new pending task and returns its ID
func (m *Manager) Create(taskType string) string {
	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.mu.Unlock()

	return task.ID
}

// Get retrieves task info by ID
func (m *Manager) Get(taskID string) (*Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, exists := m.tasks[taskID]
	return task, exists
}

// Start marks a task as processing
func (m *Manager) Start(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusProcessing
	if task.StartedAt.IsZero() {
		task.StartedAt = time.Now()
	}
}

// UpdateProgress updates how much of the task is done
func (m *Manager) UpdateProgress(taskID string, progress float32, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Progress = progress
	task.Message = message
}

// Fail marks a task as failed with an error message
func (m *Manager) Fail(taskID string, errorMessage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusFailed
	task.ErrorMessage = errorMessage
	task.CompletedAt = time.Now()
}

// Complete marks a task as done with optional result data
func (m *Manager) Complete(taskID string, result interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return
	}
	task.Status = StatusCompleted
	task.Progress = 100
	task.Result = result
	task.CompletedAt = time.Now()
}

// CleanupOld removes finished tasks older than maxAge and returns how many
// were dropped. maxAge of zero clears everything that has finished.
func (m *Manager) CleanupOld(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for id, task := range m.tasks {
		if (task.Status == StatusCompleted || task.Status == StatusFailed) &&
			!task.CompletedAt.IsZero() && !task.CompletedAt.After(cutoff) {
			delete(m.tasks, id)
			cleaned++
		}
	}
	return cleaned
}

// CleanupRoutine runs cleanup automatically on a schedule - run it in a
// goroutine from main
func (m *Manager) CleanupRoutine(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.CleanupOld(maxAge)
	}
}
