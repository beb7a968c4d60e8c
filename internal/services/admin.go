package services

import (
	"context"
	"fmt"

	"github.com/fenix-academy/progress-backend/internal/catalog"
	"github.com/fenix-academy/progress-backend/internal/storage"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
	"github.com/fenix-academy/progress-backend/pkg/task"
)

// AdminService handles administrative operations like factory reset
type AdminService struct {
	Blobs    storage.BlobStore
	Progress *ProgressService
	Sessions *session.Store
	Tasks    *task.Manager
	Catalog  *catalog.Catalog
	Log      *logger.Logger
}

// NewAdminService creates admin service with its dependencies
func NewAdminService(blobs storage.BlobStore, progress *ProgressService, sessions *session.Store, tasks *task.Manager, cat *catalog.Catalog, log *logger.Logger) *AdminService {
	return &AdminService{
		Blobs:    blobs,
		Progress: progress,
		Sessions: sessions,
		Tasks:    tasks,
		Catalog:  cat,
		Log:      log,
	}
}

// FactoryReset wipes all progress blobs, profiles and finished tasks
func (s *AdminService) FactoryReset(ctx context.Context) error {
	s.Log.Info("starting factory reset")

	if err := s.Blobs.ResetAll(ctx); err != nil {
		return fmt.Errorf("wiping progress blobs: %w", err)
	}
	// forget cached states so nothing stale gets written back afterwards
	s.Progress.DropCaches()

	if err := s.Sessions.ClearAll(); err != nil {
		s.Log.Warn("failed to clear profiles during reset", "error", err)
		// progress is already gone, don't fail the whole reset for this
	}

	s.Tasks.CleanupOld(0)

	s.Log.Info("factory reset completed")
	return nil
}

// Stats returns basic counts about the deployment
func (s *AdminService) Stats(ctx context.Context) map[string]int {
	return map[string]int{
		"profiles": len(s.Sessions.List()),
		"courses":  s.Catalog.Len(),
	}
}

// ReloadCatalog re-reads the course metadata directory as a tracked
// background task and returns the task id immediately
func (s *AdminService) ReloadCatalog(ctx context.Context) string {
	taskID := s.Tasks.Create("catalog_reload")

	go func() {
		s.Tasks.Start(taskID)
		if err := s.Catalog.Reload(); err != nil {
			s.Log.Error("catalog reload failed", "task_id", taskID, "error", err)
			s.Tasks.Fail(taskID, err.Error())
			return
		}
		s.Tasks.Complete(taskID, map[string]int{"courses": s.Catalog.Len()})
	}()

	return taskID
}
