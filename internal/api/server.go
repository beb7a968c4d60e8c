package api

import (
	"net/http"

	"github.com/fenix-academy/progress-backend/internal/api/handlers"
	"github.com/fenix-academy/progress-backend/internal/catalog"
	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
	"github.com/fenix-academy/progress-backend/pkg/task"
)

// Server holds all the app components together
type Server struct {
	Router *http.ServeMux // handles routing requests

	// handlers for different parts of the API
	ProgressHandler *handlers.ProgressHandler
	AwardsHandler   *handlers.AwardsHandler
	ProfileHandler  *handlers.ProfileHandler
	CatalogHandler  *handlers.CatalogHandler
	AdminHandler    *handlers.AdminHandler
	TaskHandler     *handlers.TaskHandler

	Log *logger.Logger
}

// NewServer wires up all the dependencies and returns a ready-to-use server
func NewServer(progress *services.ProgressService, admin *services.AdminService, cat *catalog.Catalog, sessions *session.Store, tasks *task.Manager, log *logger.Logger) *Server {
	server := &Server{
		Router:          http.NewServeMux(),
		ProgressHandler: handlers.NewProgressHandler(progress, sessions, log),
		AwardsHandler:   handlers.NewAwardsHandler(progress, sessions, log),
		ProfileHandler:  handlers.NewProfileHandler(sessions, log),
		CatalogHandler:  handlers.NewCatalogHandler(cat),
		AdminHandler:    handlers.NewAdminHandler(admin, log),
		TaskHandler:     handlers.NewTaskHandler(tasks),
		Log:             log,
	}

	server.setupRoutes()
	return server
}

// setupRoutes maps all the endpoints to handler functions
func (s *Server) setupRoutes() {
	s.Router.HandleFunc("GET /api", s.HealthHandler)

	// profile management
	s.Router.HandleFunc("GET /api/profiles", s.ProfileHandler.List)
	s.Router.HandleFunc("POST /api/profiles", s.ProfileHandler.Create)
	s.Router.HandleFunc("DELETE /api/profiles/{id}", s.ProfileHandler.Delete)
	s.Router.HandleFunc("POST /api/profiles/{id}/select", s.ProfileHandler.Select)

	// course catalog
	s.Router.HandleFunc("GET /api/catalog", s.CatalogHandler.List)
	s.Router.HandleFunc("GET /api/catalog/{courseID}", s.CatalogHandler.Get)

	// lesson progress tracking
	s.Router.HandleFunc("POST /api/progress/{courseID}/{moduleID}/{lessonID}/start", s.ProgressHandler.StartLesson)
	s.Router.HandleFunc("POST /api/progress/{courseID}/{moduleID}/{lessonID}/complete", s.ProgressHandler.CompleteLesson)
	s.Router.HandleFunc("POST /api/progress/{courseID}/{moduleID}/{lessonID}/time", s.ProgressHandler.AddTime)
	s.Router.HandleFunc("POST /api/progress/{courseID}/{moduleID}/{lessonID}/submissions", s.ProgressHandler.SubmitProject)
	s.Router.HandleFunc("GET /api/progress/{courseID}/{moduleID}/{lessonID}", s.ProgressHandler.GetLesson)
	s.Router.HandleFunc("GET /api/progress/{courseID}/{moduleID}", s.ProgressHandler.GetModule)
	s.Router.HandleFunc("GET /api/progress/{courseID}", s.ProgressHandler.GetCourse)
	s.Router.HandleFunc("DELETE /api/progress", s.ProgressHandler.ResetProgress)

	// achievements, certificates, stats
	s.Router.HandleFunc("GET /api/achievements", s.AwardsHandler.ListAchievements)
	s.Router.HandleFunc("GET /api/certificates", s.AwardsHandler.ListCertificates)
	s.Router.HandleFunc("POST /api/courses/{courseID}/certificate", s.AwardsHandler.IssueCertificate)
	s.Router.HandleFunc("GET /api/stats", s.AwardsHandler.GetStats)

	// admin endpoints
	s.Router.HandleFunc("POST /api/admin/factory-reset", s.AdminHandler.FactoryReset)
	s.Router.HandleFunc("GET /api/admin/stats", s.AdminHandler.GetStats)
	s.Router.HandleFunc("POST /api/admin/catalog/reload", s.AdminHandler.ReloadCatalog)

	// task tracking
	s.Router.HandleFunc("GET /api/tasks", s.TaskHandler.Get)
	s.Router.HandleFunc("POST /api/tasks/cleanup", s.TaskHandler.Cleanup)
}

// ServeHTTP implements the http.Handler interface so the server can be used
// directly with http.ListenAndServe
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// HealthHandler is a simple handler for the base API endpoint
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, "Fenix Academy progress API", nil)
}
