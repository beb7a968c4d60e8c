package main

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fenix-academy/progress-backend/internal/api"
	"github.com/fenix-academy/progress-backend/internal/catalog"
	"github.com/fenix-academy/progress-backend/internal/services"
	"github.com/fenix-academy/progress-backend/internal/storage"
	"github.com/fenix-academy/progress-backend/pkg/logger"
	"github.com/fenix-academy/progress-backend/pkg/session"
	"github.com/fenix-academy/progress-backend/pkg/task"
	"github.com/fenix-academy/progress-backend/pkg/util"
)

// main entry point - sets up everything and starts the server
func main() {
	// load .env file if it exists - Docker sets these directly anyway
	_ = godotenv.Load()

	log, err := logger.New(util.GetEnv("APP_ENV", "dev"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	dataDir := util.GetDataDirectory()
	catalogDir := util.GetCatalogDirectory()

	// progress blobs go to postgres when configured, local files otherwise
	var blobs storage.BlobStore
	switch backend := util.GetEnv("PROGRESS_BACKEND", "file"); backend {
	case "postgres":
		db, err := sql.Open("postgres", util.GetEnv("DB_URL", ""))
		if err != nil {
			log.Fatal("failed to open database", "error", err)
		}
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal("failed to prepare database schema", "error", err)
		}
		blobs = pg
		log.Info("using postgres progress storage")
	default:
		fs, err := storage.NewFileStore(dataDir)
		if err != nil {
			log.Fatal("failed to open data directory", "error", err)
		}
		blobs = fs
		log.Info("using file progress storage", "dir", dataDir)
	}
	defer blobs.Close()

	cat, err := catalog.New(catalogDir, log)
	if err != nil {
		log.Fatal("failed to load course catalog", "dir", catalogDir, "error", err)
	}

	sessions, err := session.New(filepath.Join(dataDir, "profiles.json"))
	if err != nil {
		log.Fatal("failed to load profile registry", "error", err)
	}

	tasks := task.NewManager()
	// clean finished tasks every hour, keep them for a day
	go tasks.CleanupRoutine(1*time.Hour, 24*time.Hour)

	progress := services.NewProgressService(blobs, cat, log)
	admin := services.NewAdminService(blobs, progress, sessions, tasks, cat, log)

	server := api.NewServer(progress, admin, cat, sessions, tasks, log)
	handler := server.EnableCORS(server) // needed for frontend requests

	port := util.GetEnv("PORT", "8080")
	log.Info("starting server", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
