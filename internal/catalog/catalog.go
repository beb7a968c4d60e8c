package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/pkg/logger"
)

// Catalog holds the static course metadata the progress layer needs:
// which courses exist, how many modules they have, how many lessons each
// module has, and what goes on a certificate (title, skills, hours).
//
// Metadata lives as one JSON file per course in a catalog directory and is
// loaded up front. Reload swaps the whole table at once so readers never see
// a half-loaded catalog.
type Catalog struct {
	dir string
	log *logger.Logger

	mu      sync.RWMutex
	courses map[string]*models.CourseMeta
}

// New loads the catalog from the given directory
func New(dir string, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{
		dir:     dir,
		log:     log,
		courses: make(map[string]*models.CourseMeta),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads every course file and swaps the in-memory table.
// A broken file fails the whole reload - better a stale catalog than a
// partial one.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading catalog directory %s: %w", c.dir, err)
	}

	loaded := make(map[string]*models.CourseMeta)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		meta, err := loadCourseFile(path)
		if err != nil {
			return fmt.Errorf("loading course file %s: %w", entry.Name(), err)
		}
		if _, dup := loaded[meta.ID]; dup {
			return fmt.Errorf("duplicate course id %q in %s", meta.ID, entry.Name())
		}
		loaded[meta.ID] = meta
	}

	c.mu.Lock()
	c.courses = loaded
	c.mu.Unlock()

	c.log.Info("catalog loaded", "dir", c.dir, "courses", len(loaded))
	return nil
}

func loadCourseFile(path string) (*models.CourseMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta models.CourseMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}

	// basic validation - a course the progress layer can't aggregate over
	// is worse than no course
	if meta.ID == "" {
		return nil, fmt.Errorf("course id is required")
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("course title is required")
	}
	seen := make(map[int]bool)
	for _, m := range meta.Modules {
		if m.ID <= 0 {
			return nil, fmt.Errorf("module ids must be positive, got %d", m.ID)
		}
		if m.Lessons < 0 {
			return nil, fmt.Errorf("module %d has negative lesson count", m.ID)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate module id %d", m.ID)
		}
		seen[m.ID] = true
	}
	return &meta, nil
}

// Course returns the metadata for a course, nil if unknown
func (c *Catalog) Course(courseID string) *models.CourseMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.courses[courseID]
}

// Courses returns all known courses sorted by id
func (c *Catalog) Courses() []*models.CourseMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.CourseMeta, 0, len(c.courses))
	for _, meta := range c.courses {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns how many courses are loaded
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.courses)
}

// TotalLessons returns the lesson count for one module, 0 if unknown
func (c *Catalog) TotalLessons(courseID string, moduleID int) int {
	meta := c.Course(courseID)
	if meta == nil {
		return 0
	}
	m := meta.Module(moduleID)
	if m == nil {
		return 0
	}
	return m.Lessons
}

// TotalModules returns how many modules a course has, 0 if unknown
func (c *Catalog) TotalModules(courseID string) int {
	meta := c.Course(courseID)
	if meta == nil {
		return 0
	}
	return len(meta.Modules)
}
