package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/catalog"
	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/internal/storage"
	"github.com/fenix-academy/progress-backend/pkg/logger"
)

// ProgressService is the single source of truth for lesson progress, derived
// module/course aggregates, achievements and certificates.
//
// The discipline is read blob, mutate in memory, write blob back - one
// mutation per call, serialized by the mutex so a half-applied write can
// never be observed. Aggregates are always recomputed in full from lesson
// rows, never incremented, so they can't drift.
type ProgressService struct {
	mu      sync.Mutex
	blobs   storage.BlobStore
	catalog *catalog.Catalog
	log     *logger.Logger

	// states already read this process - write-through, so the cache and the
	// blob store never disagree
	cache map[uuid.UUID]*userState
}

// NewProgressService creates the service with its dependencies
func NewProgressService(blobs storage.BlobStore, cat *catalog.Catalog, log *logger.Logger) *ProgressService {
	return &ProgressService{
		blobs:   blobs,
		catalog: cat,
		log:     log,
		cache:   make(map[uuid.UUID]*userState),
	}
}

// load fetches a user's state, pulling from the blob store on first touch.
// Caller must hold the mutex.
func (s *ProgressService) load(ctx context.Context, userID uuid.UUID) (*userState, error) {
	if st, ok := s.cache[userID]; ok {
		return st, nil
	}

	data, err := s.blobs.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			st := newUserState()
			s.cache[userID] = st
			return st, nil
		}
		return nil, fmt.Errorf("loading progress for user %s: %w", userID, err)
	}

	st, err := unmarshalState(data)
	if err != nil {
		return nil, fmt.Errorf("corrupt progress blob for user %s: %w", userID, err)
	}
	s.cache[userID] = st
	return st, nil
}

// save persists a user's state. Storage failures surface to the caller - a
// dropped write must never look like success. Caller must hold the mutex.
func (s *ProgressService) save(ctx context.Context, userID uuid.UUID, st *userState) error {
	data, err := st.marshal()
	if err != nil {
		return err
	}
	if err := s.blobs.Save(ctx, userID, data); err != nil {
		return fmt.Errorf("saving progress for user %s: %w", userID, err)
	}
	return nil
}

// validateLesson checks the identifiers against the catalog. Writes need real
// lesson counts to aggregate against, so unknown identifiers are rejected.
func (s *ProgressService) validateLesson(key models.LessonKey) error {
	meta := s.catalog.Course(key.CourseID)
	if meta == nil {
		return fmt.Errorf("course %q: %w", key.CourseID, ErrNotInCatalog)
	}
	mod := meta.Module(key.ModuleID)
	if mod == nil {
		return fmt.Errorf("module %d of course %q: %w", key.ModuleID, key.CourseID, ErrNotInCatalog)
	}
	if key.LessonID < 1 || key.LessonID > mod.Lessons {
		return fmt.Errorf("lesson %d of module %d in course %q: %w",
			key.LessonID, key.ModuleID, key.CourseID, ErrNotInCatalog)
	}
	return nil
}

// StartLesson creates an in_progress lesson row if one doesn't exist.
// Idempotent: starting again is a no-op, and a completed lesson is never
// downgraded back to in_progress.
func (s *ProgressService) StartLesson(ctx context.Context, userID uuid.UUID, key models.LessonKey) (*models.LessonProgress, error) {
	if err := s.validateLesson(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if row, ok := st.Lessons[key]; ok {
		return row, nil
	}

	row := &models.LessonProgress{
		CourseID: key.CourseID,
		ModuleID: key.ModuleID,
		LessonID: key.LessonID,
		Status:   models.StatusInProgress,
	}
	st.Lessons[key] = row
	s.recompute(st, key)

	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}
	s.log.Debug("lesson started", "user_id", userID, "lesson", key.String())
	return row, nil
}

// CompleteLesson marks a lesson completed, recomputes the owning aggregates
// and evaluates achievement rules against the fresh state. Returns the lesson
// row plus any achievements earned by this call.
//
// completedAt is stamped once - completing an already completed lesson keeps
// the original timestamp. A score, when given, is recorded either way.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID uuid.UUID, key models.LessonKey, score *int) (*models.LessonProgress, []models.Achievement, error) {
	if err := s.validateLesson(key); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	row, ok := st.Lessons[key]
	if !ok {
		row = &models.LessonProgress{
			CourseID: key.CourseID,
			ModuleID: key.ModuleID,
			LessonID: key.LessonID,
		}
		st.Lessons[key] = row
	}

	row.Status = models.StatusCompleted
	if row.CompletedAt == nil {
		now := time.Now().UTC()
		row.CompletedAt = &now
	}
	if score != nil {
		v := *score
		row.Score = &v
	}

	s.recompute(st, key)
	earned := s.evaluateAchievements(st, key)

	if err := s.save(ctx, userID, st); err != nil {
		return nil, nil, err
	}
	s.log.Debug("lesson completed",
		"user_id", userID, "lesson", key.String(), "new_achievements", len(earned))
	return row, earned, nil
}

// AddTime accumulates study minutes into a lesson row. Negative deltas are
// rejected so timeSpent stays monotonically non-decreasing, and the row must
// already exist - time can't be logged against a lesson nobody started.
func (s *ProgressService) AddTime(ctx context.Context, userID uuid.UUID, key models.LessonKey, minutes int) (*models.LessonProgress, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%d minutes: %w", minutes, ErrNegativeTime)
	}
	if err := s.validateLesson(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	row, ok := st.Lessons[key]
	if !ok {
		return nil, fmt.Errorf("lesson %s: %w", key.String(), ErrNotFound)
	}

	row.TimeSpent += minutes
	s.recompute(st, key)

	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}
	return row, nil
}

// SubmitProject appends a submission to a lesson's append-only list,
// creating the lesson row if this is the first interaction with it
func (s *ProgressService) SubmitProject(ctx context.Context, userID uuid.UUID, key models.LessonKey, input models.CreateSubmissionInput) (*models.ProjectSubmission, error) {
	if err := s.validateLesson(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	row, ok := st.Lessons[key]
	if !ok {
		row = &models.LessonProgress{
			CourseID: key.CourseID,
			ModuleID: key.ModuleID,
			LessonID: key.LessonID,
			Status:   models.StatusInProgress,
		}
		st.Lessons[key] = row
	}

	submission := models.ProjectSubmission{
		ID:          uuid.New(),
		Title:       input.Title,
		RepoURL:     input.RepoURL,
		Comments:    input.Comments,
		Status:      models.SubmissionStatusSubmitted,
		SubmittedAt: time.Now().UTC(),
	}
	row.Submissions = append(row.Submissions, submission)
	s.recompute(st, key)

	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}
	s.log.Debug("project submitted",
		"user_id", userID, "lesson", key.String(), "submission_id", submission.ID)
	return &submission, nil
}

// GetLessonProgress returns the lesson row, nil if never touched
func (s *ProgressService) GetLessonProgress(ctx context.Context, userID uuid.UUID, key models.LessonKey) (*models.LessonProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.Lessons[key], nil
}

// GetModuleProgress returns the derived module aggregate, nil if no lesson
// in the module was ever touched
func (s *ProgressService) GetModuleProgress(ctx context.Context, userID uuid.UUID, key models.ModuleKey) (*models.ModuleProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.Modules[key], nil
}

// GetCourseProgress returns the derived course aggregate, nil if the course
// was never touched
func (s *ProgressService) GetCourseProgress(ctx context.Context, userID uuid.UUID, courseID string) (*models.CourseProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.Courses[courseID], nil
}

// ListAchievements returns the user's achievements in the order they were
// earned
func (s *ProgressService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Achievement, len(st.Achievements))
	copy(out, st.Achievements)
	return out, nil
}

// ComputeUserStats aggregates across all courses and certificates
func (s *ProgressService) ComputeUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{
		TotalCourses:      len(st.Courses),
		TotalAchievements: len(st.Achievements),
		TotalCertificates: len(st.Certificates),
	}
	for _, cp := range st.Courses {
		stats.TotalStudyTime += cp.TotalTimeSpent
		if cp.Status == models.CourseCompleted || cp.Status == models.CourseCertified {
			stats.CompletedCourses++
		}
	}
	if len(st.Certificates) > 0 {
		sum := 0
		for _, cert := range st.Certificates {
			sum += cert.Grade
		}
		stats.AverageGrade = float64(sum) / float64(len(st.Certificates))
	}
	return stats, nil
}

// Reset wipes all persisted progress for a user
func (s *ProgressService) Reset(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, userID)
	if err := s.blobs.Reset(ctx, userID); err != nil {
		return fmt.Errorf("resetting progress for user %s: %w", userID, err)
	}
	s.log.Info("progress reset", "user_id", userID)
	return nil
}

// DropCaches forgets every cached state. Used after a factory reset so stale
// in-memory state can't resurrect wiped blobs.
func (s *ProgressService) DropCaches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[uuid.UUID]*userState)
}

// recompute rebuilds the module and course aggregates owning the given
// lesson. Always a full recompute from lesson rows against catalog totals.
func (s *ProgressService) recompute(st *userState, key models.LessonKey) {
	s.recomputeModule(st, key.ModuleKey())
	s.recomputeCourse(st, key.CourseID)
}

func (s *ProgressService) recomputeModule(st *userState, mk models.ModuleKey) {
	completed := 0
	for k, row := range st.Lessons {
		if k.ModuleKey() == mk && row.Status == models.StatusCompleted {
			completed++
		}
	}
	total := s.catalog.TotalLessons(mk.CourseID, mk.ModuleID)

	status := models.StatusInProgress
	switch {
	case completed == 0:
		status = models.StatusNotStarted
	case total > 0 && completed == total:
		status = models.StatusCompleted
	}

	st.Modules[mk] = &models.ModuleProgress{
		CourseID:         mk.CourseID,
		ModuleID:         mk.ModuleID,
		CompletedLessons: completed,
		TotalLessons:     total,
		Status:           status,
	}
}

func (s *ProgressService) recomputeCourse(st *userState, courseID string) {
	meta := s.catalog.Course(courseID)
	if meta == nil {
		return
	}

	cp := &models.CourseProgress{
		CourseID:     courseID,
		TotalModules: len(meta.Modules),
		TotalLessons: meta.TotalLessons(),
	}
	if prev := st.Courses[courseID]; prev != nil {
		cp.OverallGrade = prev.OverallGrade
	}

	// everything derives from the lesson rows - module rows are a cached view
	for _, mod := range meta.Modules {
		completed := 0
		for k, row := range st.Lessons {
			if k.CourseID == courseID && k.ModuleID == mod.ID && row.Status == models.StatusCompleted {
				completed++
			}
		}
		cp.CompletedLessons += completed
		if mod.Lessons > 0 && completed == mod.Lessons {
			cp.CompletedModules++
		}
	}
	for k, row := range st.Lessons {
		if k.CourseID == courseID {
			cp.TotalTimeSpent += row.TimeSpent
		}
	}

	switch {
	case st.certificateFor(courseID) != nil:
		// certification is a one-way ratchet
		cp.Status = models.CourseCertified
	case cp.TotalModules > 0 && cp.CompletedModules == cp.TotalModules:
		cp.Status = models.CourseCompleted
	case cp.CompletedLessons == 0:
		cp.Status = models.CourseNotStarted
	default:
		cp.Status = models.CourseInProgress
	}

	st.Courses[courseID] = cp
}
