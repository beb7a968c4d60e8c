package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/catalog"
	"github.com/fenix-academy/progress-backend/internal/models"
	"github.com/fenix-academy/progress-backend/internal/storage"
	"github.com/fenix-academy/progress-backend/pkg/logger"
)

// test catalog: "c1" has two modules (2 + 1 lessons), "solo" has a single
// one-lesson module so full completion is one call away
const courseC1 = `{
	"id": "c1",
	"title": "Course One",
	"skills": ["Go", "HTTP"],
	"total_hours": 12,
	"modules": [
		{"id": 1, "title": "Intro", "lessons": 2},
		{"id": 2, "title": "Deep Dive", "lessons": 1}
	]
}`

const courseSolo = `{
	"id": "solo",
	"title": "Solo Course",
	"skills": ["SQL"],
	"modules": [
		{"id": 1, "title": "Only Module", "lessons": 1}
	]
}`

func newTestService(t *testing.T) *ProgressService {
	t.Helper()

	catDir := t.TempDir()
	for name, body := range map[string]string{"c1.json": courseC1, "solo.json": courseSolo} {
		if err := os.WriteFile(filepath.Join(catDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("writing catalog fixture: %v", err)
		}
	}
	cat, err := catalog.New(catDir, logger.NewNop())
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	blobs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}
	return NewProgressService(blobs, cat, logger.NewNop())
}

func lesson(course string, module, lesson int) models.LessonKey {
	return models.LessonKey{CourseID: course, ModuleID: module, LessonID: lesson}
}

func TestStartLesson_CreatesInProgressRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	row, err := svc.StartLesson(ctx, user, lesson("c1", 1, 1))
	if err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	if row.Status != models.StatusInProgress {
		t.Fatalf("expected in_progress, got %q", row.Status)
	}

	got, err := svc.GetLessonProgress(ctx, user, lesson("c1", 1, 1))
	if err != nil {
		t.Fatalf("GetLessonProgress: %v", err)
	}
	if got == nil || got.Status != models.StatusInProgress {
		t.Fatalf("expected persisted in_progress row, got %+v", got)
	}
}

func TestStartLesson_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	key := lesson("c1", 1, 1)

	first, err := svc.StartLesson(ctx, user, key)
	if err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	second, err := svc.StartLesson(ctx, user, key)
	if err != nil {
		t.Fatalf("second StartLesson: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same row back, got a new one")
	}

	mp, err := svc.GetModuleProgress(ctx, user, key.ModuleKey())
	if err != nil {
		t.Fatalf("GetModuleProgress: %v", err)
	}
	if mp.CompletedLessons != 0 {
		t.Fatalf("starting twice must not complete anything, got %d", mp.CompletedLessons)
	}
}

func TestStartLesson_DoesNotDowngradeCompleted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	key := lesson("c1", 1, 1)

	if _, _, err := svc.CompleteLesson(ctx, user, key, nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	row, err := svc.StartLesson(ctx, user, key)
	if err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	if row.Status != models.StatusCompleted {
		t.Fatalf("completed lesson regressed to %q", row.Status)
	}
}

func TestStartLesson_UnknownIdentifiersRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	cases := []models.LessonKey{
		lesson("nope", 1, 1), // unknown course
		lesson("c1", 9, 1),   // unknown module
		lesson("c1", 1, 3),   // lesson beyond module size
		lesson("c1", 1, 0),   // lessons are 1-based
	}
	for _, key := range cases {
		if _, err := svc.StartLesson(ctx, user, key); !errors.Is(err, ErrNotInCatalog) {
			t.Fatalf("key %s: expected ErrNotInCatalog, got %v", key, err)
		}
	}
}

func TestCompleteLesson_StampsCompletedAtOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	key := lesson("c1", 1, 1)

	score1 := 80
	row, _, err := svc.CompleteLesson(ctx, user, key, &score1)
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if row.CompletedAt == nil {
		t.Fatalf("completedAt not stamped")
	}
	stamped := *row.CompletedAt

	score2 := 95
	row, _, err = svc.CompleteLesson(ctx, user, key, &score2)
	if err != nil {
		t.Fatalf("second CompleteLesson: %v", err)
	}
	if !row.CompletedAt.Equal(stamped) {
		t.Fatalf("completedAt changed on re-completion: %v vs %v", row.CompletedAt, stamped)
	}
	if row.Score == nil || *row.Score != 95 {
		t.Fatalf("score should update on re-completion, got %v", row.Score)
	}
}

func TestAddTime_MonotonicAndValidated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	key := lesson("c1", 1, 1)

	// no row yet - time can't be logged against a lesson nobody started
	if _, err := svc.AddTime(ctx, user, key, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.StartLesson(ctx, user, key); err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	row, err := svc.AddTime(ctx, user, key, 25)
	if err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	if row.TimeSpent != 25 {
		t.Fatalf("expected 25 minutes, got %d", row.TimeSpent)
	}
	row, err = svc.AddTime(ctx, user, key, 5)
	if err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	if row.TimeSpent != 30 {
		t.Fatalf("expected 30 minutes, got %d", row.TimeSpent)
	}

	if _, err := svc.AddTime(ctx, user, key, -5); !errors.Is(err, ErrNegativeTime) {
		t.Fatalf("expected ErrNegativeTime, got %v", err)
	}
	got, err := svc.GetLessonProgress(ctx, user, key)
	if err != nil {
		t.Fatalf("GetLessonProgress: %v", err)
	}
	if got.TimeSpent != 30 {
		t.Fatalf("rejected delta must not change timeSpent, got %d", got.TimeSpent)
	}
}

func TestReads_NilWhenUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	lp, err := svc.GetLessonProgress(ctx, user, lesson("c1", 1, 1))
	if err != nil || lp != nil {
		t.Fatalf("expected nil lesson progress, got %+v err %v", lp, err)
	}
	mp, err := svc.GetModuleProgress(ctx, user, models.ModuleKey{CourseID: "c1", ModuleID: 1})
	if err != nil || mp != nil {
		t.Fatalf("expected nil module progress, got %+v err %v", mp, err)
	}
	cp, err := svc.GetCourseProgress(ctx, user, "c1")
	if err != nil || cp != nil {
		t.Fatalf("expected nil course progress, got %+v err %v", cp, err)
	}
}

func TestModuleAndCourseAggregation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	// complete 1 of 2 lessons in module 1
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 1), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	mp, _ := svc.GetModuleProgress(ctx, user, models.ModuleKey{CourseID: "c1", ModuleID: 1})
	if mp.CompletedLessons != 1 || mp.TotalLessons != 2 || mp.Status != models.StatusInProgress {
		t.Fatalf("unexpected module progress: %+v", mp)
	}
	cp, _ := svc.GetCourseProgress(ctx, user, "c1")
	if cp.CompletedLessons != 1 || cp.TotalLessons != 3 || cp.CompletedModules != 0 ||
		cp.TotalModules != 2 || cp.Status != models.CourseInProgress {
		t.Fatalf("unexpected course progress: %+v", cp)
	}

	// finish module 1
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 2), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	mp, _ = svc.GetModuleProgress(ctx, user, models.ModuleKey{CourseID: "c1", ModuleID: 1})
	if mp.Status != models.StatusCompleted {
		t.Fatalf("module should be completed, got %q", mp.Status)
	}
	cp, _ = svc.GetCourseProgress(ctx, user, "c1")
	if cp.CompletedModules != 1 || cp.Status != models.CourseInProgress {
		t.Fatalf("unexpected course progress after module 1: %+v", cp)
	}

	// finish the whole course
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 2, 1), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	cp, _ = svc.GetCourseProgress(ctx, user, "c1")
	if cp.CompletedModules != 2 || cp.CompletedLessons != 3 || cp.Status != models.CourseCompleted {
		t.Fatalf("course should be completed, got %+v", cp)
	}

	// invariants hold after every step
	if cp.CompletedModules > cp.TotalModules || cp.CompletedLessons > cp.TotalLessons {
		t.Fatalf("aggregate invariant violated: %+v", cp)
	}
}

func TestAchievements_AwardedOncePerScope(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	_, earned, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 1), nil)
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if len(earned) != 1 || earned[0].RuleID != models.RuleFirstLesson {
		t.Fatalf("expected exactly the first-lesson award, got %+v", earned)
	}

	// re-completing the same lesson awards nothing new
	_, earned, err = svc.CompleteLesson(ctx, user, lesson("c1", 1, 1), nil)
	if err != nil {
		t.Fatalf("re-CompleteLesson: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("duplicate award on re-completion: %+v", earned)
	}

	// module 1 lesson 1 of a different course is not "first lesson" again
	_, earned, err = svc.CompleteLesson(ctx, user, lesson("solo", 1, 1), nil)
	if err != nil {
		t.Fatalf("CompleteLesson solo: %v", err)
	}
	for _, a := range earned {
		if a.RuleID == models.RuleFirstLesson {
			t.Fatalf("first-lesson awarded twice")
		}
	}
	// but solo is now fully complete: module + course awards fire together
	if len(earned) != 2 {
		t.Fatalf("expected module+course awards, got %+v", earned)
	}

	achievements, err := svc.ListAchievements(ctx, user)
	if err != nil {
		t.Fatalf("ListAchievements: %v", err)
	}
	if len(achievements) != 3 {
		t.Fatalf("expected 3 achievements total, got %d", len(achievements))
	}
}

func TestAchievements_ModuleAwardExactlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	for l := 1; l <= 2; l++ {
		if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, l), nil); err != nil {
			t.Fatalf("CompleteLesson: %v", err)
		}
	}
	// complete a lesson of the already complete module again
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 2), nil); err != nil {
		t.Fatalf("re-CompleteLesson: %v", err)
	}

	achievements, _ := svc.ListAchievements(ctx, user)
	moduleAwards := 0
	for _, a := range achievements {
		if a.RuleID == models.RuleModuleComplete {
			moduleAwards++
		}
	}
	if moduleAwards != 1 {
		t.Fatalf("expected exactly one module award, got %d", moduleAwards)
	}
}

func TestSubmitProject_AppendsAndCreatesRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	key := lesson("c1", 2, 1)

	sub, err := svc.SubmitProject(ctx, user, key, models.CreateSubmissionInput{
		Title:   "API project",
		RepoURL: "https://example.com/repo",
	})
	if err != nil {
		t.Fatalf("SubmitProject: %v", err)
	}
	if sub.ID == uuid.Nil || sub.Status != models.SubmissionStatusSubmitted {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	row, _ := svc.GetLessonProgress(ctx, user, key)
	if row == nil || row.Status != models.StatusInProgress {
		t.Fatalf("submission should create an in_progress row, got %+v", row)
	}
	if len(row.Submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(row.Submissions))
	}

	if _, err := svc.SubmitProject(ctx, user, key, models.CreateSubmissionInput{Title: "v2"}); err != nil {
		t.Fatalf("second SubmitProject: %v", err)
	}
	row, _ = svc.GetLessonProgress(ctx, user, key)
	if len(row.Submissions) != 2 {
		t.Fatalf("submissions must append, got %d", len(row.Submissions))
	}
}

func TestComputeUserStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	if _, err := svc.StartLesson(ctx, user, lesson("c1", 1, 1)); err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	if _, err := svc.AddTime(ctx, user, lesson("c1", 1, 1), 40); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("solo", 1, 1), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 90); err != nil {
		t.Fatalf("IssueCertificate: %v", err)
	}

	stats, err := svc.ComputeUserStats(ctx, user)
	if err != nil {
		t.Fatalf("ComputeUserStats: %v", err)
	}
	if stats.TotalCourses != 2 {
		t.Fatalf("expected 2 touched courses, got %d", stats.TotalCourses)
	}
	if stats.CompletedCourses != 1 {
		t.Fatalf("expected 1 completed course, got %d", stats.CompletedCourses)
	}
	if stats.TotalStudyTime != 40 {
		t.Fatalf("expected 40 minutes study time, got %d", stats.TotalStudyTime)
	}
	if stats.TotalAchievements == 0 || stats.TotalCertificates != 1 {
		t.Fatalf("unexpected award counts: %+v", stats)
	}
	if stats.AverageGrade != 90 {
		t.Fatalf("expected average grade 90, got %v", stats.AverageGrade)
	}
}

func TestComputeUserStats_EmptyUser(t *testing.T) {
	svc := newTestService(t)
	stats, err := svc.ComputeUserStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ComputeUserStats: %v", err)
	}
	if stats.TotalCourses != 0 || stats.AverageGrade != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestReset_WipesUserState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 1), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if err := svc.Reset(ctx, user); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	lp, err := svc.GetLessonProgress(ctx, user, lesson("c1", 1, 1))
	if err != nil || lp != nil {
		t.Fatalf("expected empty state after reset, got %+v err %v", lp, err)
	}
	achievements, _ := svc.ListAchievements(ctx, user)
	if len(achievements) != 0 {
		t.Fatalf("achievements survived reset: %+v", achievements)
	}
}
