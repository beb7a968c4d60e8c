package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
)

func completeCourse(t *testing.T, svc *ProgressService, user uuid.UUID, courseID string, modules map[int]int) {
	t.Helper()
	for mod, lessons := range modules {
		for l := 1; l <= lessons; l++ {
			if _, _, err := svc.CompleteLesson(context.Background(), user, lesson(courseID, mod, l), nil); err != nil {
				t.Fatalf("CompleteLesson %s-%d-%d: %v", courseID, mod, l, err)
			}
		}
	}
}

func TestIssueCertificate_HappyPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	if _, err := svc.StartLesson(ctx, user, lesson("solo", 1, 1)); err != nil {
		t.Fatalf("StartLesson: %v", err)
	}
	// 90 minutes rounds up to 2 hours on the certificate
	if _, err := svc.AddTime(ctx, user, lesson("solo", 1, 1), 90); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	completeCourse(t, svc, user, "solo", map[int]int{1: 1})

	cert, err := svc.IssueCertificate(ctx, user, "Ana Souza", "solo", 87)
	if err != nil {
		t.Fatalf("IssueCertificate: %v", err)
	}
	if cert.CourseName != "Solo Course" || cert.UserName != "Ana Souza" {
		t.Fatalf("unexpected certificate names: %+v", cert)
	}
	if cert.Grade != 87 {
		t.Fatalf("expected grade 87, got %d", cert.Grade)
	}
	if cert.TotalHours != 2 {
		t.Fatalf("expected 2 total hours from 90 minutes, got %d", cert.TotalHours)
	}
	if len(cert.VerificationCode) != 8 {
		t.Fatalf("expected 8-char verification code, got %q", cert.VerificationCode)
	}
	if len(cert.Skills) != 1 || cert.Skills[0] != "SQL" {
		t.Fatalf("skills should come from the catalog, got %v", cert.Skills)
	}

	cp, _ := svc.GetCourseProgress(ctx, user, "solo")
	if cp.Status != models.CourseCertified {
		t.Fatalf("course should be certified, got %q", cp.Status)
	}
	if cp.OverallGrade == nil || *cp.OverallGrade != 87 {
		t.Fatalf("overall grade not recorded: %v", cp.OverallGrade)
	}
}

func TestIssueCertificate_RequiresCompletedCourse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	// untouched course
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 90); !errors.Is(err, ErrCourseNotCompleted) {
		t.Fatalf("expected ErrCourseNotCompleted, got %v", err)
	}

	// partially complete course
	if _, _, err := svc.CompleteLesson(ctx, user, lesson("c1", 1, 1), nil); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "c1", 90); !errors.Is(err, ErrCourseNotCompleted) {
		t.Fatalf("expected ErrCourseNotCompleted for partial course, got %v", err)
	}
}

func TestIssueCertificate_OnlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	completeCourse(t, svc, user, "solo", map[int]int{1: 1})
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 90); err != nil {
		t.Fatalf("first IssueCertificate: %v", err)
	}
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 95); !errors.Is(err, ErrAlreadyCertified) {
		t.Fatalf("expected ErrAlreadyCertified, got %v", err)
	}

	certs, err := svc.ListCertificates(ctx, user)
	if err != nil {
		t.Fatalf("ListCertificates: %v", err)
	}
	if len(certs) != 1 {
		t.Fatalf("expected exactly one certificate, got %d", len(certs))
	}
	if certs[0].Grade != 90 {
		t.Fatalf("rejected re-issue must not overwrite the grade, got %d", certs[0].Grade)
	}
}

func TestIssueCertificate_GradeValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	completeCourse(t, svc, user, "solo", map[int]int{1: 1})
	for _, grade := range []int{-1, 101, 1000} {
		if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", grade); !errors.Is(err, ErrInvalidGrade) {
			t.Fatalf("grade %d: expected ErrInvalidGrade, got %v", grade, err)
		}
	}
	// boundary values are fine
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 0); err != nil {
		t.Fatalf("grade 0 should be valid: %v", err)
	}
}

func TestIssueCertificate_UnknownCourse(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.IssueCertificate(context.Background(), uuid.New(), "Ana", "ghost", 90); !errors.Is(err, ErrNotInCatalog) {
		t.Fatalf("expected ErrNotInCatalog, got %v", err)
	}
}

func TestCertifiedStatus_SurvivesFurtherActivity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	completeCourse(t, svc, user, "solo", map[int]int{1: 1})
	if _, err := svc.IssueCertificate(ctx, user, "Ana", "solo", 90); err != nil {
		t.Fatalf("IssueCertificate: %v", err)
	}

	// more activity in the course must not regress the certified status
	if _, err := svc.AddTime(ctx, user, lesson("solo", 1, 1), 15); err != nil {
		t.Fatalf("AddTime: %v", err)
	}
	cp, _ := svc.GetCourseProgress(ctx, user, "solo")
	if cp.Status != models.CourseCertified {
		t.Fatalf("certified status regressed to %q", cp.Status)
	}
}
