package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
)

// IssueCertificate creates the single certificate for a completed course and
// flips the course status to certified.
//
// Preconditions, enforced here in the data layer rather than at call sites:
// the course must be fully completed and must not already have a certificate
// for this user. The grade is a required explicit input - callers that don't
// know the grade have a bug, there is no default.
func (s *ProgressService) IssueCertificate(ctx context.Context, userID uuid.UUID, userName, courseID string, grade int) (*models.Certificate, error) {
	if grade < 0 || grade > 100 {
		return nil, fmt.Errorf("grade %d: %w", grade, ErrInvalidGrade)
	}
	meta := s.catalog.Course(courseID)
	if meta == nil {
		return nil, fmt.Errorf("course %q: %w", courseID, ErrNotInCatalog)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if st.certificateFor(courseID) != nil {
		return nil, fmt.Errorf("course %q: %w", courseID, ErrAlreadyCertified)
	}
	cp := st.Courses[courseID]
	if cp == nil || cp.Status != models.CourseCompleted {
		return nil, fmt.Errorf("course %q: %w", courseID, ErrCourseNotCompleted)
	}

	code, err := newVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("generating verification code: %w", err)
	}

	cert := &models.Certificate{
		ID:               uuid.New(),
		CourseID:         courseID,
		UserID:           userID,
		UserName:         userName,
		CourseName:       meta.Title,
		Grade:            grade,
		TotalHours:       int(math.Round(float64(cp.TotalTimeSpent) / 60.0)),
		Skills:           meta.Skills,
		IssuedAt:         time.Now().UTC(),
		VerificationCode: code,
	}
	st.Certificates[cert.ID.String()] = cert

	cp.Status = models.CourseCertified
	cp.OverallGrade = &grade

	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}
	s.log.Info("certificate issued",
		"user_id", userID, "course_id", courseID, "grade", grade, "code", code)
	return cert, nil
}

// ListCertificates returns the user's certificates ordered by issue time
func (s *ProgressService) ListCertificates(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Certificate, 0, len(st.Certificates))
	for _, cert := range st.Certificates {
		out = append(out, cert)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}

// verification codes avoid ambiguous characters (0/O, 1/I/L)
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func newVerificationCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
