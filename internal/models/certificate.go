package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate attests completion of a course - issued at most once per
// (user, course) pair
type Certificate struct {
	ID       uuid.UUID `json:"id"` // unique identifier
	CourseID string    `json:"course_id"`
	UserID   uuid.UUID `json:"user_id"`

	UserName   string `json:"user_name"`
	CourseName string `json:"course_name"`

	Grade      int      `json:"grade"`       // 0-100, required at issuance
	TotalHours int      `json:"total_hours"` // rounded study time in hours
	Skills     []string `json:"skills,omitempty"`

	IssuedAt         time.Time `json:"issued_at"`
	VerificationCode string    `json:"verification_code"` // 8-char token printed on the PDF
}

// IssueCertificateInput is what we expect when issuing a certificate.
// Grade is mandatory - there is no default grade.
type IssueCertificateInput struct {
	UserID uuid.UUID `json:"user_id,omitempty"`
	Grade  *int      `json:"grade"`
}
