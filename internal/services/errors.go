package services

import "errors"

// Domain errors surfaced by the progress service. Handlers map these onto
// HTTP status codes; everything else is a 500.
var (
	// ErrNotFound means the operation needs an existing lesson row and none exists
	ErrNotFound = errors.New("lesson has not been started")

	// ErrNegativeTime rejects time deltas that would shrink timeSpent
	ErrNegativeTime = errors.New("time delta must be non-negative")

	// ErrNotInCatalog means the course/module/lesson identifiers don't match
	// any catalog entry - writes need real denominators to aggregate against
	ErrNotInCatalog = errors.New("not in the course catalog")

	// ErrCourseNotCompleted blocks certificate issuance before full completion
	ErrCourseNotCompleted = errors.New("course is not completed yet")

	// ErrAlreadyCertified means a certificate for this course already exists.
	// Expected and recoverable - issuance is idempotent-by-rejection.
	ErrAlreadyCertified = errors.New("certificate already issued for this course")

	// ErrInvalidGrade rejects grades outside 0-100
	ErrInvalidGrade = errors.New("grade must be between 0 and 100")
)
