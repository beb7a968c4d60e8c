package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectSubmission represents one handed-in project for a lesson
type ProjectSubmission struct {
	ID       uuid.UUID `json:"id"` // unique identifier
	Title    string    `json:"title"`
	RepoURL  string    `json:"repo_url,omitempty"` // link to the learner's code
	Comments string    `json:"comments,omitempty"`

	Status      string    `json:"status"` // always "submitted" for now, grading comes later
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionStatusSubmitted is the initial (and currently only) submission state
const SubmissionStatusSubmitted = "submitted"

// CreateSubmissionInput is what we expect when a learner hands in a project
type CreateSubmissionInput struct {
	Title    string `json:"title"`
	RepoURL  string `json:"repo_url,omitempty"`
	Comments string `json:"comments,omitempty"`
}
