package models

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is an immutable award record - once earned it never changes
type Achievement struct {
	ID uuid.UUID `json:"id"` // unique identifier

	// RuleID + Scope identify which rule fired for which entity. The pair is
	// the dedup key: a rule is awarded at most once per scope.
	RuleID string `json:"rule_id"`
	Scope  string `json:"scope"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Points      int    `json:"points"`

	EarnedAt time.Time `json:"earned_at"`
}

// Rule IDs for the built-in achievement rules
const (
	RuleFirstLesson    = "first_lesson"
	RuleModuleComplete = "module_complete"
	RuleCourseComplete = "course_complete"
)
