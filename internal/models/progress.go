package models

import "time"

// LessonStatus tracks where a learner is with a single lesson
type LessonStatus string

const (
	StatusNotStarted LessonStatus = "not_started" // never touched
	StatusInProgress LessonStatus = "in_progress" // started but not done
	StatusCompleted  LessonStatus = "completed"   // finished
)

// CourseStatus extends lesson statuses with the certified end state
type CourseStatus string

const (
	CourseNotStarted CourseStatus = "not_started"
	CourseInProgress CourseStatus = "in_progress"
	CourseCompleted  CourseStatus = "completed"
	CourseCertified  CourseStatus = "certified" // certificate issued - never reverts
)

// LessonProgress tracks how far a learner has gotten through one lesson
type LessonProgress struct {
	CourseID string `json:"course_id"`
	ModuleID int    `json:"module_id"`
	LessonID int    `json:"lesson_id"`

	Status    LessonStatus `json:"status"`
	TimeSpent int          `json:"time_spent"` // minutes, only ever grows

	Score       *int       `json:"score,omitempty"`        // quiz/project score if graded
	CompletedAt *time.Time `json:"completed_at,omitempty"` // stamped once on first completion

	Submissions []ProjectSubmission `json:"submissions,omitempty"` // append-only
}

// Key returns the typed key for this lesson row
func (p *LessonProgress) Key() LessonKey {
	return LessonKey{CourseID: p.CourseID, ModuleID: p.ModuleID, LessonID: p.LessonID}
}

// ModuleProgress is derived from lesson rows - recomputed on every change,
// never updated incrementally
type ModuleProgress struct {
	CourseID string `json:"course_id"`
	ModuleID int    `json:"module_id"`

	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`

	Status LessonStatus `json:"status"` // pure function of the counts above
}

// CourseProgress is derived from module/lesson rows for one course
type CourseProgress struct {
	CourseID string `json:"course_id"`

	CompletedModules int `json:"completed_modules"`
	TotalModules     int `json:"total_modules"`
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`

	TotalTimeSpent int `json:"total_time_spent"` // minutes across all lessons

	Status       CourseStatus `json:"status"`
	OverallGrade *int         `json:"overall_grade,omitempty"` // set at certification
}
