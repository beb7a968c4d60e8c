package models

import (
	"fmt"
	"strconv"
	"strings"
)

// LessonKey identifies a single lesson inside a course module.
// Stored blobs use the joined string form ("courseID-moduleID-lessonID"),
// everything in memory works with the typed key.
type LessonKey struct {
	CourseID string
	ModuleID int
	LessonID int
}

func (k LessonKey) String() string {
	return fmt.Sprintf("%s-%d-%d", k.CourseID, k.ModuleID, k.LessonID)
}

// ModuleKey returns the key of the module that owns this lesson.
func (k LessonKey) ModuleKey() ModuleKey {
	return ModuleKey{CourseID: k.CourseID, ModuleID: k.ModuleID}
}

// ParseLessonKey converts the persisted string form back into a typed key.
// Course IDs may themselves contain dashes, so the numeric parts are taken
// from the right.
func ParseLessonKey(s string) (LessonKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 {
		return LessonKey{}, fmt.Errorf("invalid lesson key %q", s)
	}
	lesson, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return LessonKey{}, fmt.Errorf("invalid lesson id in key %q: %w", s, err)
	}
	module, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return LessonKey{}, fmt.Errorf("invalid module id in key %q: %w", s, err)
	}
	return LessonKey{
		CourseID: strings.Join(parts[:len(parts)-2], "-"),
		ModuleID: module,
		LessonID: lesson,
	}, nil
}

// ModuleKey identifies a module inside a course.
type ModuleKey struct {
	CourseID string
	ModuleID int
}

func (k ModuleKey) String() string {
	return fmt.Sprintf("%s-%d", k.CourseID, k.ModuleID)
}

// ParseModuleKey converts the persisted string form back into a typed key.
func ParseModuleKey(s string) (ModuleKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return ModuleKey{}, fmt.Errorf("invalid module key %q", s)
	}
	module, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return ModuleKey{}, fmt.Errorf("invalid module id in key %q: %w", s, err)
	}
	return ModuleKey{
		CourseID: strings.Join(parts[:len(parts)-1], "-"),
		ModuleID: module,
	}, nil
}
