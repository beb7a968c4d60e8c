package services

import (
	"encoding/json"
	"fmt"

	"github.com/fenix-academy/progress-backend/internal/models"
)

// userState is the in-memory form of one learner's progress. Maps are keyed
// by typed composite keys; the string-joined form only exists in the
// persisted blob.
type userState struct {
	Lessons      map[models.LessonKey]*models.LessonProgress
	Modules      map[models.ModuleKey]*models.ModuleProgress
	Courses      map[string]*models.CourseProgress
	Achievements []models.Achievement
	Certificates map[string]*models.Certificate // keyed by certificate id
}

func newUserState() *userState {
	return &userState{
		Lessons:      make(map[models.LessonKey]*models.LessonProgress),
		Modules:      make(map[models.ModuleKey]*models.ModuleProgress),
		Courses:      make(map[string]*models.CourseProgress),
		Certificates: make(map[string]*models.Certificate),
	}
}

// persistedState is the blob layout: five top-level maps with string keys.
// Lesson/module keys serialize as "courseID-moduleID[-lessonID]".
type persistedState struct {
	Lessons      map[string]*models.LessonProgress `json:"lessons"`
	Modules      map[string]*models.ModuleProgress `json:"modules"`
	Courses      map[string]*models.CourseProgress `json:"courses"`
	Achievements []models.Achievement              `json:"achievements"`
	Certificates map[string]*models.Certificate    `json:"certificates"`
}

// marshal converts the state to the persisted blob form
func (s *userState) marshal() ([]byte, error) {
	out := persistedState{
		Lessons:      make(map[string]*models.LessonProgress, len(s.Lessons)),
		Modules:      make(map[string]*models.ModuleProgress, len(s.Modules)),
		Courses:      s.Courses,
		Achievements: s.Achievements,
		Certificates: s.Certificates,
	}
	for k, v := range s.Lessons {
		out.Lessons[k.String()] = v
	}
	for k, v := range s.Modules {
		out.Modules[k.String()] = v
	}
	if out.Achievements == nil {
		out.Achievements = []models.Achievement{}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding progress state: %w", err)
	}
	return data, nil
}

// unmarshalState rebuilds the typed in-memory state from a persisted blob
func unmarshalState(data []byte) (*userState, error) {
	var in persistedState
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decoding progress state: %w", err)
	}

	st := newUserState()
	for k, v := range in.Lessons {
		key, err := models.ParseLessonKey(k)
		if err != nil {
			return nil, err
		}
		if v.Key() != key {
			return nil, fmt.Errorf("lesson row under key %q carries mismatched identifiers", k)
		}
		st.Lessons[key] = v
	}
	for k, v := range in.Modules {
		key, err := models.ParseModuleKey(k)
		if err != nil {
			return nil, err
		}
		st.Modules[key] = v
	}
	if in.Courses != nil {
		st.Courses = in.Courses
	}
	st.Achievements = in.Achievements
	if in.Certificates != nil {
		st.Certificates = in.Certificates
	}
	return st, nil
}

// certificateFor returns the certificate covering a course, nil if none
func (s *userState) certificateFor(courseID string) *models.Certificate {
	for _, cert := range s.Certificates {
		if cert.CourseID == courseID {
			return cert
		}
	}
	return nil
}

// hasAchievement reports whether a rule already fired for a scope
func (s *userState) hasAchievement(ruleID, scope string) bool {
	for _, a := range s.Achievements {
		if a.RuleID == ruleID && a.Scope == scope {
			return true
		}
	}
	return false
}
