package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fenix-academy/progress-backend/internal/models"
)

// evaluateAchievements runs the achievement rules against freshly recomputed
// state after a lesson completion. Each rule is keyed by (ruleID, scope) and
// awards at most once per scope - re-completing an already complete module
// must not hand out a second award.
//
// Caller must hold the mutex. Returns the achievements earned by this call.
func (s *ProgressService) evaluateAchievements(st *userState, key models.LessonKey) []models.Achievement {
	var earned []models.Achievement
	now := time.Now().UTC()

	award := func(ruleID, scope, title, description, icon string, points int) {
		if st.hasAchievement(ruleID, scope) {
			return
		}
		a := models.Achievement{
			ID:          uuid.New(),
			RuleID:      ruleID,
			Scope:       scope,
			Title:       title,
			Description: description,
			Icon:        icon,
			Points:      points,
			EarnedAt:    now,
		}
		st.Achievements = append(st.Achievements, a)
		earned = append(earned, a)
	}

	// rule 1: very first lesson of a learner's journey
	if key.ModuleID == 1 && key.LessonID == 1 {
		award(models.RuleFirstLesson, "global",
			"First Lesson",
			"Completed your first lesson",
			"🎯", 10)
	}

	// rule 2: the owning module just became complete
	mk := key.ModuleKey()
	if mod := st.Modules[mk]; mod != nil && mod.Status == models.StatusCompleted {
		award(models.RuleModuleComplete, mk.String(),
			fmt.Sprintf("Module %d Complete", key.ModuleID),
			fmt.Sprintf("Completed module %d of course %s", key.ModuleID, key.CourseID),
			"📚", 50)
	}

	// rule 3: the owning course just became complete
	if cp := st.Courses[key.CourseID]; cp != nil && cp.Status == models.CourseCompleted {
		award(models.RuleCourseComplete, key.CourseID,
			"Course Complete",
			fmt.Sprintf("Completed every module of course %s", key.CourseID),
			"🏆", 100)
	}

	return earned
}
