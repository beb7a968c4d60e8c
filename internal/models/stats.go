package models

// UserStats gives overall learner progress across all courses
type UserStats struct {
	TotalCourses      int     `json:"total_courses"`      // courses the user has touched
	CompletedCourses  int     `json:"completed_courses"`  // completed or certified
	TotalStudyTime    int     `json:"total_study_time"`   // minutes
	TotalAchievements int     `json:"total_achievements"` //
	TotalCertificates int     `json:"total_certificates"` //
	AverageGrade      float64 `json:"average_grade"`      // mean of certificate grades, 0 if none
}
