package models

// CourseMeta is the static catalog entry for a course. The progress layer
// only reads identifiers and lesson counts from here - content delivery is
// someone else's job.
type CourseMeta struct {
	ID          string   `json:"id"` // stable course identifier, e.g. "python-fundamentals"
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Skills      []string `json:"skills,omitempty"`      // printed on certificates
	TotalHours  int      `json:"total_hours,omitempty"` // advertised course length

	Modules []ModuleMeta `json:"modules"`
}

// ModuleMeta describes one module of a course and how many lessons it has
type ModuleMeta struct {
	ID      int    `json:"id"` // 1-based position within the course
	Title   string `json:"title"`
	Lessons int    `json:"lessons"` // lesson count, lessons are numbered 1..Lessons
}

// Module returns the module with the given id, nil if absent
func (c *CourseMeta) Module(moduleID int) *ModuleMeta {
	for i := range c.Modules {
		if c.Modules[i].ID == moduleID {
			return &c.Modules[i]
		}
	}
	return nil
}

// TotalLessons sums lesson counts across all modules
func (c *CourseMeta) TotalLessons() int {
	total := 0
	for _, m := range c.Modules {
		total += m.Lessons
	}
	return total
}
