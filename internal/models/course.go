package models

// Course represents one course in the catalog. Title is the natural key
// across the whole system; no surrogate id exists.
type Course struct {
	Title      string   `json:"title"`
	CourseLink string   `json:"course_link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Lesson belongs to exactly one course; LessonNumber is unique within it.
type Lesson struct {
	LessonNumber int    `json:"lesson_number"`
	Title        string `json:"title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// LessonLinkFor returns the link of the lesson with the given number, or ""
// when the course has no such lesson or the lesson carries no link.
func (c *Course) LessonLinkFor(lessonNumber int) string {
	for _, lesson := range c.Lessons {
		if lesson.LessonNumber == lessonNumber {
			return lesson.LessonLink
		}
	}
	return ""
}

// CourseOutline is the structured view of a course used by outline lookups:
// title, link, and lessons ordered by lesson number ascending.
type CourseOutline struct {
	CourseTitle string          `json:"course_title"`
	CourseLink  string          `json:"course_link"`
	Lessons     []LessonSummary `json:"lessons"`
}

// LessonSummary is one outline row.
type LessonSummary struct {
	LessonNumber int    `json:"lesson_number"`
	LessonTitle  string `json:"lesson_title"`
	LessonLink   string `json:"lesson_link,omitempty"`
}

// CatalogEntry pairs a stored course title with its title embedding,
// used for fuzzy course-name resolution.
type CatalogEntry struct {
	Title     string
	Embedding []float32
}

// CourseStats summarizes the catalog for the analytics endpoint.
type CourseStats struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}
