package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// SearchOptions carries the optional filters of a content search.
type SearchOptions struct {
	// CourseName is a user-typed course reference; it is fuzzy-resolved
	// against stored titles before filtering. Empty means no course filter.
	CourseName string

	// LessonNumber filters chunks to one lesson. Nil means no filter; a
	// number with no matching chunks yields an empty result, not an error.
	LessonNumber *int

	// Limit caps the result count. Zero means the configured default.
	Limit int
}

// SearchService is the semantic retrieval surface over the course corpus:
// writes embed and persist, reads resolve and rank. Search failures are
// data (SearchResults.Error), never Go errors, so tool output can carry
// them back to the assistant verbatim.
type SearchService interface {
	// AddCourseMetadata embeds the course title and upserts the catalog
	// record, making the title visible to resolution and outlines.
	AddCourseMetadata(ctx context.Context, course *models.Course) error

	// AddCourseContent embeds and upserts content chunks.
	AddCourseContent(ctx context.Context, chunks []models.CourseChunk) error

	// Search runs similarity search over course content with optional
	// course/lesson filters. A course name that fails resolution returns
	// results with Error set and no documents.
	Search(ctx context.Context, query string, opts SearchOptions) models.SearchResults

	// ResolveCourseName maps a possibly partial or misspelled course name
	// to the closest stored title. The second return is false when the
	// catalog is empty or resolution failed.
	ResolveCourseName(ctx context.Context, name string) (string, bool)

	// GetExistingCourseTitles returns all stored course titles.
	GetExistingCourseTitles(ctx context.Context) []string

	// GetCourseCount returns the number of stored courses.
	GetCourseCount(ctx context.Context) int

	// GetCourseOutline resolves the course name and returns its outline
	// with lessons ordered by lesson number, or false when resolution fails.
	GetCourseOutline(ctx context.Context, courseName string) (*models.CourseOutline, bool)

	// GetCourseLink returns the link of the course with the exact stored
	// title, or "" when unknown or unset.
	GetCourseLink(ctx context.Context, title string) string

	// GetLessonLink returns the link of one lesson of the course with the
	// exact stored title, or "" when unknown or unset.
	GetLessonLink(ctx context.Context, title string, lessonNumber int) string

	// ClearAll removes all stored course data.
	ClearAll(ctx context.Context) error
}
