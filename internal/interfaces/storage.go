package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// CourseStorage persists the course catalog and content chunks. It holds
// two logical collections: one metadata record per course (title-keyed,
// with the title embedding used for fuzzy resolution) and one record per
// content chunk (with its content embedding).
type CourseStorage interface {
	// UpsertCourse saves or replaces the catalog record for course.Title.
	UpsertCourse(ctx context.Context, course *models.Course, titleEmbedding []float32) error

	// GetCourse returns the stored course with the exact title, or nil
	// when no such course exists.
	GetCourse(ctx context.Context, title string) (*models.Course, error)

	// ListCourseTitles returns all stored titles, order unspecified.
	ListCourseTitles(ctx context.Context) ([]string, error)

	// CatalogEntries returns every stored title with its embedding, in
	// stable title order, for nearest-neighbor resolution.
	CatalogEntries(ctx context.Context) ([]models.CatalogEntry, error)

	// CourseCount returns the number of stored courses.
	CourseCount(ctx context.Context) (int, error)

	// UpsertChunks saves content chunks with their embeddings.
	UpsertChunks(ctx context.Context, chunks []models.EmbeddedChunk) error

	// ChunksByCourse returns all chunks whose CourseTitle equals title.
	ChunksByCourse(ctx context.Context, title string) ([]models.EmbeddedChunk, error)

	// AllChunks returns every stored chunk.
	AllChunks(ctx context.Context) ([]models.EmbeddedChunk, error)

	// ChunkCount returns the number of stored chunks.
	ChunkCount(ctx context.Context) (int, error)

	// ClearAll removes all catalog and content records.
	ClearAll(ctx context.Context) error
}

// StorageManager owns the database connection and hands out storage
// implementations bound to it.
type StorageManager interface {
	CourseStorage() CourseStorage
	Close() error
}
