package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// noLesson marks chunk records carrying no lesson number. Stored records
// flatten the optional field; gob cannot encode nil pointers.
const noLesson = -1

// courseRecord is the stored catalog entry for one course, keyed by title.
type courseRecord struct {
	Title          string
	CourseLink     string
	Instructor     string
	Lessons        []models.Lesson
	TitleEmbedding []float32
}

// chunkRecord is the stored form of one content chunk, keyed by
// "{course title}#{chunk index}".
type chunkRecord struct {
	ID           string
	Content      string
	CourseTitle  string
	LessonNumber int
	ChunkIndex   int
	Embedding    []float32
}

// CourseStorage implements the CourseStorage interface for Badger
type CourseStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCourseStorage creates a new CourseStorage instance
func NewCourseStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CourseStorage {
	return &CourseStorage{
		db:     db,
		logger: logger,
	}
}

func (s *CourseStorage) UpsertCourse(ctx context.Context, course *models.Course, titleEmbedding []float32) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course title is required")
	}

	record := &courseRecord{
		Title:          course.Title,
		CourseLink:     course.CourseLink,
		Instructor:     course.Instructor,
		Lessons:        course.Lessons,
		TitleEmbedding: titleEmbedding,
	}

	if err := s.db.Store().Upsert(course.Title, record); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}

	s.logger.Debug().Str("course", course.Title).Int("lessons", len(course.Lessons)).Msg("Course catalog record saved")
	return nil
}

func (s *CourseStorage) GetCourse(ctx context.Context, title string) (*models.Course, error) {
	var record courseRecord
	if err := s.db.Store().Get(title, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return record.toCourse(), nil
}

func (s *CourseStorage) ListCourseTitles(ctx context.Context) ([]string, error) {
	records, err := s.allCourses()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(records))
	for _, record := range records {
		titles = append(titles, record.Title)
	}
	sort.Strings(titles)
	return titles, nil
}

func (s *CourseStorage) CatalogEntries(ctx context.Context) ([]models.CatalogEntry, error) {
	records, err := s.allCourses()
	if err != nil {
		return nil, err
	}

	// Stable title order so nearest-neighbor ties resolve deterministically
	sort.Slice(records, func(i, j int) bool {
		return records[i].Title < records[j].Title
	})

	entries := make([]models.CatalogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, models.CatalogEntry{
			Title:     record.Title,
			Embedding: record.TitleEmbedding,
		})
	}
	return entries, nil
}

func (s *CourseStorage) CourseCount(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&courseRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return int(count), nil
}

func (s *CourseStorage) UpsertChunks(ctx context.Context, chunks []models.EmbeddedChunk) error {
	for _, embedded := range chunks {
		chunk := embedded.Chunk
		if chunk.CourseTitle == "" {
			return fmt.Errorf("chunk course title is required")
		}

		lessonNumber := noLesson
		if chunk.LessonNumber != nil {
			lessonNumber = *chunk.LessonNumber
		}

		record := &chunkRecord{
			ID:           fmt.Sprintf("%s#%d", chunk.CourseTitle, chunk.ChunkIndex),
			Content:      chunk.Content,
			CourseTitle:  chunk.CourseTitle,
			LessonNumber: lessonNumber,
			ChunkIndex:   chunk.ChunkIndex,
			Embedding:    embedded.Embedding,
		}

		if err := s.db.Store().Upsert(record.ID, record); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", record.ID, err)
		}
	}

	s.logger.Debug().Int("chunks", len(chunks)).Msg("Content chunks saved")
	return nil
}

func (s *CourseStorage) ChunksByCourse(ctx context.Context, title string) ([]models.EmbeddedChunk, error) {
	var records []chunkRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("CourseTitle").Eq(title)); err != nil {
		return nil, fmt.Errorf("failed to find chunks for course %s: %w", title, err)
	}
	return toEmbeddedChunks(records), nil
}

func (s *CourseStorage) AllChunks(ctx context.Context) ([]models.EmbeddedChunk, error) {
	var records []chunkRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("ID").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	return toEmbeddedChunks(records), nil
}

func (s *CourseStorage) ChunkCount(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&chunkRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}

func (s *CourseStorage) ClearAll(ctx context.Context) error {
	if err := s.db.Store().DeleteMatching(&chunkRecord{}, nil); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	if err := s.db.Store().DeleteMatching(&courseRecord{}, nil); err != nil {
		return fmt.Errorf("failed to clear courses: %w", err)
	}

	s.logger.Info().Msg("All course data cleared")
	return nil
}

func (s *CourseStorage) allCourses() ([]courseRecord, error) {
	var records []courseRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("Title").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return records, nil
}

func (r *courseRecord) toCourse() *models.Course {
	return &models.Course{
		Title:      r.Title,
		CourseLink: r.CourseLink,
		Instructor: r.Instructor,
		Lessons:    r.Lessons,
	}
}

// toEmbeddedChunks converts stored records back to model chunks in
// (CourseTitle, ChunkIndex) order so retrieval sees a deterministic base.
func toEmbeddedChunks(records []chunkRecord) []models.EmbeddedChunk {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CourseTitle != records[j].CourseTitle {
			return records[i].CourseTitle < records[j].CourseTitle
		}
		return records[i].ChunkIndex < records[j].ChunkIndex
	})

	chunks := make([]models.EmbeddedChunk, 0, len(records))
	for _, record := range records {
		chunk := models.CourseChunk{
			Content:     record.Content,
			CourseTitle: record.CourseTitle,
			ChunkIndex:  record.ChunkIndex,
		}
		if record.LessonNumber != noLesson {
			n := record.LessonNumber
			chunk.LessonNumber = &n
		}
		chunks = append(chunks, models.EmbeddedChunk{
			Chunk:     chunk,
			Embedding: record.Embedding,
		})
	}
	return chunks
}
