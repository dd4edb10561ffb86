package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Service loads course transcripts from disk into the search store:
// read, parse, chunk, embed, persist. Courses whose title already exists
// in the store are skipped, so re-running a folder scan is idempotent.
type Service struct {
	search  interfaces.SearchService
	chunker chunker
	pdf     *pdfExtractor
	config  *common.IngestConfig
	logger  arbor.ILogger
}

// NewService builds the ingestion service. chunkingConfig and ingestConfig
// may be nil; defaults apply.
func NewService(search interfaces.SearchService, chunkingConfig *common.ChunkingConfig, ingestConfig *common.IngestConfig, logger arbor.ILogger) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	if ingestConfig == nil {
		ingestConfig = &common.IngestConfig{
			Extensions: []string{".txt", ".pdf", ".md"},
		}
	}
	return &Service{
		search:  search,
		chunker: newChunker(chunkingConfig),
		pdf:     newPDFExtractor(logger),
		config:  ingestConfig,
		logger:  logger,
	}
}

// AddCourseDocument ingests a single transcript file and returns the
// parsed course and the number of chunks stored.
func (s *Service) AddCourseDocument(ctx context.Context, path string) (*models.Course, int, error) {
	return s.addCourseDocument(ctx, path, nil)
}

// AddCourseFolder ingests every recognized file in dir, in lexical file
// name order. Courses already present in the store are skipped; a file
// that fails to parse is logged and does not abort the scan. Returns the
// number of courses and chunks added.
func (s *Service) AddCourseFolder(ctx context.Context, dir string, clearExisting bool) (int, int, error) {
	if clearExisting {
		s.logger.Info().Msg("Clearing existing course data before rebuild")
		if err := s.search.ClearAll(ctx); err != nil {
			return 0, 0, fmt.Errorf("failed to clear store: %w", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("dir", dir).Msg("Course document folder does not exist")
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read course folder %s: %w", dir, err)
	}

	existing := make(map[string]bool)
	for _, title := range s.search.GetExistingCourseTitles(ctx) {
		existing[title] = true
	}

	totalCourses := 0
	totalChunks := 0
	// os.ReadDir returns entries sorted by file name, which fixes the
	// ingest order across runs.
	for _, entry := range entries {
		if entry.IsDir() || !s.allowedExtension(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		course, chunkCount, err := s.addCourseDocument(ctx, path, existing)
		if err != nil {
			s.logger.Error().Err(err).Str("file", entry.Name()).Msg("Failed to ingest course document")
			continue
		}
		if course == nil {
			continue
		}

		existing[course.Title] = true
		totalCourses++
		totalChunks += chunkCount
	}

	s.logger.Info().
		Str("dir", dir).
		Int("courses", totalCourses).
		Int("chunks", totalChunks).
		Msg("Course folder scan complete")

	return totalCourses, totalChunks, nil
}

// addCourseDocument ingests path unless its course title is already in
// existing (nil means no skip set). Returns (nil, 0, nil) for skipped
// duplicates.
func (s *Service) addCourseDocument(ctx context.Context, path string, existing map[string]bool) (*models.Course, int, error) {
	content, err := s.loadFile(path)
	if err != nil {
		return nil, 0, err
	}

	doc := parseCourseDocument(content, filepath.Base(path))
	if existing[doc.course.Title] {
		s.logger.Debug().Str("course", doc.course.Title).Msg("Course already stored, skipping")
		return nil, 0, nil
	}

	chunks := s.buildChunks(doc)
	if err := s.search.AddCourseMetadata(ctx, &doc.course); err != nil {
		return nil, 0, fmt.Errorf("failed to store course metadata for %s: %w", path, err)
	}
	if err := s.search.AddCourseContent(ctx, chunks); err != nil {
		return nil, 0, fmt.Errorf("failed to store course content for %s: %w", path, err)
	}

	s.logger.Info().
		Str("course", doc.course.Title).
		Int("lessons", len(doc.course.Lessons)).
		Int("chunks", len(chunks)).
		Msg("Ingested course document")

	return &doc.course, len(chunks), nil
}

// buildChunks turns parsed lesson sections into stored chunks. The first
// chunk of each lesson is prefixed with its lesson number, and the first
// lesson of the document also carries the course title, so retrieved
// spans identify themselves without surrounding context.
func (s *Service) buildChunks(doc parsedDocument) []models.CourseChunk {
	var chunks []models.CourseChunk
	chunkIndex := 0

	for li, lesson := range doc.lessons {
		lessonNumber := lesson.number
		for ci, text := range s.chunker.Chunk(lesson.body) {
			content := text
			if ci == 0 {
				if li == 0 {
					content = fmt.Sprintf("Course %s Lesson %d content: %s", doc.course.Title, lessonNumber, text)
				} else {
					content = fmt.Sprintf("Lesson %d content: %s", lessonNumber, text)
				}
			}
			number := lessonNumber
			chunks = append(chunks, models.CourseChunk{
				Content:      content,
				CourseTitle:  doc.course.Title,
				LessonNumber: &number,
				ChunkIndex:   chunkIndex,
			})
			chunkIndex++
		}
	}

	if len(chunks) == 0 && doc.body != "" {
		for _, text := range s.chunker.Chunk(doc.body) {
			chunks = append(chunks, models.CourseChunk{
				Content:     text,
				CourseTitle: doc.course.Title,
				ChunkIndex:  chunkIndex,
			})
			chunkIndex++
		}
	}

	return chunks
}

// loadFile reads a transcript file and converts it to plain text based on
// its extension.
func (s *Service) loadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return s.pdf.extractFile(path)
	case ".md":
		raw, err := readTextFile(path)
		if err != nil {
			return "", err
		}
		return extractMarkdownText([]byte(raw))
	default:
		return readTextFile(path)
	}
}

func (s *Service) allowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.config.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// readTextFile reads a UTF-8 text file, tolerating a leading BOM.
func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimPrefix(string(raw), "\ufeff"), nil
}
