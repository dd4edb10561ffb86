package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// courseMatchThreshold is the minimum cosine similarity for a catalog title
// to count as a match during course name resolution. True references
// (partial titles, misspellings, topic shorthand) cluster well above this;
// names for courses that do not exist fall below it.
const courseMatchThreshold = 0.7

// VectorSearchService implements SearchService over embedded course data.
// Two collections back it: the course catalog (title embeddings, used to
// resolve fuzzy course references like "MCP" or a misspelled title to a
// stored one) and course content (chunk embeddings ranked by cosine
// similarity against the query).
//
// Search failures surface as SearchResults.Error rather than Go errors so
// callers can hand the message straight back to the assistant.
type VectorSearchService struct {
	storage    interfaces.CourseStorage
	embedder   interfaces.EmbeddingService
	logger     arbor.ILogger
	maxResults int
}

// NewVectorSearchService creates a vector search service backed by the
// given storage and embedding provider.
func NewVectorSearchService(
	storage interfaces.CourseStorage,
	embedder interfaces.EmbeddingService,
	config *common.SearchConfig,
	logger arbor.ILogger,
) interfaces.SearchService {
	if logger == nil {
		logger = common.GetLogger()
	}

	maxResults := 5
	if config != nil && config.MaxResults > 0 {
		maxResults = config.MaxResults
	}

	return &VectorSearchService{
		storage:    storage,
		embedder:   embedder,
		logger:     logger,
		maxResults: maxResults,
	}
}

// AddCourseMetadata embeds the course title and upserts the catalog record.
func (s *VectorSearchService) AddCourseMetadata(ctx context.Context, course *models.Course) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course title is required")
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, course.Title)
	if err != nil {
		return fmt.Errorf("failed to embed course title: %w", err)
	}

	if err := s.storage.UpsertCourse(ctx, course, embedding); err != nil {
		return fmt.Errorf("failed to store course metadata: %w", err)
	}

	s.logger.Info().
		Str("course", course.Title).
		Int("lessons", len(course.Lessons)).
		Msg("Course metadata added")

	return nil
}

// AddCourseContent embeds chunk contents in batch and upserts them.
func (s *VectorSearchService) AddCourseContent(ctx context.Context, chunks []models.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed course content: %w", err)
	}

	embedded := make([]models.EmbeddedChunk, len(chunks))
	for i, chunk := range chunks {
		embedded[i] = models.EmbeddedChunk{Chunk: chunk, Embedding: embeddings[i]}
	}

	if err := s.storage.UpsertChunks(ctx, embedded); err != nil {
		return fmt.Errorf("failed to store course content: %w", err)
	}

	s.logger.Info().
		Int("chunks", len(chunks)).
		Msg("Course content added")

	return nil
}

// Search runs similarity search over course content. The course filter is
// resolved first so a bad course name fails fast without an embedding call;
// the lesson filter is applied in memory before ranking.
func (s *VectorSearchService) Search(ctx context.Context, query string, opts interfaces.SearchOptions) models.SearchResults {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	courseTitle := ""
	if opts.CourseName != "" {
		resolved, ok := s.ResolveCourseName(ctx, opts.CourseName)
		if !ok {
			return models.NewErrorResults(fmt.Sprintf("No course found matching '%s'", opts.CourseName))
		}
		courseTitle = resolved
	}

	candidates, err := s.candidateChunks(ctx, courseTitle)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load content chunks")
		return models.NewErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	if opts.LessonNumber != nil {
		candidates = filterByLesson(candidates, *opts.LessonNumber)
	}

	if len(candidates) == 0 {
		return models.SearchResults{Documents: []string{}, Metadata: []models.ChunkMetadata{}}
	}

	queryVec, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to embed search query")
		return models.NewErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	ranked := rankBySimilarity(queryVec, candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	documents := make([]string, len(ranked))
	metadata := make([]models.ChunkMetadata, len(ranked))
	for i, chunk := range ranked {
		documents[i] = chunk.Content
		metadata[i] = models.ChunkMetadata{
			CourseTitle:  chunk.CourseTitle,
			LessonNumber: chunk.LessonNumber,
			ChunkIndex:   chunk.ChunkIndex,
		}
	}

	s.logger.Debug().
		Str("query", query).
		Str("course", courseTitle).
		Int("candidates", len(candidates)).
		Int("results", len(documents)).
		Msg("Content search completed")

	return models.SearchResults{Documents: documents, Metadata: metadata}
}

// candidateChunks loads the chunks to rank: the resolved course's chunks
// when a course filter applies, every chunk otherwise.
func (s *VectorSearchService) candidateChunks(ctx context.Context, courseTitle string) ([]models.EmbeddedChunk, error) {
	if courseTitle != "" {
		return s.storage.ChunksByCourse(ctx, courseTitle)
	}
	return s.storage.AllChunks(ctx)
}

// filterByLesson keeps only chunks belonging to the given lesson. Chunks
// without a lesson number never match.
func filterByLesson(chunks []models.EmbeddedChunk, lessonNumber int) []models.EmbeddedChunk {
	filtered := make([]models.EmbeddedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Chunk.LessonNumber != nil && *chunk.Chunk.LessonNumber == lessonNumber {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// ResolveCourseName maps a user-typed course reference to the stored title
// with the highest title-embedding similarity. A best match scoring below
// courseMatchThreshold fails resolution, so names of courses that do not
// exist are rejected rather than mapped to whatever is nearest. The first
// title in catalog order wins exact score ties.
func (s *VectorSearchService) ResolveCourseName(ctx context.Context, name string) (string, bool) {
	if name == "" {
		return "", false
	}

	entries, err := s.storage.CatalogEntries(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load course catalog")
		return "", false
	}
	if len(entries) == 0 {
		return "", false
	}

	// An exact title needs no embedding round-trip.
	for _, entry := range entries {
		if entry.Title == name {
			return entry.Title, true
		}
	}

	nameVec, err := s.embedder.GenerateEmbedding(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("course_name", name).Msg("Failed to embed course name")
		return "", false
	}

	bestTitle := ""
	bestScore := math.Inf(-1)
	for _, entry := range entries {
		score := cosineSimilarity(nameVec, entry.Embedding)
		if score > bestScore {
			bestTitle = entry.Title
			bestScore = score
		}
	}

	if bestScore < courseMatchThreshold {
		s.logger.Debug().
			Str("course_name", name).
			Str("closest", bestTitle).
			Str("score", fmt.Sprintf("%.3f", bestScore)).
			Msg("No course close enough to match")
		return "", false
	}

	s.logger.Debug().
		Str("course_name", name).
		Str("resolved", bestTitle).
		Str("score", fmt.Sprintf("%.3f", bestScore)).
		Msg("Resolved course name")

	return bestTitle, true
}

// GetExistingCourseTitles returns all stored course titles.
func (s *VectorSearchService) GetExistingCourseTitles(ctx context.Context) []string {
	titles, err := s.storage.ListCourseTitles(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list course titles")
		return []string{}
	}
	return titles
}

// GetCourseCount returns the number of stored courses.
func (s *VectorSearchService) GetCourseCount(ctx context.Context) int {
	count, err := s.storage.CourseCount(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count courses")
		return 0
	}
	return count
}

// GetCourseOutline resolves the course name and returns its outline with
// lessons in ascending lesson-number order.
func (s *VectorSearchService) GetCourseOutline(ctx context.Context, courseName string) (*models.CourseOutline, bool) {
	resolved, ok := s.ResolveCourseName(ctx, courseName)
	if !ok {
		return nil, false
	}

	course, err := s.storage.GetCourse(ctx, resolved)
	if err != nil {
		s.logger.Error().Err(err).Str("course", resolved).Msg("Failed to load course")
		return nil, false
	}
	if course == nil {
		return nil, false
	}

	lessons := make([]models.LessonSummary, len(course.Lessons))
	for i, lesson := range course.Lessons {
		lessons[i] = models.LessonSummary{
			LessonNumber: lesson.LessonNumber,
			LessonTitle:  lesson.Title,
			LessonLink:   lesson.LessonLink,
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].LessonNumber < lessons[j].LessonNumber
	})

	return &models.CourseOutline{
		CourseTitle: course.Title,
		CourseLink:  course.CourseLink,
		Lessons:     lessons,
	}, true
}

// GetCourseLink returns the stored course's link, or "" when unknown.
func (s *VectorSearchService) GetCourseLink(ctx context.Context, title string) string {
	course, err := s.storage.GetCourse(ctx, title)
	if err != nil || course == nil {
		return ""
	}
	return course.CourseLink
}

// GetLessonLink returns the link of one lesson, or "" when unknown.
func (s *VectorSearchService) GetLessonLink(ctx context.Context, title string, lessonNumber int) string {
	course, err := s.storage.GetCourse(ctx, title)
	if err != nil || course == nil {
		return ""
	}
	return course.LessonLinkFor(lessonNumber)
}

// ClearAll removes all stored course data.
func (s *VectorSearchService) ClearAll(ctx context.Context) error {
	if err := s.storage.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear course data: %w", err)
	}
	s.logger.Info().Msg("All course data cleared")
	return nil
}
