package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/ternarybob/lectio/internal/storage/badger"
)

const (
	mlCourseTitle = "Test Course on Machine Learning"

	mlChunk = "Machine learning is the study of algorithms that improve with experience."
	nnChunk = "Neural networks are composed of layers of interconnected nodes."
	bpChunk = "Backpropagation adjusts weights by the gradient of the loss."
)

// stubEmbedder returns canned vectors keyed by exact text so similarity
// ordering in tests is hand-computable. Unknown texts get the fallback,
// which is orthogonal to every canned vector.
type stubEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vectors: map[string][]float32{
			mlCourseTitle: {1, 0, 0, 0},
			"Test Course": {0.95, 0.05, 0, 0},

			mlChunk: {1, 0, 0, 0},
			nnChunk: {0, 1, 0, 0},
			bpChunk: {0, 0.6, 0.8, 0},

			"machine learning": {1, 0, 0, 0},
			"neural networks":  {0, 1, 0, 0},
		},
		fallback: []float32{0, 0, 0, 1},
	}
}

func (e *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.calls++
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return e.fallback, nil
}

func (e *stubEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int { return 4 }

func (e *stubEmbedder) IsAvailable() bool { return true }

func newTestService(t *testing.T, embedder interfaces.EmbeddingService, maxResults int) interfaces.SearchService {
	t.Helper()

	db, err := badger.NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storage := badger.NewCourseStorage(db, arbor.NewLogger())
	config := &common.SearchConfig{MaxResults: maxResults, MaxHistory: 2}
	return NewVectorSearchService(storage, embedder, config, arbor.NewLogger())
}

func testCourse() *models.Course {
	return &models.Course{
		Title:      mlCourseTitle,
		CourseLink: "https://example.com/ml-course",
		Instructor: "Test Instructor",
		Lessons: []models.Lesson{
			{LessonNumber: 0, Title: "Introduction", LessonLink: "https://example.com/ml-course/lesson-0"},
			{LessonNumber: 1, Title: "Supervised Learning"},
			{LessonNumber: 2, Title: "Neural Networks", LessonLink: "https://example.com/ml-course/lesson-2"},
		},
	}
}

func lessonPtr(n int) *int {
	return &n
}

func testChunks() []models.CourseChunk {
	return []models.CourseChunk{
		{Content: mlChunk, CourseTitle: mlCourseTitle, LessonNumber: lessonPtr(0), ChunkIndex: 0},
		{Content: nnChunk, CourseTitle: mlCourseTitle, LessonNumber: lessonPtr(2), ChunkIndex: 1},
		{Content: bpChunk, CourseTitle: mlCourseTitle, LessonNumber: lessonPtr(2), ChunkIndex: 2},
	}
}

func seedCourse(t *testing.T, svc interfaces.SearchService) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.AddCourseMetadata(ctx, testCourse()))
	require.NoError(t, svc.AddCourseContent(ctx, testChunks()))
}

func TestAddCourseMetadata_RequiresTitle(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)

	assert.Error(t, svc.AddCourseMetadata(context.Background(), nil))
	assert.Error(t, svc.AddCourseMetadata(context.Background(), &models.Course{}))
}

func TestResolveCourseName_ExactTitle(t *testing.T) {
	embedder := newStubEmbedder()
	svc := newTestService(t, embedder, 5)
	seedCourse(t, svc)

	callsBefore := embedder.calls
	resolved, ok := svc.ResolveCourseName(context.Background(), mlCourseTitle)

	assert.True(t, ok)
	assert.Equal(t, mlCourseTitle, resolved)
	assert.Equal(t, callsBefore, embedder.calls, "exact title should resolve without an embedding call")
}

func TestResolveCourseName_PartialName(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	resolved, ok := svc.ResolveCourseName(context.Background(), "Test Course")

	assert.True(t, ok)
	assert.Equal(t, mlCourseTitle, resolved)
}

func TestResolveCourseName_NoCloseMatch(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	resolved, ok := svc.ResolveCourseName(context.Background(), "Nonexistent Course XYZ")

	assert.False(t, ok)
	assert.Empty(t, resolved)
}

func TestResolveCourseName_EmptyCatalog(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)

	resolved, ok := svc.ResolveCourseName(context.Background(), "Test Course")

	assert.False(t, ok)
	assert.Empty(t, resolved)
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "neural networks", interfaces.SearchOptions{})

	require.Empty(t, results.Error)
	require.Len(t, results.Documents, 3)
	require.Len(t, results.Metadata, len(results.Documents))

	assert.Equal(t, nnChunk, results.Documents[0])
	assert.Equal(t, bpChunk, results.Documents[1])
	assert.Equal(t, mlChunk, results.Documents[2])
	assert.Equal(t, mlCourseTitle, results.Metadata[0].CourseTitle)
	assert.Equal(t, 2, *results.Metadata[0].LessonNumber)
}

func TestSearch_CourseFilter(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "machine learning", interfaces.SearchOptions{
		CourseName: "Test Course",
	})

	require.Empty(t, results.Error)
	require.NotEmpty(t, results.Documents)
	assert.Equal(t, mlChunk, results.Documents[0])
	assert.Equal(t, mlCourseTitle, results.Metadata[0].CourseTitle)
}

func TestSearch_UnknownCourse(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "anything", interfaces.SearchOptions{
		CourseName: "Nonexistent Course XYZ",
	})

	assert.Equal(t, "No course found matching 'Nonexistent Course XYZ'", results.Error)
	assert.True(t, results.IsEmpty())
	assert.Empty(t, results.Documents)
}

func TestSearch_LessonFilter(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "machine learning", interfaces.SearchOptions{
		LessonNumber: lessonPtr(2),
	})

	require.Empty(t, results.Error)
	require.Len(t, results.Documents, 2)

	// Both lesson 2 chunks score zero against this query; storage order
	// (chunk index) breaks the tie.
	assert.Equal(t, nnChunk, results.Documents[0])
	assert.Equal(t, bpChunk, results.Documents[1])
	for _, meta := range results.Metadata {
		require.NotNil(t, meta.LessonNumber)
		assert.Equal(t, 2, *meta.LessonNumber)
	}
}

func TestSearch_LessonFilterNoMatches(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "machine learning", interfaces.SearchOptions{
		LessonNumber: lessonPtr(7),
	})

	assert.Empty(t, results.Error)
	assert.True(t, results.IsEmpty())
}

func TestSearch_LimitCapsResults(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "neural networks", interfaces.SearchOptions{Limit: 1})

	require.Empty(t, results.Error)
	require.Len(t, results.Documents, 1)
	assert.Equal(t, nnChunk, results.Documents[0])
}

func TestSearch_DefaultLimitFromConfig(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 2)
	seedCourse(t, svc)

	results := svc.Search(context.Background(), "neural networks", interfaces.SearchOptions{})

	require.Empty(t, results.Error)
	assert.Len(t, results.Documents, 2)
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	embedder := newStubEmbedder()
	svc := newTestService(t, embedder, 5)
	seedCourse(t, svc)

	embedder.err = errors.New("boom")
	results := svc.Search(context.Background(), "machine learning", interfaces.SearchOptions{})

	assert.Equal(t, "Search error: boom", results.Error)
	assert.True(t, results.IsEmpty())
}

func TestGetCourseOutline(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	outline, ok := svc.GetCourseOutline(context.Background(), "Test Course")

	require.True(t, ok)
	require.NotNil(t, outline)
	assert.Equal(t, mlCourseTitle, outline.CourseTitle)
	assert.Equal(t, "https://example.com/ml-course", outline.CourseLink)

	require.Len(t, outline.Lessons, 3)
	for i, lesson := range outline.Lessons {
		assert.Equal(t, i, lesson.LessonNumber)
	}
	assert.Equal(t, "Introduction", outline.Lessons[0].LessonTitle)
	assert.Equal(t, "Supervised Learning", outline.Lessons[1].LessonTitle)
	assert.Empty(t, outline.Lessons[1].LessonLink)
	assert.Equal(t, "https://example.com/ml-course/lesson-2", outline.Lessons[2].LessonLink)
}

func TestGetCourseOutline_SortsLessons(t *testing.T) {
	embedder := newStubEmbedder()
	embedder.vectors["Scrambled Course"] = []float32{0, 0, 1, 0}
	svc := newTestService(t, embedder, 5)

	course := &models.Course{
		Title: "Scrambled Course",
		Lessons: []models.Lesson{
			{LessonNumber: 2, Title: "Third"},
			{LessonNumber: 0, Title: "First"},
			{LessonNumber: 1, Title: "Second"},
		},
	}
	require.NoError(t, svc.AddCourseMetadata(context.Background(), course))

	outline, ok := svc.GetCourseOutline(context.Background(), "Scrambled Course")

	require.True(t, ok)
	require.Len(t, outline.Lessons, 3)
	assert.Equal(t, "First", outline.Lessons[0].LessonTitle)
	assert.Equal(t, "Second", outline.Lessons[1].LessonTitle)
	assert.Equal(t, "Third", outline.Lessons[2].LessonTitle)
}

func TestCourseAndLessonLinks(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	ctx := context.Background()
	assert.Equal(t, "https://example.com/ml-course", svc.GetCourseLink(ctx, mlCourseTitle))
	assert.Equal(t, "https://example.com/ml-course/lesson-2", svc.GetLessonLink(ctx, mlCourseTitle, 2))
	assert.Empty(t, svc.GetLessonLink(ctx, mlCourseTitle, 1), "lesson without a link")
	assert.Empty(t, svc.GetLessonLink(ctx, mlCourseTitle, 9), "lesson that does not exist")
	assert.Empty(t, svc.GetCourseLink(ctx, "Unknown Title"))
}

func TestGetCourseOutline_UnknownCourse(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	outline, ok := svc.GetCourseOutline(context.Background(), "Nonexistent Course XYZ")

	assert.False(t, ok)
	assert.Nil(t, outline)
}

func TestCourseTitlesAndCount(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)

	assert.Equal(t, 0, svc.GetCourseCount(context.Background()))
	assert.Empty(t, svc.GetExistingCourseTitles(context.Background()))

	seedCourse(t, svc)

	assert.Equal(t, 1, svc.GetCourseCount(context.Background()))
	assert.Equal(t, []string{mlCourseTitle}, svc.GetExistingCourseTitles(context.Background()))
}

func TestClearAll(t *testing.T) {
	svc := newTestService(t, newStubEmbedder(), 5)
	seedCourse(t, svc)

	require.NoError(t, svc.ClearAll(context.Background()))

	assert.Equal(t, 0, svc.GetCourseCount(context.Background()))
	results := svc.Search(context.Background(), "machine learning", interfaces.SearchOptions{})
	assert.Empty(t, results.Error)
	assert.True(t, results.IsEmpty())
}
