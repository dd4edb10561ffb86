package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// CourseSearchTool exposes semantic content search to the assistant. Each
// execution overwrites the tool's source slot with one Source per returned
// document, so the caller can cite exactly what the last search retrieved.
type CourseSearchTool struct {
	search      interfaces.SearchService
	logger      arbor.ILogger
	lastSources []models.Source
}

// NewCourseSearchTool creates the content search tool.
func NewCourseSearchTool(search interfaces.SearchService, logger arbor.ILogger) *CourseSearchTool {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &CourseSearchTool{
		search: search,
		logger: logger,
	}
}

// Definition describes the tool to the model.
func (t *CourseSearchTool) Definition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: models.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]interface{}{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]interface{}{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute runs the search and formats matches as bracketed context blocks.
// Retrieval errors come back verbatim so the model can relay them.
func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]interface{}) string {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "Error: 'query' parameter is required"
	}

	opts := interfaces.SearchOptions{}
	if courseName, ok := args["course_name"].(string); ok {
		opts.CourseName = courseName
	}
	// JSON numbers decode as float64
	if lesson, ok := args["lesson_number"].(float64); ok {
		n := int(lesson)
		opts.LessonNumber = &n
	}

	results := t.search.Search(ctx, query, opts)
	if results.Error != "" {
		t.logger.Debug().Str("query", query).Str("error", results.Error).Msg("Content search failed")
		return results.Error
	}
	if results.IsEmpty() {
		return emptyMessage(opts)
	}

	return t.formatResults(ctx, results)
}

// emptyMessage names the active filters so the model can tell the user
// what was searched.
func emptyMessage(opts interfaces.SearchOptions) string {
	filterInfo := ""
	if opts.CourseName != "" {
		filterInfo += fmt.Sprintf(" in course '%s'", opts.CourseName)
	}
	if opts.LessonNumber != nil {
		filterInfo += fmt.Sprintf(" in lesson %d", *opts.LessonNumber)
	}
	return fmt.Sprintf("No relevant content found%s.", filterInfo)
}

// formatResults renders each document under a [course - lesson] header and
// records the matching sources, replacing the previous slot entirely.
func (t *CourseSearchTool) formatResults(ctx context.Context, results models.SearchResults) string {
	formatted := make([]string, 0, len(results.Documents))
	sources := make([]models.Source, 0, len(results.Documents))

	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		header := meta.CourseTitle
		if meta.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
		}

		formatted = append(formatted, fmt.Sprintf("[%s]\n%s", header, doc))
		sources = append(sources, models.Source{
			Text: header,
			Link: t.sourceLink(ctx, meta),
		})
	}

	t.lastSources = sources

	return strings.Join(formatted, "\n\n")
}

// sourceLink prefers the lesson link and falls back to the course link.
func (t *CourseSearchTool) sourceLink(ctx context.Context, meta models.ChunkMetadata) string {
	if meta.LessonNumber != nil {
		if link := t.search.GetLessonLink(ctx, meta.CourseTitle, *meta.LessonNumber); link != "" {
			return link
		}
	}
	return t.search.GetCourseLink(ctx, meta.CourseTitle)
}

// LastSources returns the sources recorded by the most recent execution.
func (t *CourseSearchTool) LastSources() []models.Source {
	return t.lastSources
}

// ResetSources clears the source slot.
func (t *CourseSearchTool) ResetSources() {
	t.lastSources = nil
}
