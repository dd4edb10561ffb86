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

// CourseOutlineTool returns a course's structure (title, link, lesson list)
// without touching content search, for questions about what a course covers.
type CourseOutlineTool struct {
	search interfaces.SearchService
	logger arbor.ILogger
}

// NewCourseOutlineTool creates the outline tool.
func NewCourseOutlineTool(search interfaces.SearchService, logger arbor.ILogger) *CourseOutlineTool {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &CourseOutlineTool{
		search: search,
		logger: logger,
	}
}

// Definition describes the tool to the model.
func (t *CourseOutlineTool) Definition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the complete outline of a course including its title, link, and all lesson numbers and titles",
		InputSchema: models.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"course_name": map[string]interface{}{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute resolves the course and renders its outline, one lesson per line.
func (t *CourseOutlineTool) Execute(ctx context.Context, args map[string]interface{}) string {
	courseName, ok := args["course_name"].(string)
	if !ok || courseName == "" {
		return "Error: 'course_name' parameter is required"
	}

	outline, found := t.search.GetCourseOutline(ctx, courseName)
	if !found {
		t.logger.Debug().Str("course_name", courseName).Msg("Outline lookup missed")
		return fmt.Sprintf("No course found matching '%s'", courseName)
	}

	lines := []string{
		fmt.Sprintf("Course: %s", outline.CourseTitle),
		fmt.Sprintf("Link: %s", outline.CourseLink),
	}
	for _, lesson := range outline.Lessons {
		lines = append(lines, fmt.Sprintf("%d: %s", lesson.LessonNumber, lesson.LessonTitle))
	}

	return strings.Join(lines, "\n")
}
