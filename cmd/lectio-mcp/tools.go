package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createSearchCourseContentTool returns the search_course_content tool definition
func createSearchCourseContentTool() mcp.Tool {
	return mcp.NewTool("search_course_content",
		mcp.WithDescription("Search course materials with smart course name matching and lesson filtering"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to search for in the course content"),
		),
		mcp.WithString("course_name",
			mcp.Description("Course title (partial matches work, e.g. 'MCP', 'Introduction')"),
		),
		mcp.WithNumber("lesson_number",
			mcp.Description("Specific lesson number to search within (e.g. 1, 2, 3)"),
		),
	)
}

// createGetCourseOutlineTool returns the get_course_outline tool definition
func createGetCourseOutlineTool() mcp.Tool {
	return mcp.NewTool("get_course_outline",
		mcp.WithDescription("Get the complete outline of a course including its title, link, and all lesson numbers and titles"),
		mcp.WithString("course_name",
			mcp.Required(),
			mcp.Description("Course title (partial matches work, e.g. 'MCP', 'Introduction')"),
		),
	)
}
