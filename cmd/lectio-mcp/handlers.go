package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// handleSearchCourseContent implements the search_course_content tool
func handleSearchCourseContent(tool interfaces.Tool, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textResult("Error: 'query' parameter is required"), nil
		}

		args := map[string]interface{}{
			"query": query,
		}
		if courseName := request.GetString("course_name", ""); courseName != "" {
			args["course_name"] = courseName
		}
		// Lesson 0 is a valid introduction lesson, so the missing-value
		// sentinel has to be negative. Tool arguments travel as JSON
		// numbers, hence float64.
		if lesson := request.GetInt("lesson_number", -1); lesson >= 0 {
			args["lesson_number"] = float64(lesson)
		}

		logger.Debug().Str("query", query).Msg("MCP content search")

		return textResult(tool.Execute(ctx, args)), nil
	}
}

// handleGetCourseOutline implements the get_course_outline tool
func handleGetCourseOutline(tool interfaces.Tool, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		courseName, err := request.RequireString("course_name")
		if err != nil || courseName == "" {
			return textResult("Error: 'course_name' parameter is required"), nil
		}

		logger.Debug().Str("course_name", courseName).Msg("MCP outline lookup")

		args := map[string]interface{}{
			"course_name": courseName,
		}
		return textResult(tool.Execute(ctx, args)), nil
	}
}

// textResult wraps tool output in a single text content block. Tool
// failures are text for the model, never protocol errors.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
