package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// Tool is a capability the assistant can invoke by name. Definition
// describes the tool to the model; Execute runs it and returns the text
// placed in the tool result block. Execution failures come back as
// human-readable text, not errors, so the model can relay them.
type Tool interface {
	Definition() models.ToolDefinition
	Execute(ctx context.Context, args map[string]interface{}) string
}

// SourceTracker is implemented by tools that record which stored content
// backed their last execution. Sources accumulate across executions until
// reset, so a multi-tool turn surfaces every citation.
type SourceTracker interface {
	LastSources() []models.Source
	ResetSources()
}

// ToolExecutor dispatches a named tool call. Unknown names return an
// error message as text rather than failing the request.
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, name string, args map[string]interface{}) string
}

// ToolRegistry is the full tool surface handed to the generation layer:
// definitions for the request, dispatch during the tool round, and
// source collection afterwards.
type ToolRegistry interface {
	ToolExecutor

	// Register adds a tool under its definition name, replacing any
	// previous registration with that name.
	Register(tool Tool)

	// GetToolDefinitions lists every registered tool's definition.
	GetToolDefinitions() []models.ToolDefinition

	// GetLastSources collects sources from all source-tracking tools.
	GetLastSources() []models.Source

	// ResetSources clears sources on all source-tracking tools.
	ResetSources()
}
