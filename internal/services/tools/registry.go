package tools

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Registry is the name-keyed tool collection handed to the generation
// layer. Definitions preserve registration order so the schema list the
// model sees is stable across requests.
//
// The registry is not safe for concurrent queries; callers serialize
// in-flight queries above it.
type Registry struct {
	tools  map[string]interfaces.Tool
	order  []string
	logger arbor.ILogger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger arbor.ILogger) *Registry {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Registry{
		tools:  make(map[string]interfaces.Tool),
		logger: logger,
	}
}

// Register adds a tool under its definition name. Re-registering a name
// replaces the prior tool without changing its position.
func (r *Registry) Register(tool interfaces.Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool

	r.logger.Debug().Str("tool", name).Msg("Tool registered")
}

// GetToolDefinitions lists every registered tool's definition in
// registration order.
func (r *Registry) GetToolDefinitions() []models.ToolDefinition {
	defs := make([]models.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// ExecuteTool dispatches to the named tool. Unknown names come back as an
// error message, not a failure, so the model can relay them.
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) string {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn().Str("tool", name).Msg("Unknown tool requested")
		return fmt.Sprintf("Tool '%s' not found", name)
	}

	r.logger.Debug().Str("tool", name).Msg("Executing tool")
	result := tool.Execute(ctx, args)
	r.logger.Debug().Str("tool", name).Int("result_length", len(result)).Msg("Tool execution complete")

	return result
}

// GetLastSources collects sources from every source-tracking tool in
// registration order.
func (r *Registry) GetLastSources() []models.Source {
	var sources []models.Source
	for _, name := range r.order {
		if tracker, ok := r.tools[name].(interfaces.SourceTracker); ok {
			sources = append(sources, tracker.LastSources()...)
		}
	}
	return sources
}

// ResetSources clears the source slot on every source-tracking tool.
func (r *Registry) ResetSources() {
	for _, name := range r.order {
		if tracker, ok := r.tools[name].(interfaces.SourceTracker); ok {
			tracker.ResetSources()
		}
	}
}
