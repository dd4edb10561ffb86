package models

// ToolDefinition is the machine-readable schema a tool publishes so the
// assistant can discover and invoke it. InputSchema follows the JSON-schema
// object convention the Messages API expects.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"input_schema"`
}

// ToolInputSchema describes a tool's arguments.
type ToolInputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required"`
}
