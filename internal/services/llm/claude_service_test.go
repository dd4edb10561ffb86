package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/models"
)

const directResponseJSON = `{
	"id": "msg_direct",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-20250514",
	"stop_reason": "end_turn",
	"content": [
		{"type": "text", "text": "Direct answer without tools"}
	],
	"usage": {"input_tokens": 12, "output_tokens": 8}
}`

const toolUseResponseJSON = `{
	"id": "msg_tool",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-20250514",
	"stop_reason": "tool_use",
	"content": [
		{"type": "text", "text": "Let me check."},
		{"type": "tool_use", "id": "tool_123", "name": "search_course_content", "input": {"query": "embeddings", "lesson_number": 2}}
	],
	"usage": {"input_tokens": 40, "output_tokens": 30}
}`

const twoToolUseResponseJSON = `{
	"id": "msg_two_tools",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-20250514",
	"stop_reason": "tool_use",
	"content": [
		{"type": "tool_use", "id": "tool_1", "name": "get_course_outline", "input": {"course_name": "MCP"}},
		{"type": "tool_use", "id": "tool_2", "name": "search_course_content", "input": {"query": "tool registration"}}
	],
	"usage": {"input_tokens": 40, "output_tokens": 50}
}`

const finalResponseJSON = `{
	"id": "msg_final",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-20250514",
	"stop_reason": "end_turn",
	"content": [
		{"type": "text", "text": "This is the final answer"}
	],
	"usage": {"input_tokens": 80, "output_tokens": 16}
}`

// unmarshalMessage builds a response the way the SDK does, so union
// accessors behave exactly as they would on a live API result.
func unmarshalMessage(t *testing.T, raw string) *anthropic.Message {
	t.Helper()
	var message anthropic.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &message))
	return &message
}

type scriptedCreator struct {
	t         *testing.T
	responses []*anthropic.Message
	failAt    int // 1-based call index to fail on, 0 for never
	calls     []anthropic.MessageNewParams
}

func (c *scriptedCreator) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	c.calls = append(c.calls, params)
	n := len(c.calls)
	if c.failAt == n {
		return nil, fmt.Errorf("connection reset")
	}
	if n > len(c.responses) {
		c.t.Fatalf("unexpected call %d to Messages.New", n)
	}
	return c.responses[n-1], nil
}

type executedCall struct {
	name string
	args map[string]interface{}
}

type recordingExecutor struct {
	result string
	calls  []executedCall
}

func (e *recordingExecutor) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) string {
	e.calls = append(e.calls, executedCall{name: name, args: args})
	return e.result
}

func newTestClaudeService(creator MessageCreator) *ClaudeService {
	return &ClaudeService{
		messages: creator,
		config: &common.ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   800,
			Temperature: 0,
		},
		logger:  common.GetLogger(),
		timeout: 2 * time.Minute,
	}
}

func searchToolDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials",
		InputSchema: models.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{"type": "string"},
			},
			Required: []string{"query"},
		},
	}
}

func TestGenerateResponse_DirectAnswer(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{unmarshalMessage(t, directResponseJSON)}}
	svc := newTestClaudeService(creator)

	answer, err := svc.GenerateResponse(context.Background(), "What is 2+2?", "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "Direct answer without tools", answer)
	require.Len(t, creator.calls, 1)

	params := creator.calls[0]
	assert.Empty(t, params.Tools)
	require.Len(t, params.System, 1)
	assert.Equal(t, systemPrompt, params.System[0].Text)
	require.Len(t, params.Messages, 1)
	assert.Equal(t, "user", string(params.Messages[0].Role))
}

func TestGenerateResponse_ToolRound(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{
		unmarshalMessage(t, toolUseResponseJSON),
		unmarshalMessage(t, finalResponseJSON),
	}}
	svc := newTestClaudeService(creator)
	executor := &recordingExecutor{result: "Tool result"}

	answer, err := svc.GenerateResponse(context.Background(), "What are embeddings?", "", []models.ToolDefinition{searchToolDefinition()}, executor)

	require.NoError(t, err)
	assert.Equal(t, "This is the final answer", answer)
	require.Len(t, creator.calls, 2)

	require.Len(t, executor.calls, 1)
	assert.Equal(t, "search_course_content", executor.calls[0].name)
	assert.Equal(t, map[string]interface{}{
		"query":         "embeddings",
		"lesson_number": float64(2),
	}, executor.calls[0].args)

	first := creator.calls[0]
	require.Len(t, first.Tools, 1)

	second := creator.calls[1]
	assert.Empty(t, second.Tools, "follow-up call must not offer tools")
	require.Len(t, second.Messages, 3)
	assert.Equal(t, "user", string(second.Messages[0].Role))
	assert.Equal(t, "assistant", string(second.Messages[1].Role))
	assert.Equal(t, "user", string(second.Messages[2].Role))

	resultJSON, err := json.Marshal(second.Messages[2])
	require.NoError(t, err)
	assert.Contains(t, string(resultJSON), "tool_123")
	assert.Contains(t, string(resultJSON), "Tool result")
}

func TestGenerateResponse_ExecutesAllToolCallsInOrder(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{
		unmarshalMessage(t, twoToolUseResponseJSON),
		unmarshalMessage(t, finalResponseJSON),
	}}
	svc := newTestClaudeService(creator)
	executor := &recordingExecutor{result: "ok"}

	answer, err := svc.GenerateResponse(context.Background(), "Outline and search", "", []models.ToolDefinition{searchToolDefinition()}, executor)

	require.NoError(t, err)
	assert.Equal(t, "This is the final answer", answer)
	require.Len(t, creator.calls, 2, "multiple tool calls still cost a single extra round-trip")

	require.Len(t, executor.calls, 2)
	assert.Equal(t, "get_course_outline", executor.calls[0].name)
	assert.Equal(t, map[string]interface{}{"course_name": "MCP"}, executor.calls[0].args)
	assert.Equal(t, "search_course_content", executor.calls[1].name)
	assert.Equal(t, map[string]interface{}{"query": "tool registration"}, executor.calls[1].args)

	resultJSON, err := json.Marshal(creator.calls[1].Messages[2])
	require.NoError(t, err)
	assert.Contains(t, string(resultJSON), "tool_1")
	assert.Contains(t, string(resultJSON), "tool_2")
}

func TestGenerateResponse_ToolUseWithoutExecutor(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{unmarshalMessage(t, toolUseResponseJSON)}}
	svc := newTestClaudeService(creator)

	answer, err := svc.GenerateResponse(context.Background(), "What are embeddings?", "", []models.ToolDefinition{searchToolDefinition()}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Let me check.", answer)
	assert.Len(t, creator.calls, 1)
}

func TestGenerateResponse_HistoryRidesInSystemPrompt(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{unmarshalMessage(t, directResponseJSON)}}
	svc := newTestClaudeService(creator)
	history := "User: What is MCP?\nAssistant: A protocol for tool access."

	_, err := svc.GenerateResponse(context.Background(), "Tell me more", history, nil, nil)

	require.NoError(t, err)
	require.Len(t, creator.calls, 1)
	require.Len(t, creator.calls[0].System, 1)
	assert.Equal(t, systemPrompt+"\n\nPrevious conversation:\n"+history, creator.calls[0].System[0].Text)

	require.Len(t, creator.calls[0].Messages, 1)
	messageJSON, err := json.Marshal(creator.calls[0].Messages[0])
	require.NoError(t, err)
	assert.NotContains(t, string(messageJSON), "Previous conversation")
}

func TestGenerateResponse_FirstCallErrorPropagates(t *testing.T) {
	creator := &scriptedCreator{t: t, failAt: 1}
	svc := newTestClaudeService(creator)

	answer, err := svc.GenerateResponse(context.Background(), "anything", "", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude request failed")
	assert.Empty(t, answer)
}

func TestGenerateResponse_SecondCallErrorPropagates(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{unmarshalMessage(t, toolUseResponseJSON)}, failAt: 2}
	svc := newTestClaudeService(creator)
	executor := &recordingExecutor{result: "Tool result"}

	answer, err := svc.GenerateResponse(context.Background(), "anything", "", []models.ToolDefinition{searchToolDefinition()}, executor)

	require.Error(t, err)
	assert.Empty(t, answer)
	assert.Len(t, executor.calls, 1, "tools run before the failing follow-up call")
}

func TestGenerateResponse_ToolSchemaOnWire(t *testing.T) {
	creator := &scriptedCreator{t: t, responses: []*anthropic.Message{unmarshalMessage(t, directResponseJSON)}}
	svc := newTestClaudeService(creator)

	_, err := svc.GenerateResponse(context.Background(), "anything", "", []models.ToolDefinition{searchToolDefinition()}, &recordingExecutor{})
	require.NoError(t, err)

	require.Len(t, creator.calls, 1)
	require.Len(t, creator.calls[0].Tools, 1)
	toolJSON, err := json.Marshal(creator.calls[0].Tools[0])
	require.NoError(t, err)
	assert.Contains(t, string(toolJSON), `"search_course_content"`)
	assert.Contains(t, string(toolJSON), `"required":["query"]`)
}

func TestDecodeToolInput_NullInput(t *testing.T) {
	message := unmarshalMessage(t, `{
		"id": "msg_null",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "tool_use",
		"content": [
			{"type": "tool_use", "id": "tool_null", "name": "search_course_content", "input": null}
		],
		"usage": {"input_tokens": 5, "output_tokens": 5}
	}`)

	toolUse, ok := message.Content[0].AsAny().(anthropic.ToolUseBlock)
	require.True(t, ok)

	args := decodeToolInput(toolUse)
	assert.NotNil(t, args)
	assert.Empty(t, args)
}

func TestSystemPromptNamesBothTools(t *testing.T) {
	assert.Contains(t, systemPrompt, "search_course_content")
	assert.Contains(t, systemPrompt, "get_course_outline")
	assert.Contains(t, systemPrompt, "One tool use per query maximum")
	assert.Contains(t, strings.ToLower(systemPrompt), "course outline")
}

func TestNewClaudeService_RequiresAPIKey(t *testing.T) {
	_, err := NewClaudeService(&common.ClaudeConfig{Model: "claude-sonnet-4-20250514"}, common.GetLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewClaudeService_RejectsBadTimeout(t *testing.T) {
	_, err := NewClaudeService(&common.ClaudeConfig{APIKey: "sk-test", Model: "claude-sonnet-4-20250514", Timeout: "soon"}, common.GetLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
