package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

const defaultClaudeTimeout = 2 * time.Minute

// MessageCreator is the slice of the Anthropic client the service uses.
// *anthropic.MessageService satisfies it; tests substitute a scripted fake.
type MessageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClaudeService generates answers through the Anthropic Messages API with
// at most one tool round per query: when the first response stops for tool
// use, every requested tool is executed in order and a single follow-up
// call (with no tool schemas attached) produces the final text. A query
// therefore costs exactly one call, or two when tools run.
type ClaudeService struct {
	messages MessageCreator
	config   *common.ClaudeConfig
	logger   arbor.ILogger
	timeout  time.Duration
}

// NewClaudeService builds the generation service from configuration.
// The API key is required; model, token, and temperature settings come
// from the validated config.
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if logger == nil {
		logger = common.GetLogger()
	}
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key)")
	}

	timeout := defaultClaudeTimeout
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid claude timeout %q: %w", config.Timeout, err)
		}
		timeout = parsed
	}

	client := anthropic.NewClient(option.WithAPIKey(config.APIKey))

	logger.Info().
		Str("model", config.Model).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude service initialized")

	return &ClaudeService{
		messages: &client.Messages,
		config:   config,
		logger:   logger,
		timeout:  timeout,
	}, nil
}

// GenerateResponse answers a query, optionally grounding it through tools.
// conversationHistory is pre-rendered prior turns and rides in the system
// prompt rather than the message list. The timeout spans the whole
// generation, both calls of a tool round included.
func (s *ClaudeService) GenerateResponse(ctx context.Context, query string, conversationHistory string, tools []models.ToolDefinition, executor interfaces.ToolExecutor) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system := systemPrompt
	if conversationHistory != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", systemPrompt, conversationHistory)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	}
	params.Temperature = anthropic.Float(float64(s.config.Temperature))
	if len(tools) > 0 {
		params.Tools = toolParams(tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Int("tools", len(tools)).
		Bool("has_history", conversationHistory != "").
		Msg("Sending query to Claude")

	resp, err := s.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	if resp.StopReason == anthropic.StopReasonToolUse && executor != nil {
		return s.completeToolRound(ctx, params, resp, executor)
	}

	return firstText(resp), nil
}

// completeToolRound executes every tool_use block from the first response
// in order, then issues the one follow-up call that turns the results into
// the final answer. The follow-up carries no tool schemas, so no further
// tool use can occur.
func (s *ClaudeService) completeToolRound(ctx context.Context, params anthropic.MessageNewParams, resp *anthropic.Message, executor interfaces.ToolExecutor) (string, error) {
	messages := append(params.Messages, resp.ToParam())

	var results []anthropic.ContentBlockParamUnion
	for _, block := range resp.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}

		args := decodeToolInput(toolUse)
		s.logger.Debug().
			Str("tool", toolUse.Name).
			Str("tool_use_id", toolUse.ID).
			Msg("Executing tool requested by Claude")

		output := executor.ExecuteTool(ctx, toolUse.Name, args)
		results = append(results, anthropic.NewToolResultBlock(toolUse.ID, output, false))
	}

	if len(results) > 0 {
		messages = append(messages, anthropic.NewUserMessage(results...))
	}

	final := anthropic.MessageNewParams{
		Model:     params.Model,
		MaxTokens: params.MaxTokens,
		System:    params.System,
		Messages:  messages,
	}
	final.Temperature = params.Temperature

	resp, err := s.messages.New(ctx, final)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	return firstText(resp), nil
}

// toolParams converts registry definitions to the Messages API tool format.
func toolParams(defs []models.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: def.InputSchema.Properties,
					Required:   def.InputSchema.Required,
				},
			},
		})
	}
	return tools
}

// decodeToolInput round-trips a block's input through JSON into the
// generic argument map tools consume. Malformed input yields an empty map
// and the tool reports its own missing-parameter error.
func decodeToolInput(block anthropic.ToolUseBlock) map[string]interface{} {
	args := map[string]interface{}{}
	data, err := json.Marshal(block.Input)
	if err != nil {
		return args
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return map[string]interface{}{}
	}
	return args
}

// firstText returns the text of the first text block, or "" when the
// response carries none.
func firstText(message *anthropic.Message) string {
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}
