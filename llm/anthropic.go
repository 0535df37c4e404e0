package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/core"
)

// Anthropic is the Claude-backed ChatModel. The API key is read from the
// ANTHROPIC_API_KEY environment variable by the client.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    zerolog.Logger
}

// NewAnthropic creates a Claude chat model.
func NewAnthropic(cfg config.LLMConfig, logger zerolog.Logger) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Anthropic{
		client:    anthropic.NewClient(),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.With().Str("component", "llm").Logger(),
	}
}

// Chat performs one model turn. Parallel tool use is disabled so the graph
// executes at most one staged transfer step per turn.
func (a *Anthropic) Chat(ctx context.Context, system string, messages []core.Message, tools []core.ToolDefinition) (core.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  toAPIMessages(messages),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
	}

	if len(tools) > 0 {
		params.Tools = toAPITools(tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{
				DisableParallelToolUse: anthropic.Bool(true),
			},
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return core.Message{}, fmt.Errorf("claude API error: %w", err)
	}

	a.logger.Debug().
		Int("input_tokens", int(resp.Usage.InputTokens)).
		Int("output_tokens", int(resp.Usage.OutputTokens)).
		Msg("model turn")

	return fromAPIMessage(resp), nil
}

func toAPIMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))

		case core.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, json.RawMessage(call.Args), call.Name))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))

		case core.RoleTool:
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, msg.IsError)))
		}
	}
	return out
}

func toAPITools(tools []core.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, def := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := def.InputSchema["properties"]; ok {
			schema.Properties = props
		}
		schema.Required = requiredFields(def.InputSchema)
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: schema,
			},
		})
	}
	return out
}

// requiredFields reads the schema's required list. Definitions built
// in-process carry []string; definitions fetched over the tool server's RPC
// arrive JSON-decoded as []interface{}.
func requiredFields(schema map[string]interface{}) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []interface{}:
		out := make([]string, 0, len(req))
		for _, v := range req {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func fromAPIMessage(resp *anthropic.Message) core.Message {
	msg := core.Message{Role: core.RoleAssistant}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			msg.Content += block.Text
		case "tool_use":
			msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
				ID:   block.ID,
				Name: block.Name,
				Args: json.RawMessage(block.Input),
			})
		}
	}
	return msg
}
