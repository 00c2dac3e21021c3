package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

// Claude gets structured output by forcing a single tool call whose input
// schema is the response schema.
type Claude struct {
	client anthropic.Client
	model  string
}

func NewClaude(apiKey string, opts ...option.RequestOption) *Claude {
	return NewClaudeWithModel(apiKey, defaultClaudeModel, opts...)
}

func NewClaudeWithModel(apiKey, model string, opts ...option.RequestOption) *Claude {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Claude{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (c *Claude) Name() string     { return string(ProviderClaude) }
func (c *Claude) GetModel() string { return c.model }

func (c *Claude) Chat(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(req.maxTokens()),
		System: []anthropic.TextBlockParam{{
			Type: "text",
			Text: req.SystemPrompt,
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}

	toolName := req.SchemaName
	if req.Schema != nil {
		params.Tools = []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        toolName,
				Description: anthropic.String("Record the structured response."),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: req.Schema.Properties,
					Required:   req.Schema.Required,
				},
			},
		}}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: toolName},
		}
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic chat: %w", err)
	}

	slog.DebugContext(ctx, "claude chat completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	var text string
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			if block.Name == toolName {
				return string(block.Input), nil
			}
		case "text":
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Claude")
	}
	return text, nil
}
