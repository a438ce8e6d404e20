package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	llmx "github.com/tanpawarit/stepwise-orchestrator/agent/llm"
)

const anthropicDefaultMaxTokens = 64

// AnthropicCollaborator asks a Claude model for the plan through the Messages API.
type AnthropicCollaborator struct {
	client      *anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewAnthropicCollaborator(client *anthropic.Client, model string, temperature float32, maxTokens int) *AnthropicCollaborator {
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	return &AnthropicCollaborator{
		client:      client,
		model:       strings.TrimSpace(model),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func newAnthropicClient(cfg llmx.Config) *anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}
	if base := cfg.AnthropicBaseURL(); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := anthropic.NewClient(opts...)
	return &client
}

func (c *AnthropicCollaborator) Enabled() bool {
	return c != nil && c.client != nil && c.model != ""
}

func (c *AnthropicCollaborator) Complete(ctx context.Context, req contractx.CollaboratorRequest) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: req.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(float64(c.temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: empty collaborator response", contractx.ErrSchemaViolation)
	}
	return b.String(), nil
}
