package planner

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	llmx "github.com/tanpawarit/stepwise-orchestrator/agent/llm"
	openrouterx "github.com/tanpawarit/stepwise-orchestrator/pkg/openrouter"
)

var (
	_ contractx.Collaborator = (*ChatModelCollaborator)(nil)
	_ contractx.Collaborator = (*OpenAICollaborator)(nil)
	_ contractx.Collaborator = (*AnthropicCollaborator)(nil)
	_ contractx.Collaborator = disabledCollaborator{}
)

// NewCollaborator builds the collaborator selected by cfg. An inactive config
// yields a collaborator that reports itself disabled.
func NewCollaborator(ctx context.Context, cfg llmx.Config) (contractx.Collaborator, error) {
	if !cfg.Active() {
		return disabledCollaborator{}, nil
	}

	modelCfg := cfg.OpenRouter()
	switch cfg.Provider {
	case llmx.ProviderOpenAI:
		client := openrouterx.NewClient(modelCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: openai client requires an api key", contractx.ErrValidation)
		}
		return NewOpenAICollaborator(client, modelCfg.Model, cfg.Temperature, cfg.MaxCompletionToken), nil
	case llmx.ProviderAnthropic:
		return NewAnthropicCollaborator(newAnthropicClient(cfg), cfg.Model, cfg.Temperature, cfg.MaxCompletionToken), nil
	default:
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create planner model: %v", contractx.ErrModelInvoke, err)
		}
		return NewChatModelCollaborator(ctx, chatModel)
	}
}

// ChatModelCollaborator runs the planner request through an eino chat model.
type ChatModelCollaborator struct {
	runner compose.Runnable[contractx.CollaboratorRequest, *schema.Message]
}

func NewChatModelCollaborator(ctx context.Context, chatModel einomodel.BaseChatModel) (*ChatModelCollaborator, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	runner, err := compileCollaboratorGraph(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &ChatModelCollaborator{runner: runner}, nil
}

func (c *ChatModelCollaborator) Enabled() bool {
	return c != nil && c.runner != nil
}

func (c *ChatModelCollaborator) Complete(ctx context.Context, req contractx.CollaboratorRequest) (string, error) {
	msg, err := c.runner.Invoke(ctx, req)
	if err != nil {
		return "", fmt.Errorf("planner collaborator invoke: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty collaborator response", contractx.ErrSchemaViolation)
	}
	return msg.Content, nil
}

// OpenAICollaborator calls the chat-completions API directly.
type OpenAICollaborator struct {
	client      *openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAICollaborator(client *openaisdk.Client, model string, temperature float32, maxTokens int) *OpenAICollaborator {
	return &OpenAICollaborator{
		client:      client,
		model:       strings.TrimSpace(model),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (c *OpenAICollaborator) Enabled() bool {
	return c != nil && c.client != nil && c.model != ""
}

func (c *OpenAICollaborator) Complete(ctx context.Context, req contractx.CollaboratorRequest) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(req.System),
			openaisdk.UserMessage(req.User),
		},
		Temperature: openaisdk.Float(float64(c.temperature)),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in chat completion", contractx.ErrSchemaViolation)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty collaborator response", contractx.ErrSchemaViolation)
	}
	return content, nil
}

type disabledCollaborator struct{}

func (disabledCollaborator) Enabled() bool {
	return false
}

func (disabledCollaborator) Complete(context.Context, contractx.CollaboratorRequest) (string, error) {
	return "", contractx.ErrCollaboratorDisabled
}
