package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
	openrouterx "github.com/tanpawarit/stepwise-orchestrator/pkg/openrouter"
)

type Provider string

const (
	// ProviderOpenRouter builds an eino chat model against an OpenAI-compatible endpoint.
	ProviderOpenRouter Provider = "openrouter"
	// ProviderOpenAI talks to the chat-completions API through the openai-go client.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic uses the Messages API through anthropic-sdk-go.
	ProviderAnthropic Provider = "anthropic"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config describes the external planning collaborator. Loaded with the PLANNER prefix.
type Config struct {
	Enabled            bool          `envconfig:"ENABLED" default:"false"`
	Provider           Provider      `envconfig:"PROVIDER" default:"openrouter"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	APIKeyHeader       string        `envconfig:"API_KEY_HEADER" split_words:"true"`
	APIVersion         string        `envconfig:"API_VERSION" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"64"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"2s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: planner api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: planner model is required", contractx.ErrValidation)
	}
	switch c.Provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unsupported planner provider=%q", contractx.ErrValidation, c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: planner timeout must be > 0", contractx.ErrValidation)
	}
	if c.Provider == ProviderOpenRouter {
		if err := c.OpenRouter().CheckKeyHeader(); err != nil {
			return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
	}
	return nil
}

// Active reports whether the collaborator should be consulted at all.
func (c Config) Active() bool {
	return c.Enabled && c.Validate() == nil
}

// AnthropicBaseURL is the configured endpoint unless it is still the
// OpenRouter default, in which case the SDK's own endpoint applies.
func (c Config) AnthropicBaseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == DefaultBaseURL {
		return ""
	}
	return base
}

func (c Config) OpenRouter() openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		APIKeyHeader:       strings.TrimSpace(c.APIKeyHeader),
		APIVersion:         strings.TrimSpace(c.APIVersion),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
