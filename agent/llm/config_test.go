package llm

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/stepwise-orchestrator/agent/contract"
)

func validConfig() Config {
	return Config{
		Enabled:            true,
		Provider:           ProviderOpenRouter,
		BaseURL:            "https://openrouter.ai/api/v1/",
		APIKey:             " key ",
		Model:              "openai/gpt-4o-mini",
		MaxCompletionToken: 64,
		Timeout:            2 * time.Second,
	}
}

func TestConfigActive(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.Active() {
		t.Fatalf("expected active config, Validate() = %v", cfg.Validate())
	}

	cfg.Enabled = false
	if cfg.Active() {
		t.Fatal("disabled config must not be active")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"missing key":   func(c *Config) { c.APIKey = "  " },
		"missing model": func(c *Config) { c.Model = "" },
		"bad provider":  func(c *Config) { c.Provider = "azure" },
		"zero timeout":  func(c *Config) { c.Timeout = 0 },
		"custom header": func(c *Config) { c.APIKeyHeader = "X-Api-Token" },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
		if cfg.Active() {
			t.Fatalf("%s: invalid config must not be active", name)
		}
	}
}

func TestConfigValidateKeyHeader(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.APIKeyHeader = "api-key"
	cfg.APIVersion = "2024-06-01"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg = validConfig()
	cfg.Provider = ProviderOpenAI
	cfg.APIKeyHeader = "X-Api-Token"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("openai provider Validate() error = %v", err)
	}
}

func TestConfigOpenRouter(t *testing.T) {
	t.Parallel()

	out := validConfig().OpenRouter()
	if out.APIKey != "key" {
		t.Fatalf("expected trimmed api key, got %q", out.APIKey)
	}
	if out.MaxCompletionToken == nil || *out.MaxCompletionToken != 64 {
		t.Fatalf("unexpected max completion token: %v", out.MaxCompletionToken)
	}
	if out.Timeout != 2*time.Second {
		t.Fatalf("unexpected timeout: %s", out.Timeout)
	}
}

func TestConfigAnthropicBaseURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Provider = ProviderAnthropic
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := cfg.AnthropicBaseURL(); got != "" {
		t.Fatalf("default base url must not leak to anthropic, got %q", got)
	}

	cfg.BaseURL = "http://localhost:8080/"
	if got := cfg.AnthropicBaseURL(); got != "http://localhost:8080" {
		t.Fatalf("AnthropicBaseURL() = %q", got)
	}
}
