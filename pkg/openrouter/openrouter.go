// Package openrouter builds clients for OpenAI-compatible chat endpoints.
// OpenRouter is the default; Azure-style deployments set APIKeyHeader
// ("api-key") and APIVersion.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// AzureKeyHeader is the only custom key header the endpoints accept.
const AzureKeyHeader = "api-key"

var ErrUnsupportedKeyHeader = errors.New("openrouter: unsupported api key header")

type Config struct {
	BaseURL            string
	APIKey             string
	APIKeyHeader       string
	APIVersion         string
	Model              string
	MaxCompletionToken *int
	Temperature        float32
	Timeout            time.Duration
	SiteURL            string
	SiteName           string
}

func (c Config) baseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// siteHeaders are the OpenRouter attribution headers, when configured.
func (c Config) siteHeaders() map[string]string {
	headers := map[string]string{}
	if c.SiteURL != "" {
		headers["HTTP-Referer"] = c.SiteURL
	}
	if c.SiteName != "" {
		headers["X-Title"] = c.SiteName
	}
	return headers
}

// CheckKeyHeader accepts the default bearer auth or the Azure "api-key" header.
func (c Config) CheckKeyHeader() error {
	header := strings.TrimSpace(c.APIKeyHeader)
	if header == "" || strings.EqualFold(header, AzureKeyHeader) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedKeyHeader, header)
}

// azure reports whether the endpoint wants Azure-style auth and routing.
func (c Config) azure() bool {
	return strings.EqualFold(strings.TrimSpace(c.APIKeyHeader), AzureKeyHeader) ||
		strings.TrimSpace(c.APIVersion) != ""
}

// httpClient carries the site headers on every request. The eino model
// ignores its own Timeout once a client is supplied, so it is set here.
func (c Config) httpClient() *http.Client {
	headers := c.siteHeaders()
	if len(headers) == 0 {
		return nil
	}
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: headerTransport{base: http.DefaultTransport, headers: headers},
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// New builds an eino chat model for the endpoint.
func (c Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	if err := c.CheckKeyHeader(); err != nil {
		return nil, err
	}
	temperature := c.Temperature
	m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
		BaseURL:     c.baseURL(),
		APIKey:      strings.TrimSpace(c.APIKey),
		ByAzure:     c.azure(),
		APIVersion:  strings.TrimSpace(c.APIVersion),
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &temperature,
		Timeout:     c.Timeout,
		HTTPClient:  c.httpClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("openrouter: create chat model: %w", err)
	}
	return m, nil
}

// NewClient creates an openai-go client for the endpoint, or nil without an
// API key. Retries are off; callers bound each call with a short deadline.
func NewClient(cfg Config) *openaisdk.Client {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil
	}

	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if header := strings.TrimSpace(cfg.APIKeyHeader); header != "" {
		opts = append(opts, option.WithHeader(header, apiKey))
	} else {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if base := cfg.baseURL(); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if version := strings.TrimSpace(cfg.APIVersion); version != "" {
		opts = append(opts, option.WithQuery("api-version", version))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.siteHeaders() {
		opts = append(opts, option.WithHeader(k, v))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
