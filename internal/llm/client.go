package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider presets. All three expose an OpenAI-compatible chat completions
// endpoint; switching providers is a matter of base URL, default model and
// API key environment variable.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

var defaultBaseURLs = map[string]string{
	ProviderOpenAI:    "https://api.openai.com/v1",
	ProviderAnthropic: "https://api.anthropic.com/v1",
	ProviderGoogle:    "https://generativelanguage.googleapis.com/v1beta/openai",
}

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-haiku-20240307",
	ProviderGoogle:    "gemini-2.5-flash-lite",
}

var apiKeyEnvVars = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGoogle:    "GOOGLE_API_KEY",
}

type Options struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

// ChatClient is the surface the query transformer calls against.
type ChatClient interface {
	ChatCompletion(ctx context.Context, request ChatRequest) (*ChatResponse, error)
	Model() string
}

type ChatClientImpl struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	logger      *zap.Logger
}

// NewChatClient resolves provider defaults and the API key from the
// environment when not supplied explicitly.
func NewChatClient(opts Options, logger *zap.Logger) (*ChatClientImpl, error) {
	provider := opts.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}
	if _, known := defaultBaseURLs[provider]; !known {
		return nil, fmt.Errorf("unknown LLM provider %q: %w", provider, ErrUnknownProvider)
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[provider]
	}
	model := opts.Model
	if model == "" {
		model = defaultModels[provider]
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnvVars[provider])
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key for provider %q not found, set %s: %w",
			provider, apiKeyEnvVars[provider], ErrMissingAPIKey)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ChatClientImpl{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: opts.Temperature,
		logger:      logger,
	}, nil
}

func (c *ChatClientImpl) Model() string {
	return c.model
}

func (c *ChatClientImpl) ChatCompletion(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.model
	}
	request.Temperature = c.temperature
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat completion request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(res.Body)
		var apiErr apiError
		if unmarshalErr := json.Unmarshal(payload, &apiErr); unmarshalErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("chat completion failed with status %d: %s", res.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("chat completion failed with status %d", res.StatusCode)
	}

	var chatResponse ChatResponse
	if err := json.NewDecoder(res.Body).Decode(&chatResponse); err != nil {
		return nil, fmt.Errorf("failed to decode chat completion response: %w", err)
	}
	if len(chatResponse.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return &chatResponse, nil
}

var (
	ErrUnknownProvider = errors.New("unknown LLM provider")
	ErrMissingAPIKey   = errors.New("missing LLM API key")
	ErrNoChoices       = errors.New("chat completion response contained no choices")
)
