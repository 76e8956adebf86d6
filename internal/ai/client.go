package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	DefaultAPIURL    = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096

	anthropicVersion = "2023-06-01"
)

var (
	// ErrNotConfigured is returned before any network call when no API key is available.
	ErrNotConfigured = errors.New("AI API key is not configured: set AI_API_KEY or AI_API_KEY_SECRET")
	// ErrEmptyResponse is returned when the provider answers without any content block.
	ErrEmptyResponse = errors.New("AI API returned no content")
)

// ProviderError is returned for non-2xx responses from the completion endpoint.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("AI API error: %d", e.StatusCode)
}

// KeyProvider resolves the API key lazily, on first use.
type KeyProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// Completer sends a single-turn prompt and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type ClientConfig struct {
	Provider string
	APIKey   string
	APIURL   string
	Model    string
	// KeyProvider is consulted when APIKey is empty.
	KeyProvider KeyProvider
	HTTPClient  *http.Client
}

// Client talks to an Anthropic-compatible messages endpoint.
type Client struct {
	apiURL      string
	model       string
	keyProvider KeyProvider
	httpClient  *http.Client
	logger      zerolog.Logger

	mu  sync.Mutex
	key string
}

type messageRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []requestMessage `json:"messages"`
}

type requestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No client timeout; requests end with their context.
		httpClient = &http.Client{}
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "anthropic"
	}
	return &Client{
		apiURL:      apiURL,
		model:       model,
		keyProvider: cfg.KeyProvider,
		httpClient:  httpClient,
		key:         strings.TrimSpace(cfg.APIKey),
		logger: logger.With().
			Str("service", "AIClient").
			Str("provider", provider).
			Str("model", model).
			Logger(),
	}
}

// apiKey returns the configured key, asking the KeyProvider once if needed.
func (c *Client) apiKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key != "" {
		return c.key, nil
	}
	if c.keyProvider == nil {
		return "", ErrNotConfigured
	}
	key, err := c.keyProvider.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrNotConfigured
	}
	c.key = key
	return key, nil
}

// Complete sends prompt as a single user message and returns content[0].text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("AI request rejected before sending")
		return "", err
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	status, body, err := c.post(ctx, key, messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []requestMessage{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("AI request failed")
		return "", err
	}

	if status < 200 || status > 299 {
		perr := &ProviderError{StatusCode: status}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			perr.Message = errResp.Error.Message
		}
		c.logger.Error().Int("status_code", status).Str("error", perr.Error()).Msg("AI provider returned error")
		return "", perr
	}

	var resp messageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error().Err(err).Msg("Failed to decode AI response")
		return "", fmt.Errorf("decoding AI response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Content[0].Text, nil
}

// ValidateAPIKey makes a minimal call to check that the configured key is accepted.
func (c *Client) ValidateAPIKey(ctx context.Context) error {
	key, err := c.apiKey(ctx)
	if err != nil {
		return err
	}

	status, body, err := c.post(ctx, key, messageRequest{
		Model:     c.model,
		MaxTokens: 1,
		Messages:  []requestMessage{{Role: RoleUser, Content: "test"}},
	})
	if err != nil {
		return fmt.Errorf("failed to validate API key: %w", err)
	}
	if status == http.StatusOK {
		return nil
	}

	var errResp errorResponse
	msg := ""
	if json.Unmarshal(body, &errResp) == nil {
		msg = errResp.Error.Message
	}
	if status == http.StatusUnauthorized {
		if msg == "" {
			msg = "unauthorized"
		}
		return &ProviderError{StatusCode: status, Message: "invalid API key: " + msg}
	}
	return &ProviderError{StatusCode: status, Message: msg}
}

func (c *Client) post(ctx context.Context, key string, payload messageRequest) (int, []byte, error) {
	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(bodyJSON))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create AI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("calling AI API: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read AI response: %w", err)
	}
	return resp.StatusCode, body, nil
}
