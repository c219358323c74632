// Package describe generates prose descriptions of API endpoints with an
// OpenAI-compatible chat completions API.
package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/porticus-lab/go-apidoc-pdf/internal/httpclient"
)

// Defaults for [Client].
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7

	// Fallback is returned when the API answers without any content.
	Fallback = "Unable to generate description"
)

const systemPrompt = "You are a technical writer specializing in API documentation. " +
	"Generate clear, professional descriptions for API endpoints."

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("describe: API key not configured")

	// ErrRateLimited is returned once retries for a 429 answer run out.
	ErrRateLimited = errors.New("describe: rate limit exceeded")

	// ErrUnauthorized is returned when the API rejects the key.
	ErrUnauthorized = errors.New("describe: invalid API key configuration")

	// ErrBadResponse is returned when a 2xx answer cannot be decoded.
	ErrBadResponse = errors.New("describe: malformed API response")
)

// APIError is a non-2xx answer. It unwraps to [ErrRateLimited] or
// [ErrUnauthorized] for 429 and 401.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("describe: API error %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), msg)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return nil
}

// Input describes the endpoint to write about. The bodies are arbitrary
// JSON values.
type Input struct {
	Endpoint     string          `json:"endpoint"`
	Method       string          `json:"method"`
	RequestBody  json.RawMessage `json:"requestBody,omitempty"`
	ResponseData json.RawMessage `json:"responseData,omitempty"`
}

// Client calls the chat completions endpoint.
type Client struct {
	http        *retryablehttp.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL points the client at another compatible API.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel selects the model.
func WithModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.model = m
		}
	}
}

// WithLogger sets the logger used for retries and failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
			c.http.Logger = l
		}
	}
}

// WithHTTPConfig replaces the retry and timeout settings.
func WithHTTPConfig(cfg httpclient.Config) Option {
	return func(c *Client) {
		if cfg.Logger == nil {
			cfg.Logger = c.logger
		}
		c.http = httpclient.New(cfg)
	}
}

// New returns a Client using apiKey. An empty key is accepted; every call
// then fails with [ErrNotConfigured].
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		logger:      slog.Default(),
	}
	c.http = httpclient.New(httpclient.Config{Logger: c.logger})
	for _, o := range opts {
		o(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Describe returns a description of in. Transport errors and 429 answers
// are retried with exponential backoff before an error is returned.
func (c *Client) Describe(ctx context.Context, in Input) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(in)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", payload)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("describe: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: e.Error.Message}
		c.logger.ErrorContext(ctx, "description request failed", "status", resp.StatusCode, "error", apiErr)
		return "", apiErr
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Fallback, nil
	}
	return out.Choices[0].Message.Content, nil
}

// Prompt builds the user message for in.
func Prompt(in Input) string {
	var sb strings.Builder
	sb.WriteString("Generate a comprehensive description for this API endpoint:\n\n")
	fmt.Fprintf(&sb, "Endpoint: %s %s\n", in.Method, in.Endpoint)
	fmt.Fprintf(&sb, "Request Body: %s\n", pretty(in.RequestBody))
	fmt.Fprintf(&sb, "Response Data: %s\n\n", pretty(in.ResponseData))
	sb.WriteString(`Please provide:
1. A brief overview of what this API endpoint does
2. Key functionality and purpose
3. Important request parameters and their meanings
4. Response structure explanation
5. Common use cases

Keep the description professional, clear, and concise (around 200-300 words).`)
	return sb.String()
}

func pretty(v json.RawMessage) string {
	if len(bytes.TrimSpace(v)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, v, "", "  "); err != nil {
		return string(v)
	}
	return buf.String()
}
