package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 150
	DefaultTimeout   = 30 * time.Second
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("narrative: no API key configured")

// Requester turns a prompt into model output.
type Requester interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements Requester.
var _ Requester = (*Client)(nil)

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	client     *http.Client
	maxRetries int
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithRetries sets the number of attempts. Only transport errors and 5xx
// answers are retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxTokens caps the length of the answer.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// New creates a new Anthropic client. An empty model selects DefaultModel.
func New(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		maxTokens:  DefaultMaxTokens,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends prompt as a single user message and returns the first text block.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrDisabled
	}

	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(reqJSON))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("making request: %w", err)
			if ctx.Err() != nil {
				return "", lastErr
			}
			continue
		}

		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("API error (status %d): %s", resp.StatusCode, body)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, body)
		}

		var apiResp messagesResponse
		err = json.NewDecoder(resp.Body).Decode(&apiResp)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("decoding response: %w", err)
		}
		return apiResp.text()
	}

	return "", lastErr
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (r messagesResponse) text() (string, error) {
	for _, block := range r.Content {
		if block.Type == "text" || block.Type == "" {
			if text := strings.TrimSpace(block.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", errors.New("empty response from API")
}

// Fallback returns the text shown when err prevented a narrative.
func Fallback(err error) string {
	if errors.Is(err, ErrDisabled) {
		return DisabledPlaceholder
	}
	return UnavailablePlaceholder
}
