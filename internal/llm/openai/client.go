package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"supplierx/internal/config"
	"supplierx/internal/llm"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4"

	// Temperature is fixed; identical prompts may produce different completions.
	Temperature = 0.7
)

// Client implements port.CompletionClient using the OpenAI Chat Completions API.
type Client struct {
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a completion client from the LLM config.
func NewClient(cfg *config.LLMConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.LLMConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// Complete sends a single blocking request and returns the raw response body.
// Transport failures yield *llm.TransportError; non-2xx statuses yield *llm.UpstreamError.
func (c *Client) Complete(ctx context.Context, prompt, credential string) ([]byte, error) {
	bodyBytes, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &llm.TransportError{Err: fmt.Errorf("calling completion API: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, llm.NewUpstreamError(resp.StatusCode, respBody, retryAfter)
	}

	return respBody, nil
}
