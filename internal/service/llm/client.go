package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/parkerwhite/eqchat/internal/config"
	"github.com/parkerwhite/eqchat/internal/model/chat"
)

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
)

var (
	ErrMissingAPIKey = errors.New("completion API key is not configured")
	ErrEmptyReply    = errors.New("completion response carried no content")
)

// Client calls the Anthropic messages API with fixed generation
// parameters. The full conversation is forwarded on every call.
type Client struct {
	http *resty.Client
	cfg  config.LLMConfig
}

// NewClient builds a completion client from configuration.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrMissingAPIKey
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion)

	// The historical design has no upstream timeout; only bound the call
	// when explicitly configured.
	if cfg.TimeoutSeconds > 0 {
		httpClient.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	return &Client{http: httpClient, cfg: cfg}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete forwards the conversation and returns the assistant's reply
// text. Any transport, status, or payload problem is returned as an error
// with enough detail for the server log; callers are expected to reduce it
// to a generic message before it reaches a client.
func (c *Client) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model:       c.cfg.Model,
			Messages:    wire,
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		}).
		Post(messagesPath)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 400))
	}

	var parsed completionResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", ErrEmptyReply
	}

	return parsed.Content[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
