package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/parkerwhite/eqchat/internal/model/chat"
)

// ErrDecode marks a response whose shape did not match the relay contract.
var ErrDecode = errors.New("failed to decode relay response")

// ServerError carries the relay's status code and error body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// Client talks to the relay service on behalf of a chat session.
type Client struct {
	http *resty.Client
}

// NewClient builds a relay client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

type sendRequest struct {
	UserID   string        `json:"userId"`
	Messages []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendMessage posts the entire conversation and returns the new reply.
func (c *Client) SendMessage(ctx context.Context, userID string, messages []chat.Message) (string, error) {
	wire := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{UserID: userID, Messages: wire}).
		Post("/chat")
	if err != nil {
		return "", fmt.Errorf("network error: %w", err)
	}

	if resp.IsError() {
		return "", &ServerError{Status: resp.StatusCode(), Message: decodeErrorMessage(resp.Body())}
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	reply, ok := body["reply"]
	if !ok {
		return "", fmt.Errorf("%w: missing reply field", ErrDecode)
	}
	return reply, nil
}

type historyResponse struct {
	History []struct {
		Role      string `json:"role"`
		Content   string `json:"content"`
		CreatedAt string `json:"created_at"`
	} `json:"history"`
}

// History fetches the stored transcript for a user. Rows with an
// unrecognized role or an unparseable timestamp are dropped silently
// rather than failing the whole replay.
func (c *Client) History(ctx context.Context, userID string) ([]chat.Message, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/chat/history/" + userID)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	if resp.IsError() {
		return nil, &ServerError{Status: resp.StatusCode(), Message: decodeErrorMessage(resp.Body())}
	}

	var body historyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	messages := make([]chat.Message, 0, len(body.History))
	for _, row := range body.History {
		role, ok := chat.ParseRole(row.Role)
		if !ok {
			continue
		}
		timestamp, err := time.Parse(time.RFC3339, row.CreatedAt)
		if err != nil {
			continue
		}
		msg := chat.NewMessage(role, row.Content)
		msg.Timestamp = timestamp
		messages = append(messages, msg)
	}
	return messages, nil
}

func decodeErrorMessage(body []byte) string {
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := parsed["error"]; msg != "" {
			return msg
		}
	}
	return "Unknown error"
}
