package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gennadis/chatwidget/internal/chat"
	"github.com/gennadis/chatwidget/internal/config"
	"github.com/google/uuid"
)

const JSONContentType = "application/json"

// ErrNullBody is returned when the endpoint answers with a bare JSON null.
var ErrNullBody = errors.New("chat response body is null")

// StatusError is returned for a non-2xx reply when strict status checking is on.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat request failed: status code %d", e.StatusCode)
}

type Client struct {
	httpClient   *http.Client
	endpoint     string
	strictStatus bool
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		endpoint:     cfg.Endpoint,
		strictStatus: cfg.StrictStatus,
	}
}

// Send posts one query for the session and decodes the reply.
func (c *Client) Send(ctx context.Context, sessionID, query string) (*chat.ChatResponse, error) {
	reqBytes, err := json.Marshal(chat.ChatRequest{SessionID: sessionID, Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBytes))
	if err != nil {
		slog.Error("Failed to build send request", "error", err)
		return nil, err
	}

	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to send request", "error", err)
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read response body", "error", err)
		return nil, err
	}

	if err := c.handleStatus(res, body); err != nil {
		slog.Error("Failed to send chat request", "error", err)
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		slog.Error("Failed to read chat response", "error", ErrNullBody)
		return nil, ErrNullBody
	}

	chatResp := chat.ChatResponse{}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		slog.Error("Failed to unmarshal chat response body", "error", err)
		return nil, err
	}

	if res.StatusCode >= http.StatusMultipleChoices {
		slog.Warn("Chat endpoint answered with error status",
			slog.Int("status", res.StatusCode),
			slog.String("session_id", sessionID),
		)
	}
	return &chatResp, nil
}

func (c *Client) handleStatus(res *http.Response, body []byte) error {
	if !c.strictStatus {
		return nil
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{StatusCode: res.StatusCode, Body: body}
	}
	return nil
}
