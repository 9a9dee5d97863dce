package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FallbackText is shown in place of a bot reply whenever a request fails.
const FallbackText = "Oops! Something went wrong."

// undefinedText is what a reply without a response field renders as.
const undefinedText = "undefined"

type Role string

const (
	RoleUser Role = "You"
	RoleBot  Role = "Bot"
)

type Message struct {
	Role    Role
	Content string
}

func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Role, m.Content)
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// ChatResponse keeps the response field raw: the backend is not trusted to
// send a string, or to send the field at all.
type ChatResponse struct {
	Response json.RawMessage `json:"response,omitempty"`
}

// Text returns the display text of the reply.
func (r *ChatResponse) Text() string {
	if r == nil || len(r.Response) == 0 {
		return undefinedText
	}
	var s *string
	if err := json.Unmarshal(r.Response, &s); err == nil && s != nil {
		return *s
	}
	return string(bytes.TrimSpace(r.Response))
}

// NewResponse builds a reply carrying text as its response field.
func NewResponse(text string) *ChatResponse {
	raw, _ := json.Marshal(text)
	return &ChatResponse{Response: raw}
}
