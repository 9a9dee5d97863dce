package server

import (
	"context"
	"fmt"
	"sync"
)

// Responder produces the bot reply for one query in a session.
type Responder interface {
	Respond(ctx context.Context, sessionID, query string) (string, error)
}

// EchoResponder answers by echoing the query and remembers every turn per
// session. It stands in for a model backend during local development.
type EchoResponder struct {
	mu      sync.RWMutex
	history map[string][]string
}

func NewEchoResponder() *EchoResponder {
	return &EchoResponder{history: make(map[string][]string)}
}

func (e *EchoResponder) Respond(_ context.Context, sessionID, query string) (string, error) {
	e.mu.Lock()
	e.history[sessionID] = append(e.history[sessionID], query)
	turn := len(e.history[sessionID])
	e.mu.Unlock()

	return fmt.Sprintf("You said: %s (message %d in this session)", query, turn), nil
}

// History returns a copy of the queries seen for the session.
func (e *EchoResponder) History(sessionID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queries := e.history[sessionID]
	copied := make([]string, len(queries))
	copy(copied, queries)
	return copied
}
