package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const supportSystemPrompt = "You are a compassionate mental health support assistant. " +
	"Listen carefully, answer warmly and briefly, and never give medical diagnoses. " +
	"Encourage the user to reach out to professionals or a crisis line when they are at risk."

// historyLimit caps the turns replayed to the model on each query.
const historyLimit = 10

// LLMResponder keeps a conversation per session and answers with a chat model.
type LLMResponder struct {
	model    model.BaseChatModel
	template prompt.ChatTemplate

	mu      sync.RWMutex
	history map[string][]*schema.Message
}

func NewLLMResponder(chatModel model.BaseChatModel) *LLMResponder {
	return &LLMResponder{
		model: chatModel,
		template: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage("{system}"),
			schema.MessagesPlaceholder("history", true),
			schema.UserMessage("{query}"),
		),
		history: make(map[string][]*schema.Message),
	}
}

func (l *LLMResponder) Respond(ctx context.Context, sessionID, query string) (string, error) {
	messages, err := l.template.Format(ctx, map[string]any{
		"system":  supportSystemPrompt,
		"history": l.History(sessionID),
		"query":   query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}

	reply, err := l.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	l.mu.Lock()
	l.history[sessionID] = append(l.history[sessionID],
		schema.UserMessage(query),
		schema.AssistantMessage(reply.Content, nil),
	)
	l.mu.Unlock()

	slog.Debug("generated reply",
		slog.String("session_id", sessionID),
		slog.Int("length", len(reply.Content)),
	)
	return reply.Content, nil
}

// History returns the most recent turns of the session, oldest first.
func (l *LLMResponder) History(sessionID string) []*schema.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	messages := l.history[sessionID]
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}
	copied := make([]*schema.Message, len(messages))
	copy(copied, messages)
	return copied
}
