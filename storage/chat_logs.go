package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ChatLog is one answered query
type ChatLog struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Query     string    `db:"query"`
	Response  string    `db:"response"`
	IsCrisis  bool      `db:"is_crisis"`
	Timestamp time.Time `db:"timestamp"`
}

// ChatLogs is a storage for chat logs
type ChatLogs struct {
	db *sqlx.DB
}

// NewChatLogs creates a new ChatLogs storage
func NewChatLogs(db *sqlx.DB) (*ChatLogs, error) {
	createChatLogsTable := `
	CREATE TABLE IF NOT EXISTS chat_logs (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		is_crisis BOOLEAN NOT NULL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createChatLogsTable); err != nil {
		return nil, fmt.Errorf("failed to create chat_logs table: %w", err)
	}

	return &ChatLogs{db: db}, nil
}

// ReadBySessionID returns chat logs for a specific session_id
func (c *ChatLogs) ReadBySessionID(sessionID string) ([]ChatLog, error) {
	var logs []ChatLog
	err := c.db.Select(&logs, "SELECT id, session_id, query, response, is_crisis, timestamp FROM chat_logs WHERE session_id = ? ORDER BY timestamp ASC, rowid ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat logs for session_id %s: %w", sessionID, err)
	}

	slog.Debug("read chat logs by session_id",
		slog.String("session_id", sessionID),
		slog.Int("count", len(logs)),
	)
	return logs, nil
}

// Write writes a new chat log to the storage
func (c *ChatLogs) Write(entry ChatLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO chat_logs (id, session_id, query, response, is_crisis, timestamp) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := c.db.Exec(insertQuery, entry.ID, entry.SessionID, entry.Query, entry.Response, entry.IsCrisis, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to insert chat log %s: %w", entry.ID, err)
	}

	slog.Debug("chat log added to chat_logs",
		slog.String("id", entry.ID),
		slog.String("session_id", entry.SessionID),
		slog.Bool("is_crisis", entry.IsCrisis),
		slog.Time("timestamp", entry.Timestamp),
	)
	return nil
}

// Delete deletes the given chat log by id from the storage
func (c *ChatLogs) Delete(id string) error {
	var entry ChatLog

	// retrieve the session_id for logging purposes
	err := c.db.Get(&entry, "SELECT id, session_id, query, response, is_crisis, timestamp FROM chat_logs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to get chat log for id %s: %w", id, err)
	}

	if _, err := c.db.Exec("DELETE FROM chat_logs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete chat log by id %s: %w", id, err)
	}

	slog.Debug("chat log deleted from chat_logs",
		slog.String("id", entry.ID),
		slog.String("session_id", entry.SessionID),
	)
	return nil
}
