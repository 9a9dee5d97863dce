package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Session is a chat session as first seen by the backend
type Session struct {
	ID        string    `db:"id"`
	Timestamp time.Time `db:"timestamp"`
}

// Sessions is a storage for sessions
type Sessions struct {
	db *sqlx.DB
}

// NewSessions creates a new Sessions storage
func NewSessions(db *sqlx.DB) (*Sessions, error) {
	createSessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createSessionsTable); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &Sessions{db: db}, nil
}

// Read returns all sessions
func (s *Sessions) Read() ([]Session, error) {
	var sessions []Session
	err := s.db.Select(&sessions, "SELECT id, timestamp FROM sessions ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	slog.Debug("read sessions",
		slog.Int("count", len(sessions)),
	)
	return sessions, nil
}

// Write records the session unless it is already known
func (s *Sessions) Write(session Session) error {
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO sessions (id, timestamp) VALUES (?, ?)"
	if _, err := s.db.Exec(insertQuery, session.ID, session.Timestamp); err != nil {
		return fmt.Errorf("failed to insert session %+v: %w", session, err)
	}

	slog.Debug("session added to sessions",
		slog.String("id", session.ID),
		slog.Time("timestamp", session.Timestamp),
	)
	return nil
}

// Delete deletes the given session by id from the storage
func (s *Sessions) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session by id %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to delete session by id %s: %w", id, ErrNotFound)
	}

	slog.Debug("session deleted from sessions",
		slog.String("id", id),
	)
	return nil
}
