package storage

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewSqliteDB(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionsWriteIsIdempotent(t *testing.T) {
	sessions, err := NewSessions(newTestDB(t))
	require.NoError(t, err)

	require.NoError(t, sessions.Write(Session{ID: "user_1"}))
	require.NoError(t, sessions.Write(Session{ID: "user_1"}))
	require.NoError(t, sessions.Write(Session{ID: "user_2"}))

	got, err := sessions.Read()
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, sessions.Delete("user_1"))
	require.ErrorIs(t, sessions.Delete("user_1"), ErrNotFound)
}

func TestChatLogsRoundTrip(t *testing.T) {
	logs, err := NewChatLogs(newTestDB(t))
	require.NoError(t, err)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, logs.Write(ChatLog{SessionID: "user_1", Query: "hi", Response: "hello", Timestamp: base}))
	require.NoError(t, logs.Write(ChatLog{SessionID: "user_1", Query: "help", Response: "call", IsCrisis: true, Timestamp: base.Add(time.Second)}))
	require.NoError(t, logs.Write(ChatLog{SessionID: "user_2", Query: "other", Response: "x"}))

	got, err := logs.ReadBySessionID("user_1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hi", got[0].Query)
	assert.False(t, got[0].IsCrisis)
	assert.Equal(t, "help", got[1].Query)
	assert.True(t, got[1].IsCrisis)
	assert.NotEmpty(t, got[0].ID)

	require.NoError(t, logs.Delete(got[0].ID))
	got, err = logs.ReadBySessionID("user_1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.Error(t, logs.Delete("missing"))
}
