package session

import (
	"math/rand"
	"strconv"
	"time"
)

const (
	idPrefix = "user_"
	idRange  = 10000
)

// Session identifies a chat session to the backend. It is not authenticated
// and two sessions may share an ID.
type Session struct {
	ID        string
	CreatedAt int64
}

// NewSession creates a new Session instance
func NewSession() *Session {
	return NewSessionFrom(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionFrom creates a Session whose ID is drawn from r.
func NewSessionFrom(r *rand.Rand) *Session {
	return &Session{
		ID:        NewID(r),
		CreatedAt: time.Now().Unix(),
	}
}

// NewID returns "user_<n>" with n drawn from [0, 10000).
func NewID(r *rand.Rand) string {
	return idPrefix + strconv.Itoa(r.Intn(idRange))
}
