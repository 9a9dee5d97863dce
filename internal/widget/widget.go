// Package widget holds the chat widget state: panel visibility, the input
// buffer, the transcript and the send/reply cycle against the chat endpoint.
//
// The widget has no rendering of its own. A front end reads Transcript and
// Display and scrolls to the newest message after every append.
package widget

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/gennadis/chatwidget/internal/chat"
	"github.com/gennadis/chatwidget/internal/session"
)

type Display int

const (
	DisplayNone Display = iota
	DisplayFlex
)

func (d Display) String() string {
	if d == DisplayFlex {
		return "flex"
	}
	return "none"
}

// Sender delivers one query to the chat endpoint.
type Sender interface {
	Send(ctx context.Context, sessionID, query string) (*chat.ChatResponse, error)
}

// Ticket identifies one submitted message awaiting its reply.
type Ticket struct {
	Seq   uint64
	Query string
}

type Widget struct {
	sender     Sender
	session    *session.Session
	transcript *Transcript

	mu      sync.Mutex
	display Display
	input   string

	ordered     bool
	nextSeq     uint64
	nextDeliver uint64
	held        map[uint64]chat.Message
}

type Option func(*Widget)

// WithRand draws the session ID from r.
func WithRand(r *rand.Rand) Option {
	return func(w *Widget) {
		w.session = session.NewSessionFrom(r)
	}
}

func WithSession(s *session.Session) Option {
	return func(w *Widget) {
		w.session = s
	}
}

func WithSessionID(id string) Option {
	return WithSession(&session.Session{ID: id})
}

func WithDisplay(d Display) Option {
	return func(w *Widget) {
		w.display = d
	}
}

// WithOrderedReplies delivers replies in the order their messages were sent.
func WithOrderedReplies(ordered bool) Option {
	return func(w *Widget) {
		w.ordered = ordered
	}
}

func New(sender Sender, opts ...Option) *Widget {
	w := &Widget{
		sender:     sender,
		transcript: NewTranscript(),
		display:    DisplayNone,
		held:       make(map[uint64]chat.Message),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.session == nil {
		w.session = session.NewSession()
	}
	return w
}

func (w *Widget) Session() *session.Session {
	return w.session
}

func (w *Widget) SessionID() string {
	return w.session.ID
}

func (w *Widget) Transcript() *Transcript {
	return w.transcript
}

func (w *Widget) Display() Display {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display
}

// Toggle hides a flex panel and shows any other as flex.
func (w *Widget) Toggle() Display {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.display == DisplayFlex {
		w.display = DisplayNone
	} else {
		w.display = DisplayFlex
	}
	return w.display
}

func (w *Widget) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

func (w *Widget) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

// Append adds a message to the transcript without validation.
func (w *Widget) Append(role chat.Role, text string) {
	w.transcript.Append(chat.Message{Role: role, Content: text})
}

// Submit takes the trimmed input, appends it as the user's message and clears
// the input. Empty input is ignored and left as it was.
func (w *Widget) Submit() (Ticket, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	text := strings.TrimSpace(w.input)
	if text == "" {
		return Ticket{}, false
	}

	w.transcript.Append(chat.Message{Role: chat.RoleUser, Content: text})
	w.input = ""

	t := Ticket{Seq: w.nextSeq, Query: text}
	w.nextSeq++
	return t, true
}

// Reply sends the ticket's query and returns the bot message to show. Every
// failure collapses into the fallback text.
func (w *Widget) Reply(ctx context.Context, t Ticket) chat.Message {
	resp, err := w.sender.Send(ctx, w.session.ID, t.Query)
	if err != nil {
		slog.Error("Failed to get chat reply",
			slog.String("session_id", w.session.ID),
			slog.Uint64("seq", t.Seq),
			slog.String("error", err.Error()),
		)
		return chat.Message{Role: chat.RoleBot, Content: chat.FallbackText}
	}
	return chat.Message{Role: chat.RoleBot, Content: resp.Text()}
}

// Deliver appends the reply for t and reports how many messages were
// appended. With ordered replies a reply waits for all earlier tickets.
func (w *Widget) Deliver(t Ticket, m chat.Message) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ordered {
		w.transcript.Append(m)
		return 1
	}

	w.held[t.Seq] = m
	n := 0
	for {
		next, ok := w.held[w.nextDeliver]
		if !ok {
			return n
		}
		delete(w.held, w.nextDeliver)
		w.transcript.Append(next)
		w.nextDeliver++
		n++
	}
}

// Pending reports replies held back waiting for an earlier one.
func (w *Widget) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.held)
}

// Send runs a full cycle synchronously and reports whether anything was sent.
func (w *Widget) Send(ctx context.Context) bool {
	t, ok := w.Submit()
	if !ok {
		return false
	}
	w.Deliver(t, w.Reply(ctx, t))
	return true
}
