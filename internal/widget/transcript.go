package widget

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/gennadis/chatwidget/internal/chat"
)

// Transcript is the ordered, append-only list of displayed messages.
type Transcript struct {
	mu       sync.RWMutex
	messages []chat.Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(m chat.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Messages returns a copy of the transcript in display order.
func (t *Transcript) Messages() []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	copied := make([]chat.Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}

// Lines renders every message as "Role: text" with content made literal.
func (t *Transcript) Lines() []string {
	messages := t.Messages()
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, Sanitize(string(m.Role))+": "+Sanitize(m.Content))
	}
	return lines
}

// Sanitize strips terminal escape sequences and control characters other
// than newline and tab, so text is displayed as data and never as styling.
func Sanitize(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, text)
}
