package client

import (
	"sync"

	"github.com/dagimaynadis/portfolio/backend/internal/model/chat"
)

// Transcript is the append-only list of messages shown for one session.
type Transcript struct {
	mu       sync.RWMutex
	messages []chat.Message
}

// NewTranscript returns a transcript seeded with initial.
func NewTranscript(initial ...chat.Message) *Transcript {
	messages := make([]chat.Message, 0, len(initial)+16)
	messages = append(messages, initial...)
	return &Transcript{messages: messages}
}

// Append adds msg at the end.
func (t *Transcript) Append(msg chat.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]chat.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Since returns a copy of the messages from index n on.
func (t *Transcript) Since(n int) []chat.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(t.messages) {
		return nil
	}
	out := make([]chat.Message, len(t.messages)-n)
	copy(out, t.messages[n:])
	return out
}
