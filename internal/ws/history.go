package ws

import (
	"sync"

	"playhub/internal/domain"
)

// DefaultHistorySize is the number of recent chat messages replayed to a new
// connection.
const DefaultHistorySize = 50

// History is a bounded in-process buffer of recent chat messages. Appends are
// cheap: the buffer is allowed to grow to twice its capacity before being
// trimmed back to the newest capacity entries, so trimming cost is amortized
// across many messages. Lossy across restarts; the durable copy lives in
// chat_messages.
type History struct {
	mu       sync.RWMutex
	capacity int
	messages []domain.ChatMessage
}

// NewHistory creates a history buffer that replays up to capacity messages
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Append adds a message, trimming to the newest capacity entries only once
// the buffer exceeds twice its capacity
func (h *History) Append(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	if len(h.messages) > h.capacity*2 {
		h.messages = append([]domain.ChatMessage(nil), h.messages[len(h.messages)-h.capacity:]...)
	}
}

// Recent returns up to capacity of the newest messages in chronological order
func (h *History) Recent() []domain.ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	start := 0
	if len(h.messages) > h.capacity {
		start = len(h.messages) - h.capacity
	}
	out := make([]domain.ChatMessage, len(h.messages)-start)
	copy(out, h.messages[start:])
	return out
}

// Len reports the current buffer size, trimmed or not
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}
