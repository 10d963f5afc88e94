package internal

import (
	"time"
)

// Transcript is the ordered chat history for one controller lifetime.
// It lives in memory only; widgets and the token are the durable state.
type Transcript struct {
	messages []ChatMessage
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript
func (t *Transcript) Append(role ChatRole, content string) ChatMessage {
	msg := ChatMessage{Role: role, Content: content, Timestamp: time.Now().UTC()}
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns the transcript in insertion order
func (t *Transcript) Messages() []ChatMessage {
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of transcript entries
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.messages = nil
}

// RecentContext returns up to maxMessages of the most recent entries, each
// truncated to charLimit runes, for inclusion with the next request.
// Timestamps are stripped; the assistant only needs role and content.
func (t *Transcript) RecentContext(maxMessages, charLimit int) []ChatMessage {
	if maxMessages <= 0 || len(t.messages) == 0 {
		return nil
	}
	start := len(t.messages) - maxMessages
	if start < 0 {
		start = 0
	}

	context := make([]ChatMessage, 0, len(t.messages)-start)
	for _, msg := range t.messages[start:] {
		context = append(context, ChatMessage{
			Role:    msg.Role,
			Content: truncateRunes(msg.Content, charLimit),
		})
	}
	return context
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
