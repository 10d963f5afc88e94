package internal

import (
	"time"
)

// Snapshot is a point-in-time view of the dashboard for export: who was
// signed in, the active widget set, and the transcript of the current run.
type Snapshot struct {
	User       DisplayIdentity `json:"user" yaml:"user"`
	Guest      bool            `json:"guest" yaml:"guest"`
	Widgets    []*Widget       `json:"widgets" yaml:"widgets"`
	Transcript []ChatMessage   `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
}

// NewSnapshot captures the controller's current state
func NewSnapshot(session *Session, widgets []*Widget, transcript []ChatMessage) *Snapshot {
	return &Snapshot{
		User:       session.User,
		Guest:      session.Guest,
		Widgets:    widgets,
		Transcript: transcript,
		ExportedAt: time.Now().UTC(),
	}
}
