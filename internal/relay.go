package internal

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// ConversationRelay forwards user input to the remote assistant and applies
// the reply to the transcript and the widget store. One call may be in
// flight at a time; the send affordance is disabled for the duration.
type ConversationRelay struct {
	api        *APIClient
	transcript *Transcript
	store      *WidgetStore
	cfg        Config

	inFlight uint32
}

// NewConversationRelay wires the relay to its collaborators
func NewConversationRelay(api *APIClient, transcript *Transcript, store *WidgetStore, cfg Config) *ConversationRelay {
	return &ConversationRelay{
		api:        api,
		transcript: transcript,
		store:      store,
		cfg:        cfg,
	}
}

// Transcript exposes the relay's transcript for rendering
func (r *ConversationRelay) Transcript() *Transcript {
	return r.transcript
}

// SendMessage relays one user message. Empty or whitespace-only input is a
// no-op that leaves the transcript untouched. The user message is appended
// optimistically before the network call; any failure appends exactly one
// synthetic assistant error message instead of propagating. The returned
// message is the assistant's reply (real or synthetic).
func (r *ConversationRelay) SendMessage(ctx context.Context, text string) (ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ChatMessage{}, ErrEmptyMessage
	}
	if !atomic.CompareAndSwapUint32(&r.inFlight, 0, 1) {
		return ChatMessage{}, ErrRelayBusy
	}
	defer atomic.StoreUint32(&r.inFlight, 0)

	// Optimistic append: the user's message shows before the reply lands,
	// and it stays in the transcript even when the call fails.
	context := r.transcript.RecentContext(r.cfg.ContextMessages, r.cfg.ContextCharLimit)
	r.transcript.Append(RoleUser, trimmed)

	chatRequestsTotal.Inc()
	resp, err := r.api.SendChatMessage(ctx, ChatRequest{Message: trimmed, Context: context})
	if err != nil {
		chatFailuresTotal.Inc()
		LogWarn("Assistant call failed: %v", err)
		reply := r.transcript.Append(RoleAssistant, syntheticErrorMessage(err))
		return reply, nil
	}

	reply := r.transcript.Append(RoleAssistant, resp.Response)
	r.applyWidgetUpdates(ctx, resp)
	return reply, nil
}

// Busy reports whether a call is outstanding
func (r *ConversationRelay) Busy() bool {
	return atomic.LoadUint32(&r.inFlight) == 1
}

// applyWidgetUpdates routes widget payloads from the reply through the
// store: addressed updates first, then the freeform auto-provisioning pair.
func (r *ConversationRelay) applyWidgetUpdates(ctx context.Context, resp *ChatResponse) {
	if r.store == nil {
		return
	}
	for _, update := range resp.Widgets {
		var err error
		switch {
		case update.ID != "":
			err = r.store.UpdateDataByID(ctx, update.ID, update.Data)
		case update.Type != "":
			_, err = r.store.UpdateDataByType(ctx, update.Type, update.Data)
		default:
			continue
		}
		if err != nil {
			LogWarn("Dropped widget update (%s/%s): %v", update.ID, update.Type, err)
		}
	}
	if wd := resp.WidgetData; wd != nil && wd.Type != "" {
		if _, err := r.store.UpdateDataByType(ctx, wd.Type, wd.Data); err != nil {
			LogWarn("Dropped widget_data for %s: %v", wd.Type, err)
		}
	}
}

// syntheticErrorMessage is the assistant-role message shown when a call
// fails. It keeps the UI out of a stuck "thinking" state.
func syntheticErrorMessage(err error) string {
	return fmt.Sprintf("Sorry, I couldn't process that message (%v). Please try again.", err)
}
