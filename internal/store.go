package internal

import (
	"context"
	"sync"
	"time"
)

// WidgetStore owns the active widget set. Every mutation lands in memory
// first and is persisted to the local store synchronously; when a session
// token is present it is also mirrored to the remote dashboard through the
// best-effort sync queue. Remote failures never roll back local state.
type WidgetStore struct {
	mu      sync.Mutex
	widgets []*Widget

	local   *LocalStore
	api     *APIClient
	sync    *SyncQueue
	session *Session
}

// NewWidgetStore loads the persisted widget set and wires the remote sync
// path. api and syncq may be nil in purely local scenarios (tests, guest
// mode with no network).
func NewWidgetStore(local *LocalStore, api *APIClient, syncq *SyncQueue, session *Session) *WidgetStore {
	return &WidgetStore{
		widgets: local.LoadWidgets(),
		local:   local,
		api:     api,
		sync:    syncq,
		session: session,
	}
}

// Widgets returns a snapshot of the active set in position order
func (s *WidgetStore) Widgets() []*Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Widget, len(s.widgets))
	copy(out, s.widgets)
	return out
}

// Get returns the widget with the given id
func (s *WidgetStore) Get(id string) (*Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.widgets {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// GetByType returns the widget of the given type, if present
func (s *WidgetStore) GetByType(t WidgetType) (*Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByType(t)
}

func (s *WidgetStore) findByType(t WidgetType) (*Widget, bool) {
	for _, w := range s.widgets {
		if w.Type == t {
			return w, true
		}
	}
	return nil, false
}

// Add appends a new widget of the given type. At most one widget per type
// may exist; adding a duplicate leaves the set unchanged and returns
// ErrWidgetExists so the caller can surface a notice.
func (s *WidgetStore) Add(ctx context.Context, t WidgetType) (*Widget, error) {
	s.mu.Lock()
	if _, exists := s.findByType(t); exists {
		s.mu.Unlock()
		return nil, ErrWidgetExists
	}
	w := NewWidget(t)
	w.Position = len(s.widgets)
	s.widgets = append(s.widgets, w)
	s.persistLocked()
	s.mu.Unlock()

	LogInfo("Added %s widget %s", t, w.ID)
	s.enqueueSave(ctx)
	return w, nil
}

// UpdateDataByID replaces the payload of the widget with the given id.
// The replace is shallow: the whole payload swaps, no deep merge.
func (s *WidgetStore) UpdateDataByID(ctx context.Context, id string, payload WidgetPayload) error {
	s.mu.Lock()
	var target *Widget
	for _, w := range s.widgets {
		if w.ID == id {
			target = w
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	target.Payload = payload
	target.UpdatedAt = time.Now().UTC()
	s.persistLocked()
	s.mu.Unlock()

	s.enqueueSave(ctx)
	return nil
}

// UpdateDataByType replaces the payload of the widget with the given type,
// provisioning the widget first when no instance exists. An incoming data
// payload for an unopened type thus makes that widget appear.
func (s *WidgetStore) UpdateDataByType(ctx context.Context, t WidgetType, payload WidgetPayload) (*Widget, error) {
	s.mu.Lock()
	w, ok := s.findByType(t)
	if !ok {
		w = NewWidget(t)
		w.Position = len(s.widgets)
		s.widgets = append(s.widgets, w)
		LogInfo("Auto-provisioned %s widget for incoming data", t)
	}
	w.Payload = payload
	w.UpdatedAt = time.Now().UTC()
	s.persistLocked()
	s.mu.Unlock()

	s.enqueueSave(ctx)
	return w, nil
}

// Resize advances the widget's size one step through the fixed cycle
func (s *WidgetStore) Resize(ctx context.Context, id string) (WidgetSize, error) {
	s.mu.Lock()
	var target *Widget
	for _, w := range s.widgets {
		if w.ID == id {
			target = w
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return "", ErrWidgetNotFound
	}
	target.Size = NextSize(target.Size)
	target.UpdatedAt = time.Now().UTC()
	size := target.Size
	s.persistLocked()
	s.mu.Unlock()

	s.enqueueSave(ctx)
	return size, nil
}

// Remove deletes the widget from memory and local storage immediately.
// A remote delete is attempted only for server-backed records; the remote
// call failing does not resurrect the widget.
func (s *WidgetStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	var removed *Widget
	for i, w := range s.widgets {
		if w.ID == id {
			idx = i
			removed = w
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrWidgetNotFound
	}
	s.widgets = append(s.widgets[:idx], s.widgets[idx+1:]...)
	for i, w := range s.widgets {
		w.Position = i
	}
	s.persistLocked()
	s.mu.Unlock()

	LogInfo("Removed %s widget %s", removed.Type, id)

	if removed.Origin == OriginServer {
		s.enqueue(ctx, func(jobCtx context.Context) error {
			return s.api.DeleteWidget(jobCtx, id)
		})
	}
	s.enqueueSave(ctx)
	return nil
}

// Clear empties the active set and its persisted mirror
func (s *WidgetStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.widgets = nil
	s.persistLocked()
	s.mu.Unlock()

	s.enqueueSave(ctx)
	return nil
}

// Flush blocks until all queued remote mutations have run
func (s *WidgetStore) Flush(ctx context.Context) error {
	if s.sync == nil {
		return nil
	}
	return s.sync.Barrier(ctx)
}

// persistLocked mirrors the full set into local storage. Callers hold s.mu.
// Persistence failure is logged, not propagated: the in-memory mutation
// already happened and the UI reflects it.
func (s *WidgetStore) persistLocked() {
	if err := s.local.SaveWidgets(s.widgets); err != nil {
		LogError("Failed to persist widget state: %v", err)
	}
}

// enqueueSave mirrors the full widget set to the remote dashboard
func (s *WidgetStore) enqueueSave(ctx context.Context) {
	s.enqueue(ctx, func(jobCtx context.Context) error {
		return s.api.SaveWidgets(jobCtx, s.Widgets())
	})
}

func (s *WidgetStore) enqueue(ctx context.Context, job SyncJob) {
	if s.sync == nil || s.api == nil || !s.session.Authenticated() {
		return
	}
	if err := s.sync.Submit(ctx, job); err != nil {
		LogWarn("Could not queue remote sync: %v", err)
	}
}
