package internal

import (
	"context"
	"database/sql"
)

// Controller is the dashboard session controller: it owns the session, the
// widget store, and the conversation relay for one run, replacing the
// scattered page-global state of the original dashboard with one explicitly
// owned object.
type Controller struct {
	Config  Config
	Session *Session
	Store   *WidgetStore
	Relay   *ConversationRelay
	Gate    *AuthGate
	Local   *LocalStore

	db    *sql.DB
	api   *APIClient
	syncq *SyncQueue
}

// NewController opens local storage, resolves the session through the auth
// gate, and wires the widget store and relay. The remote API being down
// never blocks construction; everything degrades to local-only behavior.
func NewController(ctx context.Context, cfg Config, dataDir string) (*Controller, error) {
	paths, err := GetDataPaths(dataDir)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDataDir(); err != nil {
		return nil, err
	}

	db, err := OpenDatabase(paths.DatabasePath)
	if err != nil {
		return nil, err
	}

	api, err := NewAPIClient(cfg.APIURL, WithHTTPTimeout(cfg.HTTPTimeout))
	if err != nil {
		db.Close()
		return nil, err
	}

	local := NewLocalStore(db)
	gate := NewAuthGate(local, api)
	session := gate.ResolveSession(ctx)

	syncq := NewSyncQueue(SyncConfig{
		QueueSize:   cfg.SyncQueueSize,
		MaxAttempts: cfg.SyncMaxAttempts,
	})
	store := NewWidgetStore(local, api, syncq, session)
	relay := NewConversationRelay(api, NewTranscript(), store, cfg)

	return &Controller{
		Config:  cfg,
		Session: session,
		Store:   store,
		Relay:   relay,
		Gate:    gate,
		Local:   local,
		db:      db,
		api:     api,
		syncq:   syncq,
	}, nil
}

// API exposes the remote client for commands that call endpoints directly
func (c *Controller) API() *APIClient {
	return c.api
}

// Close flushes pending remote syncs and releases local storage
func (c *Controller) Close() error {
	if c.syncq != nil {
		c.syncq.Stop()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
