package internal

import (
	"database/sql"
)

// Storage keys. Each piece of persisted state lives under its own key,
// plain strings or JSON, no schema versioning.
const (
	KeyToken   = "auth:token"
	KeyWidgets = "dashboard:widgets"
	prefPrefix = "pref:"
)

// LocalStore mirrors session and widget state into the faradayKV table for
// durability across runs. It is the local analogue of the authoritative
// remote dashboard state and the only store available in guest mode.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore creates a LocalStore over an open database
func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{db: db}
}

// LoadToken reads the persisted credential token. Absence is a mode switch
// (guest), not an error.
func (s *LocalStore) LoadToken() (string, bool) {
	token, ok, err := GetValue(s.db, KeyToken)
	if err != nil {
		LogWarn("Failed to read stored token: %v", err)
		return "", false
	}
	return token, ok && token != ""
}

// SaveToken persists the credential token
func (s *LocalStore) SaveToken(token string) error {
	return PutValue(s.db, KeyToken, token)
}

// ClearToken removes the persisted credential token
func (s *LocalStore) ClearToken() error {
	return DeleteValue(s.db, KeyToken)
}

// LoadWidgets reads the full widget set from its single storage key.
// Load is all or nothing: a missing or corrupt entry yields an empty set.
func (s *LocalStore) LoadWidgets() []*Widget {
	raw, ok, err := GetValue(s.db, KeyWidgets)
	if err != nil {
		LogWarn("Failed to read widget state: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	return ParseWidgets(raw)
}

// SaveWidgets serializes the full widget set as one JSON document
func (s *LocalStore) SaveWidgets(widgets []*Widget) error {
	raw, err := EncodeWidgets(widgets)
	if err != nil {
		return err
	}
	return PutValue(s.db, KeyWidgets, raw)
}

// GetPreference reads a UI preference flag by name
func (s *LocalStore) GetPreference(name string) (string, bool) {
	value, ok, err := GetValue(s.db, prefPrefix+name)
	if err != nil {
		LogWarn("Failed to read preference %q: %v", name, err)
		return "", false
	}
	return value, ok
}

// SetPreference writes a UI preference flag by name
func (s *LocalStore) SetPreference(name, value string) error {
	return PutValue(s.db, prefPrefix+name, value)
}

// Preferences returns all stored UI preference flags keyed by name
func (s *LocalStore) Preferences() map[string]string {
	pairs, err := QueryKeys(s.db, prefPrefix+"%")
	if err != nil {
		LogWarn("Failed to list preferences: %v", err)
		return nil
	}
	prefs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		prefs[pair.Key[len(prefPrefix):]] = pair.Value
	}
	return prefs
}
