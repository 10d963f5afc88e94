package internal

import (
	"errors"
	"fmt"
)

// ErrWidgetExists is returned when adding a widget type already present
var ErrWidgetExists = errors.New("widget type already on dashboard")

// ErrWidgetNotFound is returned when an id matches no active widget
var ErrWidgetNotFound = errors.New("widget not found")

// ErrEmptyMessage is returned for empty or whitespace-only chat input
var ErrEmptyMessage = errors.New("empty message")

// ErrRelayBusy is returned while a chat request is already in flight
var ErrRelayBusy = errors.New("a message is already being sent")

// StorageError represents errors accessing the local key-value store
type StorageError struct {
	Key string
	Op  string // "open", "get", "put", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// APIError represents a failed call to the remote Faraday API
type APIError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error [%s]: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("api error [%s]: %v", e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AuthError represents a credential failure during login or register
type AuthError struct {
	Op  string // "login", "register", "lookup"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error [%s]: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// CaptureError represents a voice capture or transcription failure
type CaptureError struct {
	Source string // capture source description
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture error [%s]: %v", e.Source, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
