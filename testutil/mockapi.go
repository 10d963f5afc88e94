package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockAPI is an httptest-backed stand-in for the remote Faraday API. Each
// endpoint's behavior can be overridden per test; by default everything
// succeeds with minimal bodies.
type MockAPI struct {
	Server *httptest.Server

	mu sync.Mutex
	// ChatResponse is returned verbatim from /api/v1/chat/message.
	ChatResponse string
	// ChatStatus, when non-zero, forces that status on chat calls.
	ChatStatus int
	// WhoamiStatus, when non-zero, forces that status on identity lookups.
	WhoamiStatus int
	// TranscribeText is returned from /api/v1/speech-to-text.
	TranscribeText string

	// Recorded requests.
	ChatRequests   []string
	SavedWidgets   []string
	DeletedWidgets []string
	BearerTokens   []string
}

// NewMockAPI starts a mock API server; it is shut down with the test
func NewMockAPI(t *testing.T) *MockAPI {
	t.Helper()
	m := &MockAPI{
		ChatResponse:   `{"response":"Hello! How can I help?"}`,
		TranscribeText: "recognized text",
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the mock server's base URL
func (m *MockAPI) URL() string {
	return m.Server.URL
}

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if auth := r.Header.Get("Authorization"); auth != "" {
		m.BearerTokens = append(m.BearerTokens, strings.TrimPrefix(auth, "Bearer "))
	}

	switch {
	case r.URL.Path == "/api/v1/chat/message":
		body, _ := io.ReadAll(r.Body)
		m.ChatRequests = append(m.ChatRequests, string(body))
		if m.ChatStatus != 0 {
			w.WriteHeader(m.ChatStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(m.ChatResponse))

	case r.URL.Path == "/api/v1/auth/teacher/login" || r.URL.Path == "/api/v1/auth/teacher/register":
		var creds struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": SampleToken,
			"user":         map[string]string{"name": creds.Name, "email": creds.Email},
		})

	case r.URL.Path == "/api/v1/auth/teacher/me":
		if m.WhoamiStatus != 0 {
			w.WriteHeader(m.WhoamiStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Remote Name","email":"remote@school.edu"}`))

	case r.URL.Path == "/api/v1/dashboard/init":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))

	case r.URL.Path == "/api/v1/dashboard/widgets" && r.Method == http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		m.SavedWidgets = append(m.SavedWidgets, string(body))
		w.WriteHeader(http.StatusOK)

	case r.URL.Path == "/api/v1/dashboard/widgets" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))

	case strings.HasPrefix(r.URL.Path, "/api/v1/dashboard/widgets/") && r.Method == http.MethodDelete:
		m.DeletedWidgets = append(m.DeletedWidgets, strings.TrimPrefix(r.URL.Path, "/api/v1/dashboard/widgets/"))
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == "/api/v1/speech-to-text":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": m.TranscribeText})

	default:
		http.NotFound(w, r)
	}
}

// Snapshot copies the recorded request lists under the lock
func (m *MockAPI) Snapshot() (chat, saved, deleted, tokens []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ChatRequests...),
		append([]string(nil), m.SavedWidgets...),
		append([]string(nil), m.DeletedWidgets...),
		append([]string(nil), m.BearerTokens...)
}
