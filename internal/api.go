package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

// APIClient talks to the remote Faraday API. Authentication is optional
// context, not a precondition: requests go out with or without a bearer
// credential, and every endpoint except auth works for guest callers.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// APIOption configures an APIClient during construction
type APIOption func(*APIClient) error

// WithHTTPTimeout sets the underlying http.Client timeout. It is a coarse
// safety net bounding one request end to end; the value must be > 0.
func WithHTTPTimeout(d time.Duration) APIOption {
	return func(c *APIClient) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client entirely
func WithHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// NewAPIClient constructs a client for the given base URL
func NewAPIClient(baseURL string, opts ...APIOption) (*APIClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	c := &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.wrapTransportWithBearer()
	return c, nil
}

// SetToken installs the bearer credential used on subsequent requests.
// An empty token switches the client back to unauthenticated calls.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *APIClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// wrapTransportWithBearer wraps the HTTP transport so the Authorization
// header is added automatically whenever a token is set.
func (c *APIClient) wrapTransportWithBearer() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{base: base, token: c.currentToken}
}

// bearerTransport adds the Authorization header when a token is available
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.token()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// ChatRequest is the payload for the assistant endpoint
type ChatRequest struct {
	Message string        `json:"message"`
	Context []ChatMessage `json:"context,omitempty"`
}

// ChatResponse is the assistant's reply. Widgets carries updates for
// already-known widgets; WidgetData carries a freeform type+data pair that
// auto-provisions the widget when missing.
type ChatResponse struct {
	Response   string             `json:"response"`
	Widgets    []WidgetUpdate     `json:"widgets,omitempty"`
	WidgetData *WidgetDataPayload `json:"widget_data,omitempty"`
}

// WidgetUpdate addresses a widget by id or type and replaces its data
type WidgetUpdate struct {
	ID   string        `json:"id,omitempty"`
	Type WidgetType    `json:"type,omitempty"`
	Data WidgetPayload `json:"data"`
}

// WidgetDataPayload is the freeform auto-provisioning payload
type WidgetDataPayload struct {
	Type WidgetType    `json:"type"`
	Data WidgetPayload `json:"data"`
}

// SendChatMessage posts a message plus bounded context to the assistant
func (c *APIClient) SendChatMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "/api/v1/chat/message", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Credentials are the login/register inputs
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	School   string `json:"school,omitempty"`
}

// AuthResponse is the token grant returned by the auth endpoints
type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	User         DisplayIdentity `json:"user,omitempty"`
}

// Login exchanges credentials for a bearer token
func (c *APIClient) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, "/api/v1/auth/teacher/login", creds, &resp); err != nil {
		return nil, &AuthError{Op: "login", Err: err}
	}
	return &resp, nil
}

// Register creates an account and returns a bearer token
func (c *APIClient) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postJSON(ctx, "/api/v1/auth/teacher/register", creds, &resp); err != nil {
		return nil, &AuthError{Op: "register", Err: err}
	}
	return &resp, nil
}

// Whoami resolves the display identity behind the current token
func (c *APIClient) Whoami(ctx context.Context) (*DisplayIdentity, error) {
	var identity DisplayIdentity
	if err := c.getJSON(ctx, "/api/v1/auth/teacher/me", &identity); err != nil {
		return nil, &AuthError{Op: "lookup", Err: err}
	}
	return &identity, nil
}

// InitDashboard provisions the remote dashboard for the current user.
// The call is idempotent server-side.
func (c *APIClient) InitDashboard(ctx context.Context) error {
	return c.postJSON(ctx, "/api/v1/dashboard/init", struct{}{}, nil)
}

// FetchWidgets retrieves the server-side widget state
func (c *APIClient) FetchWidgets(ctx context.Context) ([]*Widget, error) {
	var widgets []*Widget
	if err := c.getJSON(ctx, "/api/v1/dashboard/widgets", &widgets); err != nil {
		return nil, err
	}
	for _, w := range widgets {
		w.Normalize()
		w.Origin = OriginServer
	}
	return widgets, nil
}

// SaveWidgets uploads the full widget state
func (c *APIClient) SaveWidgets(ctx context.Context, widgets []*Widget) error {
	return c.postJSON(ctx, "/api/v1/dashboard/widgets", widgets, nil)
}

// DeleteWidget removes a server-backed widget by id
func (c *APIClient) DeleteWidget(ctx context.Context, id string) error {
	endpoint := "/api/v1/dashboard/widgets/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, nil)
}

// TranscribeResponse carries recognized text from the speech endpoint
type TranscribeResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads captured audio as multipart form data and returns the
// recognized text.
func (c *APIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	const endpoint = "/api/v1/speech-to-text"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return "", &APIError{Endpoint: endpoint, Err: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", &APIError{Endpoint: endpoint, Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &APIError{Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &body)
	if err != nil {
		return "", &APIError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp TranscribeResponse
	if err := c.do(req, endpoint, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *APIClient) postJSON(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, endpoint, out)
}

func (c *APIClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, out)
}

func (c *APIClient) do(req *http.Request, endpoint string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Endpoint: endpoint, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return nil
}
