package internal

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// placeholderName is displayed when no identity can be resolved at all
const placeholderName = "Guest"

// AuthGate decides between guest mode and an authenticated session from the
// persisted token, and resolves the display identity shown in the UI.
// Identity resolution failures are cosmetic only and never block the
// dashboard.
type AuthGate struct {
	local *LocalStore
	api   *APIClient
}

// NewAuthGate creates an AuthGate over local storage and the remote API
func NewAuthGate(local *LocalStore, api *APIClient) *AuthGate {
	return &AuthGate{local: local, api: api}
}

// ResolveSession builds the session for this run. Token absence is a mode
// switch to guest, not an error. With a token present the display identity
// comes from the remote lookup, falling back to the name embedded in the
// token claims, falling back to a placeholder.
func (g *AuthGate) ResolveSession(ctx context.Context) *Session {
	token, ok := g.local.LoadToken()
	if !ok {
		LogDebug("No stored token, continuing as guest")
		return &Session{Guest: true, User: DisplayIdentity{Name: placeholderName}}
	}

	session := &Session{Token: token}
	if g.api != nil {
		g.api.SetToken(token)
		if identity, err := g.api.Whoami(ctx); err == nil && identity.Name != "" {
			session.User = *identity
			return session
		} else if err != nil {
			LogWarn("Remote identity lookup failed: %v", err)
		}
	}

	if identity, ok := identityFromToken(token); ok {
		session.User = identity
		return session
	}

	session.User = DisplayIdentity{Name: "User"}
	return session
}

// identityFromToken decodes the display identity embedded in the token
// payload. The signature is not verified: the client has no secret and the
// claims only affect what name is displayed.
func identityFromToken(token string) (DisplayIdentity, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		LogDebug("Token claims not decodable: %v", err)
		return DisplayIdentity{}, false
	}

	identity := DisplayIdentity{}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if identity.Name == "" && identity.Email != "" {
		identity.Name = identity.Email
	}
	return identity, identity.Name != ""
}

// Login authenticates against the remote API and persists the granted token
func (g *AuthGate) Login(ctx context.Context, creds Credentials) (*Session, error) {
	resp, err := g.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return g.adoptGrant(ctx, resp)
}

// Register creates an account and persists the granted token
func (g *AuthGate) Register(ctx context.Context, creds Credentials) (*Session, error) {
	resp, err := g.api.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return g.adoptGrant(ctx, resp)
}

func (g *AuthGate) adoptGrant(ctx context.Context, resp *AuthResponse) (*Session, error) {
	if err := g.local.SaveToken(resp.AccessToken); err != nil {
		// The grant still works for this run; it just won't survive restart.
		LogWarn("Failed to persist token: %v", err)
	}
	g.api.SetToken(resp.AccessToken)

	session := &Session{Token: resp.AccessToken, User: resp.User}
	if session.User.Name == "" {
		if identity, ok := identityFromToken(resp.AccessToken); ok {
			session.User = identity
		} else {
			session.User = DisplayIdentity{Name: "User"}
		}
	}

	// Best-effort: make sure the remote dashboard exists for this account.
	if err := g.api.InitDashboard(ctx); err != nil {
		LogWarn("Dashboard init failed: %v", err)
	}
	return session, nil
}

// Logout clears the persisted token and drops the credential from the API
// client. Local widget state is untouched.
func (g *AuthGate) Logout() error {
	if g.api != nil {
		g.api.SetToken("")
	}
	return g.local.ClearToken()
}
