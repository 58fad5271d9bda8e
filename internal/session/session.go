// Package session owns the credential and profile lifecycle: login,
// register, logout, and restoring a persisted session at startup.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/blackwell-systems/readerctl/internal/api"
	"github.com/blackwell-systems/readerctl/internal/credstore"
	"github.com/blackwell-systems/readerctl/internal/reader"
)

// State is the coarse auth state of the process.
type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticating  State = "authenticating"
	Authenticated   State = "authenticated"
)

// Manager drives the auth state machine. Session-mutating operations
// (Login, Register, Logout, Restore) are serialized by a single lock, so
// two interleaved logins cannot overwrite each other's stored token.
type Manager struct {
	client *api.Client
	store  *credstore.Store
	log    *slog.Logger

	opMu sync.Mutex // serializes mutating operations end to end

	mu      sync.RWMutex // guards state, profile, listeners
	state   State
	profile *reader.UserProfile
	expired []func()
}

// NewManager wires a Manager to the API client and credential store and
// subscribes to the client's 401 notifications.
func NewManager(client *api.Client, store *credstore.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Manager{
		client: client,
		store:  store,
		log:    log,
		state:  Unauthenticated,
	}
	client.OnAuthFailure(m.handleAuthFailure)
	return m
}

// OnSessionExpired registers a listener fired when the server invalidates
// the session (HTTP 401). Listeners run after local state is cleared.
func (m *Manager) OnSessionExpired(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired = append(m.expired, fn)
}

// State returns the current auth state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns the cached profile of the authenticated user.
func (m *Manager) CurrentUser() (*reader.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Authenticated || m.profile == nil {
		return nil, false
	}
	p := *m.profile
	return &p, true
}

// RequireUserID resolves the authenticated user's uuid, failing with a
// precondition error when there is no session. Resource services call
// this before touching the network.
func (m *Manager) RequireUserID() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Authenticated || m.profile == nil {
		return "", api.ErrNoSession
	}
	return m.profile.UUID, nil
}

type authPayload struct {
	User  reader.UserProfile `json:"user"`
	Token string             `json:"token"`
}

// Login authenticates with email and password. On success the token and
// profile are persisted and the state becomes Authenticated; on failure
// the state stays Unauthenticated and the typed error is returned.
func (m *Manager) Login(ctx context.Context, email, password string) (*reader.UserProfile, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setState(Authenticating, nil)
	body := map[string]string{"email": email, "password": password}

	var payload authPayload
	if err := m.client.Call(ctx, "auth.login", nil, nil, body, &payload); err != nil {
		m.setState(Unauthenticated, nil)
		return nil, err
	}
	return m.completeAuth(payload)
}

// Register creates an account and logs in with the returned token.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*reader.UserProfile, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.setState(Authenticating, nil)
	body := map[string]string{"name": name, "email": email, "password": password}

	var payload authPayload
	if err := m.client.Call(ctx, "auth.register", nil, nil, body, &payload); err != nil {
		m.setState(Unauthenticated, nil)
		return nil, err
	}
	return m.completeAuth(payload)
}

func (m *Manager) completeAuth(payload authPayload) (*reader.UserProfile, error) {
	creds := credstore.Credentials{Token: payload.Token, Profile: &payload.User}
	if err := m.store.Save(creds); err != nil {
		m.setState(Unauthenticated, nil)
		return nil, err
	}
	m.setState(Authenticated, &payload.User)
	return &payload.User, nil
}

// Restore revalidates a persisted token at startup by fetching the
// current profile. A missing token or a failed validation both end in
// Unauthenticated with local storage cleared.
func (m *Manager) Restore(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	creds, err := m.store.Load()
	if err != nil {
		return err
	}
	if creds.Token == "" {
		m.setState(Unauthenticated, nil)
		return nil
	}

	var profile reader.UserProfile
	if err := m.client.Call(ctx, "auth.me", nil, nil, nil, &profile); err != nil {
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Debug("clearing stale session failed", "err", clearErr)
		}
		m.setState(Unauthenticated, nil)
		return err
	}

	// Re-persist with the refreshed profile.
	if err := m.store.Save(credstore.Credentials{Token: creds.Token, Profile: &profile}); err != nil {
		return err
	}
	m.setState(Authenticated, &profile)
	return nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// local token and profile. The server call failing is the one place a
// failure is deliberately swallowed: local state must go regardless.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.client.Call(ctx, "auth.logout", nil, nil, nil, nil); err != nil {
		m.log.Debug("server logout failed, clearing local session anyway", "err", err)
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.setState(Unauthenticated, nil)
	return nil
}

// ForgotPassword requests a reset email for the account.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.client.Call(ctx, "auth.forgot_password", nil, nil, map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (m *Manager) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return m.client.Call(ctx, "auth.reset_password", nil, nil, body, nil)
}

func (m *Manager) setState(s State, p *reader.UserProfile) {
	m.mu.Lock()
	m.state = s
	m.profile = p
	m.mu.Unlock()
}

// handleAuthFailure runs when the transport sees a 401. The credential
// store is already cleared by then; this drops in-memory state and
// forwards the event to subscribers. A 401 on a failed login attempt is
// not an expiry; listeners only hear about sessions that existed.
func (m *Manager) handleAuthFailure() {
	m.mu.Lock()
	wasAuthenticated := m.state == Authenticated
	m.state = Unauthenticated
	m.profile = nil
	listeners := make([]func(), len(m.expired))
	copy(listeners, m.expired)
	m.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	for _, fn := range listeners {
		fn()
	}
}
