// Package session holds the local login state: whether the user is logged in
// and under which identity.
//
// A Manager is the explicit session context. It is opened once from a Store,
// read with Current, updated with Write and reset with Clear. Consumers get
// the Manager (or a Session value) passed in; there is no package-level state.
package session

import (
	"context"
	"fmt"
	"sync"
)

// Persisted key names.
const (
	KeyLoggedIn = "isLoggedIn"
	KeyEmail    = "email"
	KeyToken    = "token"
)

// Session is the persisted login state.
type Session struct {
	// IsLoggedIn decides the initial screen at startup.
	IsLoggedIn bool `json:"isLoggedIn"`

	// Email holds the identity used for task lookups. After login this is the
	// username, despite the key name.
	Email string `json:"email"`

	// Token is the bearer token issued by a remote gateway, if any.
	Token string `json:"token,omitempty"`
}

// LoggedIn returns the session written after a successful login or sign-up.
func LoggedIn(identity, token string) Session {
	return Session{IsLoggedIn: true, Email: identity, Token: token}
}

// Store persists a Session.
type Store interface {
	// Load returns the stored session, or the zero Session if nothing is stored.
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Manager is the session context handed to consumers.
type Manager struct {
	store Store

	mu      sync.RWMutex
	current Session
}

// Open loads the stored session and returns a Manager holding it.
func Open(ctx context.Context, store Store) (*Manager, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &Manager{store: store, current: s}, nil
}

// Current returns the in-memory session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Write persists s and makes it current. On a store error the current
// session is left unchanged.
func (m *Manager) Write(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.current = s
	return nil
}

// Clear resets the stored and current session to logged out.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.current = Session{}
	return nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
