// Package session provides the request-scoped session for one
// interactive use of the system: who is logged in and whether the
// admin gate has been passed. Sessions replace ambient globals; every
// operation that needs the current user receives a *Session explicitly.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
)

// DefaultAdminSecret is the static shared secret guarding admin
// operations. This is an access gate, not a security model; the system
// is single-tenant and locally deployed.
const DefaultAdminSecret = "admin123"

// ErrUnknownUser is returned by Login when no user has the given email.
// The caller decides whether to register a new user.
var ErrUnknownUser = errors.New("unknown user")

// ErrNotAdmin is returned by RequireAdmin on sessions that have not
// passed the admin gate.
var ErrNotAdmin = errors.New("admin authentication required")

// Session is the state of one interactive session. Created at login,
// discarded at logout; never shared across sessions.
type Session struct {
	// ID is a UUIDv7, time-sortable for log correlation.
	ID        string
	User      *domain.User
	Admin     bool
	CreatedAt time.Time
}

// RequireAdmin returns ErrNotAdmin unless the admin gate was passed.
func (s *Session) RequireAdmin() error {
	if s == nil || !s.Admin {
		return ErrNotAdmin
	}
	return nil
}

// Manager creates sessions against a store.
type Manager struct {
	store       *store.Store
	adminSecret string
	now         func() time.Time
}

// NewManager creates a session manager. An empty adminSecret falls back
// to DefaultAdminSecret.
func NewManager(st *store.Store, adminSecret string) *Manager {
	if adminSecret == "" {
		adminSecret = DefaultAdminSecret
	}
	return &Manager{store: st, adminSecret: adminSecret, now: time.Now}
}

// Login starts a session for an existing user, looked up by email.
// Returns ErrUnknownUser when the email is not registered.
func (m *Manager) Login(ctx context.Context, email string) (*Session, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("login %q: %w", email, ErrUnknownUser)
	}
	return m.newSession(user), nil
}

// Register creates a user and starts their first session. A duplicate
// email fails with the store's ConstraintError.
func (m *Manager) Register(ctx context.Context, name, email string, current, target domain.Level) (*Session, error) {
	id, err := m.store.CreateUser(ctx, name, email, current, target)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user, err := m.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("register: reload user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("register: user %d vanished after create", id)
	}

	return m.newSession(user), nil
}

// Anonymous starts a session with no user attached. Admin operations
// that act on the catalog rather than a user run under one.
func (m *Manager) Anonymous() *Session {
	return &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: m.now(),
	}
}

// AuthenticateAdmin passes the admin gate when the supplied secret
// matches the configured one. Reports whether the session is now admin.
func (m *Manager) AuthenticateAdmin(sess *Session, secret string) bool {
	if secret != "" && secret == m.adminSecret {
		sess.Admin = true
	}
	return sess.Admin
}

// Logout clears the session state. The session must not be used after.
func (m *Manager) Logout(sess *Session) {
	sess.User = nil
	sess.Admin = false
}

func (m *Manager) newSession(user *domain.User) *Session {
	return &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		User:      user,
		CreatedAt: m.now(),
	}
}
