// Package session owns the current user identity: local persistence,
// reconciliation against the marketplace API, the login/signup/logout
// flows, and the role-based routing guard.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rvnspnz/artbid/internal/api"
	"github.com/rvnspnz/artbid/internal/models"
	"github.com/rvnspnz/artbid/internal/navigation"
)

// remoteAPI defines the marketplace operations the session manager needs.
// *api.Client satisfies it; tests provide fakes.
type remoteAPI interface {
	// CurrentUser returns the authoritative session record, api.ErrNoSession
	// when the server says the session is gone, or a transport error.
	CurrentUser(ctx context.Context) (*models.User, error)
	// Login posts credentials and reports whether the server accepted them.
	Login(ctx context.Context, username, password string) (bool, error)
	// Register creates an account.
	Register(ctx context.Context, reg api.RegisterRequest) error
	// Logout invalidates the server-side session.
	Logout(ctx context.Context) error
}

// Manager is the single source of truth for "who is the user". All
// mutations go through Initialize, Login, Signup, and Logout; the in-memory
// and persisted copies never diverge after a mutation completes.
type Manager struct {
	api   remoteAPI
	store *Store
	nav   navigation.Navigator
	log   *zap.Logger

	mu      sync.Mutex
	user    *models.User
	loading bool
	gen     uint64
	cancel  context.CancelFunc
}

// NewManager wires a Manager. loading starts true and drops to false once
// the first Initialize completes.
func NewManager(remote remoteAPI, store *Store, nav navigation.Navigator, log *zap.Logger) *Manager {
	return &Manager{api: remote, store: store, nav: nav, log: log, loading: true}
}

// Initialize loads the persisted user, reconciles it against the server,
// and applies the routing guard for the given path. It runs once at startup
// and again on every path change.
//
// Reconciliation is optimistic-then-authoritative: the persisted record is
// adopted immediately, then replaced by the server's answer. An explicit
// rejection clears both copies; a transport failure keeps the cached copy.
// Each call supersedes any still-running reconciliation: the earlier
// request is cancelled and its late result is discarded.
func (m *Manager) Initialize(ctx context.Context, path string) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.gen++
	gen := m.gen

	stored, err := m.store.Load()
	if err != nil {
		m.log.Warn("failed to read persisted session", zap.Error(err))
	}
	var current *models.User
	if stored != nil {
		m.user = stored
		current = stored
	}
	m.mu.Unlock()

	if stored != nil {
		remote, err := m.api.CurrentUser(rctx)

		m.mu.Lock()
		if gen != m.gen {
			// A newer Initialize took over while we were waiting.
			m.mu.Unlock()
			return
		}
		switch {
		case err == nil:
			m.user = remote
			current = remote
			if err := m.store.Save(remote); err != nil {
				m.log.Warn("failed to persist session", zap.Error(err))
			}
		case errors.Is(err, api.ErrNoSession):
			m.log.Info("server session expired, clearing local user data")
			m.user = nil
			current = nil
			if err := m.store.Clear(); err != nil {
				m.log.Warn("failed to clear persisted session", zap.Error(err))
			}
		default:
			// Offline-tolerant: keep the cached user on transport failure.
			m.log.Warn("session reconciliation unreachable, keeping cached user", zap.Error(err))
		}
		m.mu.Unlock()
	}

	if current != nil {
		if target, redirect := Route(current.Role, path); redirect {
			m.nav.Replace(target)
		}
	}

	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

// Login authenticates with the marketplace. On success the session is
// stored (memory and file) and the client navigates home; the routing
// guard intentionally does not fire here, only on later initializations.
// Any failure leaves state untouched and returns false.
func (m *Manager) Login(ctx context.Context, identifier, password string) bool {
	ok, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		m.log.Error("login request failed", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		// Degraded fallback: fabricate a local record from the submitted
		// identifier, inferring the role from reserved usernames. Insecure
		// shortcut kept for environments without the current-user endpoint.
		m.log.Warn("authoritative user fetch failed after login, using local fallback",
			zap.String("identifier", identifier), zap.Error(err))
		user = fallbackUser(identifier)
	}

	m.setUser(user)
	m.nav.Replace(homePath)
	return true
}

// Signup registers a CUSTOMER account. The registration response carries no
// session, so a canonical customer record is synthesized locally.
func (m *Manager) Signup(ctx context.Context, username, email, password, displayName string) bool {
	first, last := splitName(displayName)
	err := m.api.Register(ctx, api.RegisterRequest{
		Username:  username,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
		Role:      string(models.RoleCustomer),
	})
	if err != nil {
		m.log.Error("signup failed", zap.Error(err))
		return false
	}

	name := displayName
	if name == "" {
		name = username
	}
	m.setUser(&models.User{
		ID:        "1",
		Username:  username,
		Name:      name,
		Email:     email,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	m.nav.Replace(homePath)
	return true
}

// Logout ends the session. The remote call is best-effort; the local state
// is cleared unconditionally and the client navigates home. Calling it with
// no active session is safe.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.log.Error("logout API error", zap.Error(err))
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.log.Warn("failed to clear persisted session", zap.Error(err))
	}
	m.nav.Replace(homePath)
}

// User returns the current user, or nil when unauthenticated.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether the initial reconciliation is still in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// IsAdmin reports whether the current user is an admin.
func (m *Manager) IsAdmin() bool {
	u := m.User()
	return u != nil && u.Role == models.RoleAdmin
}

// IsSeller reports whether the current user may enter the seller area.
// Admins share seller access.
func (m *Manager) IsSeller() bool {
	u := m.User()
	return u != nil && (u.Role == models.RoleSeller || u.Role == models.RoleAdmin)
}

// setUser updates memory and the persisted slot together.
func (m *Manager) setUser(u *models.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
	if err := m.store.Save(u); err != nil {
		m.log.Warn("failed to persist session", zap.Error(err))
	}
}

// fallbackUser synthesizes a user record from a login identifier when the
// authoritative fetch is unavailable. Reserved identifiers imply roles.
func fallbackUser(identifier string) *models.User {
	role := models.RoleCustomer
	switch identifier {
	case "admin":
		role = models.RoleAdmin
	case "seller":
		role = models.RoleSeller
	}
	email := identifier
	if !strings.Contains(identifier, "@") {
		email = identifier + "@example.com"
	}
	return &models.User{
		ID:        "1",
		Username:  identifier,
		Name:      identifier,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// splitName splits a display name into first and last name at the first
// whitespace token.
func splitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
