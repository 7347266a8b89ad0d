package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rvnspnz/artbid/internal/api"
	"github.com/rvnspnz/artbid/internal/models"
)

// fakeAPI implements remoteAPI for testing.
type fakeAPI struct {
	currentFn    func(ctx context.Context) (*models.User, error)
	currentCalls int
	loginOK      bool
	loginErr     error
	registerErr  error
	lastRegister api.RegisterRequest
	logoutErr    error
	logoutCalls  int
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.currentCalls++
	if f.currentFn != nil {
		return f.currentFn(ctx)
	}
	return nil, api.ErrNoSession
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (bool, error) {
	return f.loginOK, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, reg api.RegisterRequest) error {
	f.lastRegister = reg
	return f.registerErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

// fakeNav implements navigation.Navigator and records transitions.
type fakeNav struct {
	path      string
	replaced  []string
	navigated []string
}

func (n *fakeNav) Path() string { return n.path }

func (n *fakeNav) Navigate(path string) {
	n.path = path
	n.navigated = append(n.navigated, path)
}

func (n *fakeNav) Replace(path string) {
	n.path = path
	n.replaced = append(n.replaced, path)
}

func testUser(role models.Role) *models.User {
	return &models.User{
		ID:        "7",
		Username:  "pat",
		Name:      "Pat Doe",
		Email:     "pat@artbid.test",
		Role:      role,
		CreatedAt: "2025-01-02T03:04:05Z",
	}
}

func newTestManager(t *testing.T, remote *fakeAPI) (*Manager, *Store, *fakeNav) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	nav := &fakeNav{path: "/"}
	return NewManager(remote, store, nav, zap.NewNop()), store, nav
}

func TestInitialize_NoStoredUser(t *testing.T) {
	remote := &fakeAPI{}
	mgr, _, nav := newTestManager(t, remote)

	mgr.Initialize(context.Background(), "/")

	if remote.currentCalls != 0 {
		t.Errorf("expected no reconciliation without a persisted user, got %d calls", remote.currentCalls)
	}
	if mgr.User() != nil {
		t.Errorf("expected no user, got %+v", mgr.User())
	}
	if mgr.Loading() {
		t.Error("expected loading to be false after Initialize")
	}
	if len(nav.replaced) != 0 {
		t.Errorf("expected no redirect, got %v", nav.replaced)
	}
}

func TestInitialize_AuthoritativeReplace(t *testing.T) {
	remote := &fakeAPI{currentFn: func(ctx context.Context) (*models.User, error) {
		return testUser(models.RoleAdmin), nil
	}}
	mgr, store, nav := newTestManager(t, remote)
	if err := store.Save(testUser(models.RoleCustomer)); err != nil {
		t.Fatal(err)
	}

	mgr.Initialize(context.Background(), "/")

	if got := mgr.User(); got == nil || got.Role != models.RoleAdmin {
		t.Fatalf("expected server record to replace cached user, got %+v", got)
	}
	persisted, err := store.Load()
	if err != nil || persisted == nil || persisted.Role != models.RoleAdmin {
		t.Errorf("persisted copy not updated: %+v, err=%v", persisted, err)
	}
	// Admin on "/" is redirected to the admin landing page, history-replacing.
	if len(nav.replaced) != 1 || nav.replaced[0] != "/admin/dashboard" {
		t.Errorf("expected replace to /admin/dashboard, got %v", nav.replaced)
	}
}

func TestInitialize_RejectionClearsSession(t *testing.T) {
	remote := &fakeAPI{currentFn: func(ctx context.Context) (*models.User, error) {
		return nil, api.ErrNoSession
	}}
	mgr, store, nav := newTestManager(t, remote)
	if err := store.Save(testUser(models.RoleSeller)); err != nil {
		t.Fatal(err)
	}

	mgr.Initialize(context.Background(), "/checkout")

	if mgr.User() != nil {
		t.Errorf("expected cleared user, got %+v", mgr.User())
	}
	if _, err := os.Stat(store.Path); !os.IsNotExist(err) {
		t.Errorf("expected persisted slot cleared, stat err = %v", err)
	}
	if len(nav.replaced) != 0 {
		t.Errorf("expected no redirect with no user, got %v", nav.replaced)
	}
}

func TestInitialize_TransportFailureKeepsCache(t *testing.T) {
	remote := &fakeAPI{currentFn: func(ctx context.Context) (*models.User, error) {
		return nil, errors.New("connection refused")
	}}
	mgr, store, nav := newTestManager(t, remote)
	if err := store.Save(testUser(models.RoleSeller)); err != nil {
		t.Fatal(err)
	}

	mgr.Initialize(context.Background(), "/checkout")

	if got := mgr.User(); got == nil || got.Role != models.RoleSeller {
		t.Fatalf("expected cached user kept on transport failure, got %+v", got)
	}
	if persisted, _ := store.Load(); persisted == nil {
		t.Error("expected persisted copy kept on transport failure")
	}
	// Guard still fires with the cached role.
	if len(nav.replaced) != 1 || nav.replaced[0] != "/seller/dashboard" {
		t.Errorf("expected replace to /seller/dashboard, got %v", nav.replaced)
	}
}

func TestInitialize_SupersededReconcileDiscarded(t *testing.T) {
	remote := &fakeAPI{}
	mgr, store, _ := newTestManager(t, remote)
	if err := store.Save(testUser(models.RoleCustomer)); err != nil {
		t.Fatal(err)
	}

	stale := testUser(models.RoleAdmin)
	fresh := testUser(models.RoleCustomer)
	fresh.Name = "Fresh Answer"

	var firstCtx context.Context
	remote.currentFn = func(ctx context.Context) (*models.User, error) {
		if remote.currentCalls == 1 {
			firstCtx = ctx
			// A path change re-runs Initialize while this request is in flight.
			mgr.Initialize(context.Background(), "/")
			return stale, nil
		}
		return fresh, nil
	}

	mgr.Initialize(context.Background(), "/")

	if got := mgr.User(); got == nil || got.Name != "Fresh Answer" {
		t.Fatalf("stale reconciliation overwrote newer state: %+v", got)
	}
	if firstCtx == nil || firstCtx.Err() == nil {
		t.Error("expected superseded request's context to be cancelled")
	}
}

func TestLogin_Success(t *testing.T) {
	remote := &fakeAPI{loginOK: true, currentFn: func(ctx context.Context) (*models.User, error) {
		return testUser(models.RoleSeller), nil
	}}
	mgr, store, nav := newTestManager(t, remote)

	if !mgr.Login(context.Background(), "pat", "secret") {
		t.Fatal("expected login success")
	}
	if got := mgr.User(); got == nil || got.Username != "pat" || got.Role != models.RoleSeller {
		t.Errorf("unexpected user after login: %+v", got)
	}
	if persisted, _ := store.Load(); persisted == nil {
		t.Error("expected user persisted after login")
	}
	// Login always lands on home, even for sellers; the guard only fires
	// on later navigations.
	if len(nav.replaced) != 1 || nav.replaced[0] != "/" {
		t.Errorf("expected replace to /, got %v", nav.replaced)
	}
}

func TestLogin_Rejected(t *testing.T) {
	remote := &fakeAPI{loginOK: false}
	mgr, store, nav := newTestManager(t, remote)

	if mgr.Login(context.Background(), "pat", "wrong") {
		t.Fatal("expected login failure")
	}
	if mgr.User() != nil {
		t.Errorf("expected no state change, got %+v", mgr.User())
	}
	if persisted, _ := store.Load(); persisted != nil {
		t.Error("expected nothing persisted after rejected login")
	}
	if len(nav.replaced) != 0 {
		t.Errorf("expected no navigation, got %v", nav.replaced)
	}
}

func TestLogin_TransportError(t *testing.T) {
	remote := &fakeAPI{loginErr: errors.New("connection refused")}
	mgr, _, _ := newTestManager(t, remote)

	if mgr.Login(context.Background(), "pat", "secret") {
		t.Fatal("expected login failure on transport error")
	}
	if mgr.User() != nil {
		t.Errorf("expected no state change, got %+v", mgr.User())
	}
}

func TestLogin_FallbackRoles(t *testing.T) {
	tests := []struct {
		identifier string
		wantRole   models.Role
		wantEmail  string
	}{
		{"admin", models.RoleAdmin, "admin@example.com"},
		{"seller", models.RoleSeller, "seller@example.com"},
		{"pat", models.RoleCustomer, "pat@example.com"},
		{"pat@mail.test", models.RoleCustomer, "pat@mail.test"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			remote := &fakeAPI{loginOK: true, currentFn: func(ctx context.Context) (*models.User, error) {
				return nil, errors.New("current-user endpoint unavailable")
			}}
			mgr, _, nav := newTestManager(t, remote)

			if !mgr.Login(context.Background(), tt.identifier, "secret") {
				t.Fatal("expected degraded login to still succeed")
			}
			got := mgr.User()
			if got == nil || got.Role != tt.wantRole {
				t.Fatalf("fallback role = %+v, want %s", got, tt.wantRole)
			}
			if got.Email != tt.wantEmail {
				t.Errorf("fallback email = %q, want %q", got.Email, tt.wantEmail)
			}
			if len(nav.replaced) != 1 || nav.replaced[0] != "/" {
				t.Errorf("expected replace to /, got %v", nav.replaced)
			}
		})
	}
}

func TestSignup_Success(t *testing.T) {
	remote := &fakeAPI{}
	mgr, store, nav := newTestManager(t, remote)

	if !mgr.Signup(context.Background(), "newbie", "new@artbid.test", "secret", "New Bee Third") {
		t.Fatal("expected signup success")
	}
	if remote.lastRegister.FirstName != "New" || remote.lastRegister.LastName != "Bee Third" {
		t.Errorf("display name split = %q/%q, want New/Bee Third",
			remote.lastRegister.FirstName, remote.lastRegister.LastName)
	}
	if remote.lastRegister.Role != string(models.RoleCustomer) {
		t.Errorf("signup must always request CUSTOMER, got %q", remote.lastRegister.Role)
	}
	got := mgr.User()
	if got == nil || got.Role != models.RoleCustomer || got.Username != "newbie" {
		t.Fatalf("unexpected user after signup: %+v", got)
	}
	if persisted, _ := store.Load(); persisted == nil {
		t.Error("expected user persisted after signup")
	}
	if len(nav.replaced) != 1 || nav.replaced[0] != "/" {
		t.Errorf("expected replace to /, got %v", nav.replaced)
	}
}

func TestSignup_Rejected(t *testing.T) {
	remote := &fakeAPI{registerErr: errors.New("409 conflict")}
	mgr, _, _ := newTestManager(t, remote)

	if mgr.Signup(context.Background(), "taken", "taken@artbid.test", "secret", "") {
		t.Fatal("expected signup failure")
	}
	if mgr.User() != nil {
		t.Errorf("expected no state change, got %+v", mgr.User())
	}
}

func TestLogout_ClearsEvenWhenRemoteFails(t *testing.T) {
	remote := &fakeAPI{logoutErr: errors.New("connection refused")}
	mgr, store, nav := newTestManager(t, remote)
	mgr.setUser(testUser(models.RoleAdmin))

	mgr.Logout(context.Background())

	if mgr.User() != nil {
		t.Errorf("expected user cleared, got %+v", mgr.User())
	}
	if _, err := os.Stat(store.Path); !os.IsNotExist(err) {
		t.Errorf("expected persisted slot cleared, stat err = %v", err)
	}
	if len(nav.replaced) != 1 || nav.replaced[0] != "/" {
		t.Errorf("expected replace to /, got %v", nav.replaced)
	}
}

func TestLogout_NoActiveSession(t *testing.T) {
	remote := &fakeAPI{}
	mgr, _, _ := newTestManager(t, remote)

	// Must not panic or error when already logged out.
	mgr.Logout(context.Background())

	if mgr.User() != nil {
		t.Errorf("expected no user, got %+v", mgr.User())
	}
	if remote.logoutCalls != 1 {
		t.Errorf("expected one best-effort logout call, got %d", remote.logoutCalls)
	}
}

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantAdmin  bool
		wantSeller bool
	}{
		{"nil user", nil, false, false},
		{"customer", testUser(models.RoleCustomer), false, false},
		{"seller", testUser(models.RoleSeller), false, true},
		{"admin", testUser(models.RoleAdmin), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, _, _ := newTestManager(t, &fakeAPI{})
			if tt.user != nil {
				mgr.setUser(tt.user)
			}
			if got := mgr.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.wantAdmin)
			}
			if got := mgr.IsSeller(); got != tt.wantSeller {
				t.Errorf("IsSeller() = %v, want %v", got, tt.wantSeller)
			}
		})
	}
}
