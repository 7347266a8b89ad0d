package mockapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rvnspnz/artbid/internal/api"
	"github.com/rvnspnz/artbid/internal/models"
)

// The full client round trip: login sets the session cookie, the cookie jar
// carries it to the current-user endpoint, logout invalidates it.
func TestClientFlow(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	router := NewRouter(
		&UserHandler{Users: NewUserStore(), Tokens: tokens},
		&ItemHandler{Items: NewItemStore()},
		zap.NewNop(),
	)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	ctx := context.Background()

	// No session yet.
	if _, err := client.CurrentUser(ctx); !errors.Is(err, api.ErrNoSession) {
		t.Fatalf("expected ErrNoSession before login, got %v", err)
	}

	ok, err := client.Login(ctx, "admin", "password123")
	if err != nil || !ok {
		t.Fatalf("login failed: ok=%v err=%v", ok, err)
	}

	u, err := client.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser after login failed: %v", err)
	}
	if u.Username != "admin" || u.Role != models.RoleAdmin {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.Name != "Ada Price" {
		t.Errorf("expected composed display name, got %q", u.Name)
	}

	items, err := client.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) == 0 {
		t.Error("expected seeded listings")
	}

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := client.CurrentUser(ctx); !errors.Is(err, api.ErrNoSession) {
		t.Errorf("expected ErrNoSession after logout, got %v", err)
	}
}

// Signing up then logging in with the new account.
func TestClientFlow_Signup(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	router := NewRouter(
		&UserHandler{Users: NewUserStore(), Tokens: tokens},
		&ItemHandler{Items: NewItemStore()},
		zap.NewNop(),
	)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New failed: %v", err)
	}
	ctx := context.Background()

	reg := api.RegisterRequest{
		Username: "newbie", FirstName: "New", LastName: "Bee",
		Email: "new@x.test", Password: "hunter2", Role: "CUSTOMER",
	}
	if err := client.Register(ctx, reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := client.Register(ctx, reg); !errors.Is(err, api.ErrRejected) {
		t.Errorf("expected duplicate registration to be rejected, got %v", err)
	}

	ok, err := client.Login(ctx, "newbie", "hunter2")
	if err != nil || !ok {
		t.Fatalf("login with new account failed: ok=%v err=%v", ok, err)
	}
	u, err := client.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if u.Role != models.RoleCustomer || u.Name != "New Bee" {
		t.Errorf("unexpected user: %+v", u)
	}
}
