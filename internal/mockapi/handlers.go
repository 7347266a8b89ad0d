// Package mockapi is an in-memory development stand-in for the marketplace
// backend. It serves the same endpoints, envelope, and session-cookie
// behavior the real API exposes, so the client can run and be tested
// without it.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rvnspnz/artbid/internal/models"
)

// UserService defines the account operations required by the HTTP handlers.
type UserService interface {
	// FindByUsername returns the account for a username, or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*Account, error)
	// CreateUser registers a new account, or ErrAlreadyExists.
	CreateUser(ctx context.Context, a *Account) error
}

// ItemService defines the listing operations required by the HTTP handlers.
type ItemService interface {
	List(ctx context.Context) ([]models.Artwork, error)
}

// UserHandler handles HTTP requests for login, registration, the current
// session, and logout.
type UserHandler struct {
	// Users performs the underlying account operations.
	Users UserService
	// Tokens signs and verifies session cookies.
	Tokens *TokenManager
}

// loginRequest represents the JSON payload for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerRequest represents the JSON payload for registration.
type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// userData is the user record shape the backend places in the envelope.
type userData struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func accountData(a *Account) userData {
	return userData{
		ID:        a.ID,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// Login handles POST /api/user/login. On valid credentials it sets the
// session cookie and answers with an affirmative status flag; user data is
// intentionally not included, matching the real backend.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	account, err := h.Users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.Tokens.Generate(account.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, "Successfully logged in.", nil)
}

// Current handles GET /api/user/current. SessionAuth has already resolved
// the username; a vanished account counts as no session.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	username := GetUserFromContext(r.Context())
	account, err := h.Users.FindByUsername(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "No user is currently logged in")
		return
	}
	writeSuccess(w, http.StatusOK, "Current user retrieved successfully.", accountData(account))
}

// Create handles POST /api/user registration requests. It expects a JSON
// body with non-empty username, email, and password; the requested role is
// honored only for CUSTOMER, everything else is rejected.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Role != "" && req.Role != string(models.RoleCustomer) {
		writeError(w, http.StatusBadRequest, "only CUSTOMER signup is allowed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	account := &Account{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         models.RoleCustomer,
		PasswordHash: hash,
	}
	if err := h.Users.CreateUser(r.Context(), account); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save user")
		return
	}
	writeSuccess(w, http.StatusCreated, "User saved successfully.", nil)
}

// Logout handles POST /api/user/logout. It expires the session cookie and
// always succeeds, logged in or not.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// ItemHandler handles HTTP requests for auction listings.
type ItemHandler struct {
	Items ItemService
}

// List handles GET /api/item.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w, http.StatusOK, "Items retrieved successfully.", items)
}
