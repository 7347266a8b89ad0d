// Package api implements the HTTP client for the marketplace backend.
// All requests are credentialed: the client carries a cookie jar so the
// backend session cookie set at login rides along on every call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rvnspnz/artbid/internal/models"
)

const (
	pathCurrentUser = "/api/user/current"
	pathLogin       = "/api/user/login"
	pathRegister    = "/api/user"
	pathLogout      = "/api/user/logout"
	pathItems       = "/api/item"
)

// ErrNoSession is returned by CurrentUser when the backend answers with a
// non-OK status or an empty payload: the server says the session is gone.
// A transport-level failure is returned as-is and must not be conflated
// with this sentinel.
var ErrNoSession = errors.New("no active session")

// ErrRejected is returned when the backend explicitly refuses a write
// (login, registration) with a non-OK status.
var ErrRejected = errors.New("request rejected by server")

// Client talks to the marketplace API.
type Client struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient performs the requests; it owns the session cookie jar.
	HTTPClient *http.Client
}

// New constructs a Client with a fresh cookie jar.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Status     bool            `json:"status"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// userPayload is the backend's raw user record. The id is kept raw because
// the backend serializes it as a number while the canonical shape is a string.
type userPayload struct {
	ID        json.RawMessage `json:"id"`
	Username  string          `json:"username"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	CreatedAt string          `json:"createdAt"`
}

// canonical maps the raw backend record into the canonical user shape,
// composing the display name from first and last name when present.
func (p userPayload) canonical() *models.User {
	name := p.Username
	if p.FirstName != "" {
		name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	return &models.User{
		ID:        rawString(p.ID),
		Username:  p.Username,
		Name:      name,
		Email:     p.Email,
		Role:      models.Role(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

// rawString renders a raw JSON scalar as its string value.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	var unquoted string
	if json.Unmarshal(raw, &unquoted) == nil {
		return unquoted
	}
	return s
}

// CurrentUser fetches the authoritative session record. It returns
// ErrNoSession when the backend rejects the session or sends no user data;
// transport failures are returned unchanged.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+pathCurrentUser, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoSession
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, ErrNoSession
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, ErrNoSession
	}
	var payload userPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, ErrNoSession
	}
	return payload.canonical(), nil
}

// Login posts credentials. It returns true only when the backend responds
// OK with an affirmative status flag. A non-OK response is (false, nil);
// a transport failure is returned as an error.
func (c *Client) Login(ctx context.Context, username, password string) (bool, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := c.post(ctx, pathLogin, body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, nil
	}
	return env.Status, nil
}

// RegisterRequest carries the registration fields for Register.
type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Register creates an account. A non-OK response yields ErrRejected.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) error {
	body, _ := json.Marshal(reg)
	resp, err := c.post(ctx, pathRegister, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

// Logout invalidates the server-side session. The caller treats failures
// as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, pathLogout, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

// Items fetches the auction listings.
func (c *Client) Items(ctx context.Context) ([]models.Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+pathItems, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	var items []models.Artwork
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTPClient.Do(req)
}
