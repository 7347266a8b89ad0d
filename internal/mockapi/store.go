package mockapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rvnspnz/artbid/internal/models"
)

// ErrAlreadyExists is returned when a username or email is taken.
var ErrAlreadyExists = errors.New("user already exists")

// ErrNotFound is returned when no account matches.
var ErrNotFound = errors.New("user not found")

// Account is a stored marketplace account, the stub's equivalent of the
// backend's user entity.
type Account struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Role         models.Role
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserStore keeps accounts in memory, keyed by username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*Account
}

// NewUserStore returns a store seeded with the demo accounts
// (admin, seller, customer — password "password123").
func NewUserStore() *UserStore {
	s := &UserStore{users: make(map[string]*Account)}
	for _, seed := range []struct {
		username string
		name     [2]string
		email    string
		role     models.Role
	}{
		{"admin", [2]string{"Ada", "Price"}, "admin@artbid.test", models.RoleAdmin},
		{"seller", [2]string{"Sol", "Mercado"}, "seller@artbid.test", models.RoleSeller},
		{"customer", [2]string{"Cas", "Bidwell"}, "customer@artbid.test", models.RoleCustomer},
	} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		s.users[seed.username] = &Account{
			ID:           uuid.NewString(),
			Username:     seed.username,
			FirstName:    seed.name[0],
			LastName:     seed.name[1],
			Email:        seed.email,
			Role:         seed.role,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
	}
	return s
}

// FindByUsername looks an account up by username.
func (s *UserStore) FindByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// CreateUser registers a new account. Username and email must be free.
func (s *UserStore) CreateUser(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[a.Username]; ok {
		return ErrAlreadyExists
	}
	for _, u := range s.users {
		if u.Email == a.Email {
			return ErrAlreadyExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.users[a.Username] = a
	return nil
}

// ItemStore serves the seeded auction listings.
type ItemStore struct {
	mu    sync.RWMutex
	items []models.Artwork
}

// NewItemStore returns a store seeded with the gallery's demo artworks.
func NewItemStore() *ItemStore {
	ends := time.Now().UTC().Add(72 * time.Hour)
	seeds := []struct {
		title, artist, kind string
		starting, current   float64
	}{
		{"Ethereal Harmony", "Elena Riviera", "painting", 1200, 1850},
		{"Bronze Tide", "Marcus Chen", "sculpture", 3400, 3400},
		{"Woven Horizons", "Amara Okafor", "handicraft", 450, 610},
		{"Stillness at Dawn", "Yuki Tanaka", "photography", 800, 975},
		{"Fragmented Memory", "Elena Riviera", "digital", 600, 720},
		{"The Gilded Hour", "Henrik Olsen", "painting", 2100, 2950},
		{"Clay Constellations", "Amara Okafor", "sculpture", 1500, 1500},
		{"Neon Reverie", "Dmitri Volkov", "digital", 350, 525},
		{"Salt and Stone", "Yuki Tanaka", "photography", 950, 1100},
		{"Whispering Loom", "Ingrid Halvorsen", "handicraft", 275, 430},
		{"Crimson Undertow", "Marcus Chen", "painting", 1800, 2400},
		{"Glass Meridian", "Dmitri Volkov", "sculpture", 2700, 3150},
	}
	items := make([]models.Artwork, 0, len(seeds))
	for i, a := range seeds {
		items = append(items, models.Artwork{
			ID:          uuid.NewString(),
			Title:       a.title,
			Artist:      a.artist,
			Type:        a.kind,
			StartingBid: a.starting,
			CurrentBid:  a.current,
			AuctionEnds: ends.Add(time.Duration(i) * 6 * time.Hour),
		})
	}
	return &ItemStore{items: items}
}

// List returns all listings.
func (s *ItemStore) List(_ context.Context) ([]models.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Artwork, len(s.items))
	copy(out, s.items)
	return out, nil
}
