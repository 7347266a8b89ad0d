package session

import (
	"encoding/json"
	"os"

	"github.com/rvnspnz/artbid/internal/models"
)

// Store persists the canonical user record in a single local file slot.
// The file either holds one serialized user or does not exist.
type Store struct {
	// Path is the location of the session file.
	Path string
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the persisted user. A missing file means no session and is
// not an error.
func (s *Store) Load() (*models.User, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var u models.User
	if err := json.NewDecoder(f).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Save writes the user record, replacing any previous one.
func (s *Store) Save(u *models.User) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(u)
}

// Clear removes the persisted record. Clearing an empty slot is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
