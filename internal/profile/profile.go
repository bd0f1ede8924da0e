// Package profile keeps the details of a returning user so the next
// create-account session can be prefilled. Profiles live in an encrypted
// zstore collection.
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/zenroll/internal/account"
)

const (
	collectionName = "profiles"
	currentKey     = "current"
)

var (
	// ErrNotFound is returned when no profile has been saved.
	ErrNotFound = errors.New("profile not found")

	// ErrWrongPassword is returned by Open when the password does not unlock
	// the store.
	ErrWrongPassword = zstore.ErrWrongPassword
)

// Profile is what zenroll remembers between sessions. Terms acceptance is
// never stored.
type Profile struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth time.Time `json:"date_of_birth"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prefill converts the profile into form prefill data.
func (p Profile) Prefill() *account.Prefill {
	return &account.Prefill{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		DateOfBirth: p.DateOfBirth,
	}
}

// Merge overlays non-empty values from over onto saved. Neither argument is
// modified.
func Merge(saved *account.Prefill, over account.Prefill) *account.Prefill {
	out := account.Prefill{}
	if saved != nil {
		out = *saved
	}
	if over.FirstName != "" {
		out.FirstName = over.FirstName
	}
	if over.LastName != "" {
		out.LastName = over.LastName
	}
	if over.Email != "" {
		out.Email = over.Email
	}
	if !over.DateOfBirth.IsZero() {
		out.DateOfBirth = over.DateOfBirth
	}
	return &out
}

// FromRecord builds a profile from a submitted record. An unparseable date
// of birth is dropped rather than failing the save.
func FromRecord(r account.Record, now time.Time) Profile {
	p := Profile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.PhoneNumber,
		UpdatedAt: now.UTC(),
	}
	if dob, err := time.Parse(account.DOBLayout, r.DateOfBirth); err == nil {
		p.DateOfBirth = dob
	}
	return p
}

// Store reads and writes the saved profile.
type Store struct {
	store *zstore.Store
	col   *zstore.Collection[Profile]
}

// Open opens or initializes the encrypted profile store in dir.
func Open(dir string, password []byte) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("open profiles: create data dir: %w", err)
	}

	fsys := zfilesystem.NewOSFileSystem(dir)
	s, err := zstore.Open(fsys, password)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}

	col, err := zstore.NewCollection[Profile](s, collectionName)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open profiles: collection: %w", err)
	}

	return &Store{store: s, col: col}, nil
}

// Remove erases the profile store in dir without unlocking it. It is the
// way out when the password is lost. Removing a missing store is not an error.
func Remove(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove profiles: %w", err)
	}
	return nil
}

// Load returns the saved profile, or ErrNotFound.
func (s *Store) Load() (Profile, error) {
	all, err := s.col.List()
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if len(all) == 0 {
		return Profile{}, ErrNotFound
	}

	p, err := s.col.Get(currentKey)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Save replaces the saved profile.
func (s *Store) Save(p Profile) error {
	if err := s.col.Put(currentKey, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Forget deletes the saved profile. Forgetting nothing is not an error.
func (s *Store) Forget() error {
	if _, err := s.Load(); errors.Is(err, ErrNotFound) {
		return nil
	}
	if err := s.col.Delete(currentKey); err != nil {
		return fmt.Errorf("forget profile: %w", err)
	}
	return nil
}

// Close erases key material. Call once the session ends.
func (s *Store) Close() {
	if s.store != nil {
		s.store.Close()
	}
}
