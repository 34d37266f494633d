// Package session holds the session credential shared by the API client and
// the router guard.
package session

import (
	"sync"

	"github.com/familyfit/familyfit/pkg/domain"
)

// Store is the session context passed to the client and the guard.
// A non-empty Token is the only signal of a logged-in session.
type Store interface {
	Token() string
	SetToken(token string) error
	Profile() (*domain.User, error)
	SetProfile(u *domain.User) error
	// Clear removes the token and the profile together.
	Clear() error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	token   string
	profile *domain.User
	clears  int
}

// NewMemoryStore returns a MemoryStore seeded with token (may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Profile() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, nil
	}
	u := *s.profile
	return &u, nil
}

func (s *MemoryStore) SetProfile(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.profile = nil
		return nil
	}
	cp := *u
	s.profile = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
	s.clears++
	return nil
}

// Clears reports how many times Clear has been called.
func (s *MemoryStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
