package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/familyfit/familyfit/pkg/domain"
)

const (
	tokenFile   = "token"
	profileFile = "profile.json"
)

// FileStore persists the session under a state directory
// (~/.familyfit by default): the token in "token" (0600) and the cached
// profile in "profile.json".
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns ~/.familyfit.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".familyfit"), nil
}

// Token returns the stored token, or "" when none is stored or it can't be read.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("session.SetToken: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("session.SetToken: %w", err)
	}
	return nil
}

// Profile returns the cached profile, or nil if none is stored.
func (s *FileStore) Profile() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session.Profile: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("session.Profile: decode: %w", err)
	}
	return &u, nil
}

func (s *FileStore) SetProfile(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(s.dir, profileFile)
	if u == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("session.SetProfile: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session.SetProfile: encode: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("session.SetProfile: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("session.SetProfile: %w", err)
	}
	return nil
}

// Clear removes both files. Missing files are not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, name := range []string{tokenFile, profileFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("session.Clear: %w", errors.Join(errs...))
	}
	return nil
}

// EnvStore overlays a fixed token (from FAMILYFIT_TOKEN) on top of another
// Store. Clear drops the override as well as clearing the underlying store.
type EnvStore struct {
	Store
	mu    sync.Mutex
	token string
}

// WithTokenOverride returns base unchanged when token is empty.
func WithTokenOverride(base Store, token string) Store {
	if token == "" {
		return base
	}
	return &EnvStore{Store: base, token: token}
}

func (s *EnvStore) Token() string {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()
	if tok != "" {
		return tok
	}
	return s.Store.Token()
}

func (s *EnvStore) SetToken(token string) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.Store.SetToken(token)
}

func (s *EnvStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.Store.Clear()
}
