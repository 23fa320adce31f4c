package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionData is the persisted form of a session.
type SessionData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user"`
}

type SessionStore interface {
	Load() (*SessionData, error)
	Save(SessionData) error
	Clear() error
}

// Session is the single source of truth for who is logged in. It is
// created once and handed to everything that needs it.
type Session struct {
	mu    sync.RWMutex
	store SessionStore
	data  SessionData
	caps  Capabilities
}

// NewSession restores whatever store holds. A nil store keeps the
// session in memory only.
func NewSession(store SessionStore) (*Session, error) {
	if store == nil {
		store = &MemoryStore{}
	}
	s := &Session{store: store}
	d, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if d != nil {
		s.data = *d
		s.caps = capsOf(d.User)
	}
	return s, nil
}

func capsOf(u *User) Capabilities {
	if u == nil {
		return Capabilities{}
	}
	return CapabilitiesFor(u.Role, u.ApprovalStatus)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.RefreshToken
}

// User returns a copy of the cached user, or nil when logged out.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.User == nil {
		return nil
	}
	u := *s.data.User
	return &u
}

func (s *Session) Capabilities() Capabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caps
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Set replaces the session and persists it.
func (s *Session) Set(d SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(d); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.data = d
	s.caps = capsOf(d.User)
	return nil
}

// UpdateUser refreshes the cached user without touching the tokens.
func (s *Session) UpdateUser(u *User) error {
	s.mu.Lock()
	d := s.data
	s.mu.Unlock()
	d.User = u
	return s.Set(d)
}

// Logout drops the session locally and clears the store.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = SessionData{}
	s.caps = Capabilities{}
	return s.store.Clear()
}

type MemoryStore struct {
	mu   sync.Mutex
	data *SessionData
}

func (m *MemoryStore) Load() (*SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	d := *m.data
	return &d, nil
}

func (m *MemoryStore) Save(d SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = &d
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// FileStore keeps the session as a JSON file readable only by the owner.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (*SessionData, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d SessionData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return &d, nil
}

func (f FileStore) Save(d SessionData) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
