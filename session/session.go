package session

import (
	"fmt"
	"strings"
	"sync"
)

// Store persists the raw bearer token under a single key.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// Session is the process-wide holder of the bearer token. It is loaded once
// from its Store and written through on every change.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

func New(store Store) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{store: store, token: strings.TrimSpace(token)}, nil
}

func (s *Session) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.CurrentToken() != ""
}

func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("set session: empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.token = token
	return nil
}

func (s *Session) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Delete(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
