package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store implements ports.NameReserver and ports.OutputWriter in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	reserved map[string]bool
	files    map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		reserved: make(map[string]bool),
		files:    make(map[string][]byte),
	}
}

// Seed marks names as already written, as if left by an earlier run.
func (s *Store) Seed(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.files[n] = nil
	}
}

// Reserve claims name unless it is reserved or written.
func (s *Store) Reserve(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[name] {
		return false, nil
	}
	if _, exists := s.files[name]; exists {
		return false, nil
	}
	s.reserved[name] = true
	return true, nil
}

// Release drops an unwritten reservation.
func (s *Store) Release(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, name)
	return nil
}

// Write stores a copy of data under name.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	buf := append([]byte(nil), data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reserved, name)
	s.files[name] = buf
	return nil
}

// Read returns a copy of a written document.
func (s *Store) Read(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Reserved reports whether name is held by an unwritten reservation.
func (s *Store) Reserved(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reserved[name]
}

// List returns written names in lexical order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names) // Deterministic order
	return names
}
