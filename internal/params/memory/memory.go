package memory

import (
	"context"
	"strings"
	"sync"

	"savings/internal/params"
)

// Store keeps saved params in process memory. Contents are lost on restart.
type Store struct {
	mu    sync.Mutex
	items map[string]params.Saved
}

func New() *Store {
	return &Store{items: make(map[string]params.Saved)}
}

// Load returns the record saved for clientID.
func (s *Store) Load(_ context.Context, clientID string) (params.Saved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, ok := s.items[strings.TrimSpace(clientID)]
	if !ok {
		return params.Saved{}, params.ErrNotFound
	}
	return clone(saved), nil
}

// Save replaces the record for clientID.
func (s *Store) Save(_ context.Context, clientID string, saved params.Saved) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[strings.TrimSpace(clientID)] = clone(saved)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// clone copies the optional pointer fields so callers cannot mutate the
// stored record.
func clone(in params.Saved) params.Saved {
	out := in
	if in.Language != nil {
		v := *in.Language
		out.Language = &v
	}
	if in.Currency != nil {
		v := *in.Currency
		out.Currency = &v
	}
	return out
}
