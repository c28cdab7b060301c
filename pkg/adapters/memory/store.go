// Package memory provides an in-process ResultStore, the default when no
// external persistence is configured.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sieve/pkg/ports"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]ports.StoredResult
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]ports.StoredResult),
	}
}

// Save persists the result in memory. The document bytes are copied so the
// caller cannot mutate stored state afterwards.
func (s *Store) Save(ctx context.Context, result ports.StoredResult) error {
	stored := result
	stored.Document = append([]byte(nil), result.Document...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.RunID] = stored
	return nil
}

// Load retrieves a result by run ID. The returned document is a copy.
func (s *Store) Load(ctx context.Context, runID string) (ports.StoredResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.data[runID]
	if !ok {
		return ports.StoredResult{}, ports.ErrResultNotFound
	}

	stored.Document = append([]byte(nil), stored.Document...)
	return stored, nil
}

// List returns the stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
