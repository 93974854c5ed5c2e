package manuscript

import (
	"context"
	"sync"
	"time"

	"github.com/storyloom/storyloom/core"
)

// Compile-time interface compliance check.
var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a trivial in-process Store implementation useful for
// tests, examples and single-process prototypes. It keeps all drafts in a
// nested map guarded by an RWMutex. Drafts are value types, so storage and
// retrieval copy naturally.
//
// Layout: shard -> draftID -> Draft
//
// This implementation does not enforce retention limits or eviction. For
// production, prefer a durable implementation that survives process restarts.
type InMemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]map[string]Draft
}

// NewInMemoryStore returns an empty in-memory draft store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{drafts: make(map[string]map[string]Draft)}
}

// Save stores the draft, assigning an id and creation time when unset, and
// returns the stored value.
func (s *InMemoryStore) Save(ctx context.Context, draft Draft) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	if draft.ID == "" {
		draft.ID = core.NewID()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draft.Shard]; !ok {
		s.drafts[draft.Shard] = make(map[string]Draft)
	}
	s.drafts[draft.Shard][draft.ID] = draft
	return draft, nil
}

// Get returns the stored draft or ErrNotFound.
func (s *InMemoryStore) Get(ctx context.Context, shard, draftID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.drafts[shard]
	if !ok {
		return Draft{}, ErrNotFound
	}
	draft, ok := m[draftID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

// List returns the draft ids stored for the shard. The slice is a snapshot
// and safe for caller mutation.
func (s *InMemoryStore) List(ctx context.Context, shard string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.drafts[shard]
	if !ok {
		return []string{}, nil
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the draft if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(ctx context.Context, shard, draftID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.drafts[shard]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[draftID]; !ok {
		return ErrNotFound
	}
	delete(m, draftID)
	return nil
}
