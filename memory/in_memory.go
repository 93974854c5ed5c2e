package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storyloom/storyloom/core"
)

// Compile-time interface compliance check.
var _ core.Memory = (*InMemoryStore)(nil)

// InMemoryStore is a process-local core.Memory. Entries are held in a single
// append-only slice in insertion order, which doubles as the recency order
// the contract requires (oldest first). Query filtering is a linear scan
// with subset marker matching; suitable for tests, demos and small rosters.
// Swap in the redis subpackage store for anything shared or durable.
//
// Concurrency: protected by RWMutex. Ids are uuids, so concurrent writers
// never collide.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []core.Entry
}

// NewInMemoryStore constructs an empty in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Query returns clones of all entries compatible with the filters, scoped to
// the shard when non-empty, in insertion (recency) order.
func (s *InMemoryStore) Query(ctx context.Context, filters []core.MarkerFilter, shard string) ([]core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := core.ValidateFilters(filters); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []core.Entry{}
	for _, e := range s.entries {
		if shard != "" && e.Shard != shard {
			continue
		}
		if !core.MatchesFilters(e, filters) {
			continue
		}
		results = append(results, e.Clone())
	}
	return results, nil
}

// Write appends a new entry, assigning id and timestamps centrally. The
// caller's entry is cloned first, so the argument is never mutated and the
// store never aliases caller memory.
func (s *InMemoryStore) Write(ctx context.Context, entry core.Entry) (core.Entry, error) {
	if err := ctx.Err(); err != nil {
		return core.Entry{}, err
	}

	now := time.Now().UTC()
	e := entry.Clone()
	e.ID = core.NewID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Version == 0 {
		e.Version = 1
	}
	for i := range e.Markers {
		if e.Markers[i].ID == "" {
			e.Markers[i].ID = core.NewID()
		}
		if e.Markers[i].Timestamp.IsZero() {
			e.Markers[i].Timestamp = now
		}
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	return e.Clone(), nil
}

// Len reports the number of stored entries across all shards.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
