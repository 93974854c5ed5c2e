package core

import "context"

// Memory defines persistence + retrieval for tagged memory entries.
// Implementations can back storage with anything from a process-local slice
// to Redis; they must preserve stable recency ordering (oldest first) so
// callers can truncate to a context window by keeping the tail.
type Memory interface {
	// Query returns copies of the entries compatible with the supplied
	// partial marker filters, scoped to the given shard when non-empty.
	// It is side-effect free; an empty filter list selects everything.
	// Backend failures surface as errors wrapping ErrMemoryUnavailable,
	// malformed filters as ErrInvalidFilter — never as an empty result.
	Query(ctx context.Context, filters []MarkerFilter, shard string) ([]Entry, error)

	// Write persists a new entry, assigning a fresh id and creation
	// timestamp centrally. Caller-supplied ID/CreatedAt/UpdatedAt are
	// ignored; the argument is never mutated. The stored entry (including
	// assigned fields) is returned.
	Write(ctx context.Context, entry Entry) (Entry, error)
}
