package manuscript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storyloom/storyloom/core"
)

var (
	// ErrNotFound is returned when a draft for the given shard / id pair does
	// not exist in the underlying store.
	ErrNotFound = fmt.Errorf("draft not found")
)

// Draft is a compiled document: the ordered contents of selected memory
// entries joined into one body, with provenance back to the source entries.
type Draft struct {
	ID        string    `json:"id"`
	Shard     string    `json:"shard"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SourceIDs []string  `json:"source_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists drafts keyed by shard and draft id. Implementations must be
// safe for concurrent use.
type Store interface {
	Save(ctx context.Context, draft Draft) (Draft, error)
	Get(ctx context.Context, shard, draftID string) (Draft, error)
	List(ctx context.Context, shard string) ([]string, error)
	Delete(ctx context.Context, shard, draftID string) error
}

// Compile queries mem for the shard's entries matching filters, joins their
// contents in recency order (oldest first) and returns the resulting draft.
// The draft is not persisted; pass it to a Store to keep it.
func Compile(ctx context.Context, mem core.Memory, shard, title string, filters []core.MarkerFilter) (Draft, error) {
	entries, err := mem.Query(ctx, filters, shard)
	if err != nil {
		return Draft{}, fmt.Errorf("compile %q: %w", title, err)
	}

	var b strings.Builder
	sources := make([]string, 0, len(entries))
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(e.Content)
		sources = append(sources, e.ID)
	}

	return Draft{
		Shard:     shard,
		Title:     title,
		Body:      b.String(),
		SourceIDs: sources,
	}, nil
}
