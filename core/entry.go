package core

import "time"

// Entry is a unit of stored memory content. Entries are append-mostly; the
// Memory service assigns ID and timestamps centrally on write, so callers
// never fabricate them.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Markers   []Marker  `json:"markers"`
	Shard     string    `json:"shard,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version,omitempty"`
}

// Clone returns a deep copy of the entry (markers included) so stores can
// hand out results without exposing internal state.
func (e Entry) Clone() Entry {
	c := e
	if e.Markers != nil {
		c.Markers = make([]Marker, len(e.Markers))
		copy(c.Markers, e.Markers)
	}
	return c
}

// TruncateWindow bounds a recency-ordered entry slice (oldest first) to the
// given context window, keeping the most recent entries. A window of zero or
// less yields an empty slice. The input is never mutated.
func TruncateWindow(entries []Entry, window int) []Entry {
	if window <= 0 {
		return []Entry{}
	}
	if len(entries) <= window {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}
	out := make([]Entry, window)
	copy(out, entries[len(entries)-window:])
	return out
}
