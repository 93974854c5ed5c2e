package core

import "time"

// Marker is a typed tag attached to a memory entry, used as a filter key for
// retrieval. Type categorizes the content (e.g. "scene", "character",
// "task_result"); Value narrows it (e.g. a character name or task type).
type Marker struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	AgentID   string    `json:"agent_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version,omitempty"`
}

// MarkerFilter is a partial marker used to select entries on retrieval. Only
// the fields that are set participate in matching; the zero filter matches
// every marker.
type MarkerFilter struct {
	Type    string `json:"type,omitempty"`
	Value   string `json:"value,omitempty"`
	AgentID string `json:"agent_id,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f MarkerFilter) IsZero() bool {
	return f.Type == "" && f.Value == "" && f.AgentID == ""
}

// Matches reports whether the marker satisfies the filter. Every set filter
// field must equal the corresponding marker field.
func (f MarkerFilter) Matches(m Marker) bool {
	if f.Type != "" && f.Type != m.Type {
		return false
	}
	if f.Value != "" && f.Value != m.Value {
		return false
	}
	if f.AgentID != "" && f.AgentID != m.AgentID {
		return false
	}
	return true
}

// MatchesFilters reports whether the entry is compatible with all supplied
// filters: each filter must be satisfied by at least one of the entry's
// markers (subset match). An empty or nil filter list matches every entry.
func MatchesFilters(e Entry, filters []MarkerFilter) bool {
	for _, f := range filters {
		if f.IsZero() {
			continue
		}
		matched := false
		for _, m := range e.Markers {
			if f.Matches(m) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// ValidateFilters rejects malformed filter lists before they reach a backend.
// A filter that sets Value without Type is ambiguous (values are only
// meaningful within a marker type) and yields ErrInvalidFilter. Empty filters
// are always valid.
func ValidateFilters(filters []MarkerFilter) error {
	for _, f := range filters {
		if f.Value != "" && f.Type == "" {
			return ErrInvalidFilter
		}
	}
	return nil
}
