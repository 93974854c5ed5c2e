package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeMemory records calls so tests can assert scoping and stamping.
type fakeMemory struct {
	queryShard   string
	queryFilters []MarkerFilter
	written      []Entry
	entries      []Entry
	failWith     error
}

func (f *fakeMemory) Query(_ context.Context, filters []MarkerFilter, shard string) ([]Entry, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.queryShard = shard
	f.queryFilters = filters
	return f.entries, nil
}

func (f *fakeMemory) Write(_ context.Context, e Entry) (Entry, error) {
	if f.failWith != nil {
		return Entry{}, f.failWith
	}
	e.ID = NewID()
	e.CreatedAt = time.Now()
	f.written = append(f.written, e)
	return e, nil
}

func newTestTaskContext(mem Memory) *TaskContext {
	cfg := AgentConfig{ID: "writer-1", Name: "writer", Shard: "project-7", ContextWindow: 3}
	return NewTaskContext(context.Background(), NewID(), Task{ID: "t1", Type: "draft_scene"}, cfg, mem, nil)
}

func TestTaskContext_QueryMemoryScopesShard(t *testing.T) {
	mem := &fakeMemory{}
	tc := newTestTaskContext(mem)

	if _, err := tc.QueryMemory([]MarkerFilter{{Type: "scene"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.queryShard != "project-7" {
		t.Fatalf("expected query scoped to agent shard, got %q", mem.queryShard)
	}
}

func TestTaskContext_QueryMemoryValidatesFilters(t *testing.T) {
	tc := newTestTaskContext(&fakeMemory{})
	_, err := tc.QueryMemory([]MarkerFilter{{Value: "opening"}})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestTaskContext_WriteMemoryStampsOwnership(t *testing.T) {
	mem := &fakeMemory{}
	tc := newTestTaskContext(mem)

	in := Entry{Content: "draft", Markers: []Marker{
		{Type: "scene"},
		{Type: "character", AgentID: "architect-1"},
	}}
	out, err := tc.WriteMemory(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Shard != "project-7" {
		t.Fatalf("expected shard stamped, got %q", out.Shard)
	}
	if out.Markers[0].AgentID != "writer-1" {
		t.Fatalf("expected ownerless marker stamped with agent id, got %q", out.Markers[0].AgentID)
	}
	if out.Markers[1].AgentID != "architect-1" {
		t.Fatal("pre-owned marker must keep its agent id")
	}
	// Caller-supplied entry must not be mutated.
	if in.Shard != "" || in.Markers[0].AgentID != "" {
		t.Fatal("WriteMemory mutated its argument")
	}
}

func TestTaskContext_NilMemory(t *testing.T) {
	tc := NewTaskContext(context.Background(), NewID(), Task{}, AgentConfig{}, nil, nil)
	if _, err := tc.QueryMemory(nil); !errors.Is(err, ErrMemoryUnavailable) {
		t.Fatalf("expected ErrMemoryUnavailable, got %v", err)
	}
	if _, err := tc.WriteMemory(Entry{}); !errors.Is(err, ErrMemoryUnavailable) {
		t.Fatalf("expected ErrMemoryUnavailable, got %v", err)
	}
}
