package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/storyloom/storyloom/core"
)

// Interface compliance (compile-time assertion)
var _ core.Memory = (*InMemoryStore)(nil)

func TestInMemoryStore_WriteAssignsIdentity(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	in := core.Entry{
		ID:      "caller-id-must-be-ignored",
		Content: "Mira crosses the ridge at dusk.",
		Markers: []core.Marker{{Type: "scene", Value: "ridge"}},
	}
	out, err := store.Write(ctx, in)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if out.ID == "" || out.ID == "caller-id-must-be-ignored" {
		t.Fatalf("expected generated id, got %q", out.ID)
	}
	if out.CreatedAt.IsZero() || out.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps assigned")
	}
	if out.Markers[0].ID == "" || out.Markers[0].Timestamp.IsZero() {
		t.Fatal("expected marker id and timestamp assigned")
	}
	// Caller data untouched.
	if in.Markers[0].ID != "" {
		t.Fatal("write mutated caller-supplied markers")
	}
}

func TestInMemoryStore_EmptyFilterReturnsAll(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	res, err := store.Query(ctx, nil, "")
	if err != nil {
		t.Fatalf("empty query must not fail: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected empty result on empty store, got %d", len(res))
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Write(ctx, core.Entry{Content: fmt.Sprintf("entry %d", i)}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	res, err = store.Query(ctx, nil, "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected all 3 entries, got %d", len(res))
	}
	// Insertion order is the recency order.
	if res[0].Content != "entry 0" || res[2].Content != "entry 2" {
		t.Fatalf("unexpected ordering: %q .. %q", res[0].Content, res[2].Content)
	}
}

func TestInMemoryStore_RoundTripByMarkers(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	written, err := store.Write(ctx, core.Entry{
		Content: "The lighthouse keeper's secret.",
		Markers: []core.Marker{
			{Type: "scene", Value: "lighthouse"},
			{Type: "character", Value: "keeper"},
		},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	res, err := store.Query(ctx, []core.MarkerFilter{
		{Type: "scene", Value: "lighthouse"},
		{Type: "character", Value: "keeper"},
	}, "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(res) != 1 || res[0].ID != written.ID {
		t.Fatalf("expected round-trip hit, got %#v", res)
	}
}

func TestInMemoryStore_ShardScoping(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	for _, shard := range []string{"project-1", "project-1", "project-2", ""} {
		if _, err := store.Write(ctx, core.Entry{Content: "c", Shard: shard}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	res, _ := store.Query(ctx, nil, "project-1")
	if len(res) != 2 {
		t.Fatalf("expected 2 entries in project-1, got %d", len(res))
	}
	// Empty shard is unscoped and sees everything.
	res, _ = store.Query(ctx, nil, "")
	if len(res) != 4 {
		t.Fatalf("expected 4 entries unscoped, got %d", len(res))
	}
}

func TestInMemoryStore_InvalidFilter(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Query(context.Background(), []core.MarkerFilter{{Value: "orphaned"}}, "")
	if !errors.Is(err, core.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestInMemoryStore_ResultIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if _, err := store.Write(ctx, core.Entry{
		Content: "original",
		Markers: []core.Marker{{Type: "scene", Value: "v"}},
	}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	res, _ := store.Query(ctx, nil, "")
	res[0].Content = "tampered"
	res[0].Markers[0].Value = "tampered"

	res2, _ := store.Query(ctx, nil, "")
	if res2[0].Content != "original" || res2[0].Markers[0].Value != "v" {
		t.Fatal("query results alias internal state")
	}
}

func TestInMemoryStore_ConcurrentWrites(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Write(ctx, core.Entry{Content: "concurrent"})
		}()
	}
	wg.Wait()

	res, err := store.Query(ctx, nil, "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(res) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(res))
	}
	seen := map[string]bool{}
	for _, e := range res {
		if seen[e.ID] {
			t.Fatalf("duplicate id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
