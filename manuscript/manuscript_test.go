package manuscript

import (
	"context"
	"fmt"
	"testing"

	"github.com/storyloom/storyloom/core"
	"github.com/storyloom/storyloom/memory"
)

func TestCompile_JoinsEntriesInOrder(t *testing.T) {
	mem := memory.NewInMemoryStore()
	for i := 0; i < 3; i++ {
		_, err := mem.Write(context.Background(), core.Entry{
			Content: fmt.Sprintf("scene %d", i),
			Shard:   "novel-1",
			Markers: []core.Marker{{Type: "scene"}},
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// A note in the same shard that the scene filter must skip.
	if _, err := mem.Write(context.Background(), core.Entry{
		Content: "remember the tide tables",
		Shard:   "novel-1",
		Markers: []core.Marker{{Type: "note"}},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	draft, err := Compile(context.Background(), mem, "novel-1", "Act One",
		[]core.MarkerFilter{{Type: "scene"}})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := "scene 0\n\nscene 1\n\nscene 2"
	if draft.Body != want {
		t.Errorf("body = %q, want %q", draft.Body, want)
	}
	if len(draft.SourceIDs) != 3 {
		t.Errorf("source ids = %d, want 3", len(draft.SourceIDs))
	}
	if draft.Title != "Act One" || draft.Shard != "novel-1" {
		t.Errorf("unexpected identity: %+v", draft)
	}
}

func TestCompile_InvalidFilter(t *testing.T) {
	mem := memory.NewInMemoryStore()
	_, err := Compile(context.Background(), mem, "novel-1", "Act One",
		[]core.MarkerFilter{{Value: "orphaned"}})
	if err == nil {
		t.Fatal("expected error for value-only filter")
	}
}

func TestInMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	saved, err := store.Save(ctx, Draft{Shard: "novel-1", Title: "Act One", Body: "text"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("save did not assign identity: %+v", saved)
	}

	got, err := store.Get(ctx, "novel-1", saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Body != "text" {
		t.Errorf("body = %q", got.Body)
	}

	ids, err := store.List(ctx, "novel-1")
	if err != nil || len(ids) != 1 {
		t.Fatalf("list = %v, %v", ids, err)
	}

	if err := store.Delete(ctx, "novel-1", saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "novel-1", saved.ID); err != ErrNotFound {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "novel-1", saved.ID); err != ErrNotFound {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_ShardIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if _, err := store.Save(ctx, Draft{Shard: "a", Title: "x"}); err != nil {
		t.Fatal(err)
	}
	ids, err := store.List(ctx, "b")
	if err != nil || len(ids) != 0 {
		t.Fatalf("list other shard = %v, %v", ids, err)
	}
}
