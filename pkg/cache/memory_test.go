package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSaveLoad(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	type blob struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	if err := ms.SaveJSON(ctx, "snap", blob{Name: "XLK", Value: 0.21}); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	var got blob
	found, err := ms.LoadJSON(ctx, "snap", &got)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if !found {
		t.Fatal("expected snapshot to be found")
	}
	if got.Name != "XLK" || got.Value != 0.21 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	ms := NewMemoryStore()

	var dest map[string]any
	found, err := ms.LoadJSON(context.Background(), "absent", &dest)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if found {
		t.Fatal("expected miss for absent key")
	}
}

func TestMemoryStoreFresh(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if ms.Fresh(ctx, "snap", time.Hour) {
		t.Fatal("absent key should not be fresh")
	}

	if err := ms.SaveJSON(ctx, "snap", 42); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	if !ms.Fresh(ctx, "snap", time.Hour) {
		t.Fatal("just-saved key should be fresh")
	}
	if ms.Fresh(ctx, "snap", 0) {
		t.Fatal("zero max age should never be fresh")
	}
}

func TestMemoryStoreEviction(t *testing.T) {
	ms := NewMemoryStore(WithMemoryMaxSize(2))
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := ms.SaveJSON(ctx, key, key); err != nil {
			t.Fatalf("SaveJSON(%s): %v", key, err)
		}
	}

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		var dest string
		found, _ := ms.LoadJSON(ctx, key, &dest)
		if found {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 surviving entries after eviction, got %d", count)
	}
}
