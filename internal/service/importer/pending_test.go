package importer

import (
	"testing"
	"time"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/service/header"
)

func TestPendingStoreExpires(t *testing.T) {
	now := time.Date(2025, 8, 4, 10, 0, 0, 0, time.UTC)
	store := NewPendingStore(time.Minute)
	store.now = func() time.Time { return now }

	session := store.Open("u", "s", models.Grid{}, header.Result{})
	if _, ok := store.Get(session.ID); !ok {
		t.Fatal("fresh session not found")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(session.ID); ok {
		t.Fatal("expired session still visible")
	}
	if _, ok := store.Take(session.ID); ok {
		t.Fatal("expired session taken")
	}

	store.Open("u", "s", models.Grid{}, header.Result{})
	expired := store.Open("u", "s", models.Grid{}, header.Result{})
	now = now.Add(2 * time.Minute)
	store.Open("u", "s", models.Grid{}, header.Result{})
	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1 after eviction", store.Len())
	}
	if _, ok := store.Get(expired.ID); ok {
		t.Fatal("evicted session visible")
	}
}

func TestPendingStoreDefaultTTL(t *testing.T) {
	if NewPendingStore(0).ttl != DefaultPendingTTL {
		t.Fatal("zero ttl should use the default")
	}
}
