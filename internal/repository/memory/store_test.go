package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/repository"
)

func TestUpsertLedgerOverwrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	rec := models.LedgerRecord{Key: "2025-08-04_w1", Date: "2025-08-04", WorkerID: "w1", RawInputKg: 10}

	created, err := store.UpsertLedger(ctx, rec)
	if err != nil || !created {
		t.Fatalf("first upsert = %v, %v", created, err)
	}
	rec.RawInputKg = 12
	created, err = store.UpsertLedger(ctx, rec)
	if err != nil || created {
		t.Fatalf("second upsert = %v, %v", created, err)
	}

	got, err := store.GetLedger(ctx, rec.Key)
	if err != nil || got.RawInputKg != 12 {
		t.Fatalf("GetLedger = %+v, %v", got, err)
	}
}

func TestLedgerNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if _, err := store.GetLedger(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetLedger err = %v", err)
	}
	if err := store.DeleteLedger(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("DeleteLedger err = %v", err)
	}
}

func TestListLedgerRange(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, rec := range []models.LedgerRecord{
		{Key: "2025-08-31_w1", Date: "2025-08-31"},
		{Key: "2025-07-31_w1", Date: "2025-07-31"},
		{Key: "2025-08-01_w2", Date: "2025-08-01"},
		{Key: "2025-08-01_w1", Date: "2025-08-01"},
	} {
		if _, err := store.UpsertLedger(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListLedger(ctx, "2025-08-01", "2025-08-31")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2025-08-01_w1", "2025-08-01_w2", "2025-08-31_w1"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, key := range want {
		if got[i].Key != key {
			t.Errorf("record %d = %s, want %s", i, got[i].Key, key)
		}
	}
}

func TestWatchNotifiesAndCloses(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := store.Watch(ctx, repository.CollectionStaff)
	if err != nil {
		t.Fatal(err)
	}
	store.PutStaff(models.StaffMember{ID: "w1", Name: "Maria"})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after PutStaff")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected extra notification")
		}
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestPutStaffReplacesByID(t *testing.T) {
	store := NewStore()
	store.PutStaff(models.StaffMember{ID: "w1", Name: "Maria"})
	store.PutStaff(models.StaffMember{ID: "w2", Name: "João"})
	store.PutStaff(models.StaffMember{ID: "w1", Name: "Maria Souza"})

	got, _ := store.ListStaff(context.Background())
	if len(got) != 2 || got[0].Name != "Maria Souza" {
		t.Fatalf("staff = %+v", got)
	}
}
