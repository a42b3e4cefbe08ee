package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloomledger/internal/core"
	"bloomledger/internal/store"
)

func testTx() core.Transaction {
	return core.Transaction{
		Type:       core.Income,
		Category:   core.CategoryStudio,
		Amount:     core.Money{Cents: 30000},
		Date:       core.NewTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Status:     core.Pending,
		IsBusiness: true,
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	s := New("1234")
	ctx := context.Background()

	id1, err := s.Append(ctx, testTx())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	id2, err := s.Append(ctx, testTx())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 == "" || id1 == id2 {
		t.Fatalf("expected distinct ids, got %q and %q", id1, id2)
	}
}

func TestReadAfterWrite(t *testing.T) {
	s := New("1234")
	ctx := context.Background()

	before, _ := s.List(ctx)
	if _, err := s.Append(ctx, testTx()); err != nil {
		t.Fatalf("append: %v", err)
	}
	after, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("list size %d, want %d", len(after), len(before)+1)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New("1234")
	bad := testTx()
	bad.Amount.Cents = 0
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	s := New("1234")
	ctx := context.Background()
	id, _ := s.Append(ctx, testTx())

	if err := s.UpdateStatus(ctx, id, core.Confirmed); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := s.UpdateStatus(ctx, id, core.Confirmed); err != nil {
		t.Fatalf("second confirm should be a no-op success: %v", err)
	}
	txs, _ := s.List(ctx)
	for _, tx := range txs {
		if tx.ID == id && tx.Status != core.Confirmed {
			t.Fatalf("status = %s, want confirmed", tx.Status)
		}
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	s := New("1234")
	ctx := context.Background()
	s.Append(ctx, testTx())
	before, _ := s.List(ctx)

	err := s.UpdateStatus(ctx, "missing", core.Confirmed)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, _ := s.List(ctx)
	if len(after) != len(before) {
		t.Fatal("store changed on failed confirm")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("store changed on failed confirm")
		}
	}
}

func TestSeededStore(t *testing.T) {
	s := NewSeeded("199542")
	txs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("seed size %d, want 4", len(txs))
	}
	for _, tx := range txs {
		if tx.ID == "" {
			t.Fatal("seeded transaction without id")
		}
	}
	pin, _ := s.PIN(context.Background())
	if pin != "199542" {
		t.Fatalf("pin %q", pin)
	}
}
