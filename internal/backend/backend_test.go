package backend

import (
	"context"
	"path/filepath"
	"testing"

	"bloomledger/internal/config"
)

func TestOpenMemory(t *testing.T) {
	b, err := Open(&config.Config{DataBackend: "memory", DashboardPIN: "199542"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if b.Repo != nil {
		t.Error("memory backend should not expose a sqlite repo")
	}
	pin, err := b.Store.PIN(context.Background())
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	if pin != "199542" {
		t.Errorf("pin = %s, want 199542", pin)
	}
}

func TestOpenSQLite(t *testing.T) {
	b, err := Open(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "bloom.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if b.Repo == nil {
		t.Fatal("sqlite backend should expose the repo")
	}
	txs, err := b.Store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("fresh db transactions = %d, want 0", len(txs))
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
