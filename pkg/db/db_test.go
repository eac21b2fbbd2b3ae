package db

import (
	"path/filepath"
	"testing"
	"time"
)

func TestInitAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger_test.db")

	d, err := Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer d.Close()

	// Table exists and accepts a row
	_, err = d.Exec(
		"INSERT INTO transactions (id, entrypoint, fee, caller, status) VALUES (?, ?, ?, ?, ?)",
		"tx-1", "search", 5, "agent-a", "charged",
	)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}

	// Migration is idempotent
	if err := d.migrate(); err != nil {
		t.Errorf("Re-running migration failed: %v", err)
	}
}

func TestPruneTransactions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger_test.db")

	d, err := Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer d.Close()

	old := time.Now().Add(-48 * time.Hour).UTC().Format("2006-01-02 15:04:05")
	_, err = d.Exec(
		"INSERT INTO transactions (id, entrypoint, fee, status, created_at) VALUES (?, ?, ?, ?, ?)",
		"tx-old", "details", 10, "charged", old,
	)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	_, err = d.Exec(
		"INSERT INTO transactions (id, entrypoint, fee, status) VALUES (?, ?, ?, ?)",
		"tx-new", "details", 10, "charged",
	)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := d.PruneTransactions(24 * time.Hour); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row after prune, got %d", count)
	}

	var id string
	if err := d.QueryRow("SELECT id FROM transactions").Scan(&id); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if id != "tx-new" {
		t.Errorf("Expected surviving row tx-new, got %s", id)
	}
}
