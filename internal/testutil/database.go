// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/database"
)

// TestDB wraps a migrated test database.
type TestDB struct {
	*database.DB
}

// NewTestDB creates an in-memory database with every migration applied.
// It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrate(t, db)
	return &TestDB{DB: db}
}

// NewTestDBWithFile creates a migrated database backed by a temporary file,
// opened the way the application opens it.
func NewTestDBWithFile(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pantry-test.db")
	db, err := database.Open(path, &config.DatabaseConfig{Path: path}, "")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrate(t, db)
	return &TestDB{DB: db}
}

func migrate(t *testing.T, db *database.DB) {
	t.Helper()

	m, err := database.NewMigrator(db)
	if err != nil {
		t.Fatalf("failed to create migrator: %v", err)
	}
	if _, err := m.MigrateUp(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

// AssertRowCount asserts the row count for a table.
func (tdb *TestDB) AssertRowCount(t *testing.T, table string, expected int) {
	t.Helper()

	var count int
	if err := tdb.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}

// ExecSQL executes arbitrary SQL (useful for test setup).
func (tdb *TestDB) ExecSQL(t *testing.T, sql string, args ...any) {
	t.Helper()

	if _, err := tdb.Exec(sql, args...); err != nil {
		t.Fatalf("failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}

// BatchQuantity reads a batch's stored quantity as text.
func (tdb *TestDB) BatchQuantity(t *testing.T, batchID string) string {
	t.Helper()

	var qty string
	if err := tdb.QueryRow("SELECT quantity FROM inventory_batches WHERE id = ?", batchID).Scan(&qty); err != nil {
		t.Fatalf("failed to read batch %s: %v", batchID, err)
	}
	return qty
}
