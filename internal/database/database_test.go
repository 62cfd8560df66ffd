package database_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/database"
	"github.com/pantrymind/pantrymind/internal/testutil"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "pantry.db")

	db, err := database.Open(path, &config.DatabaseConfig{Path: path}, "")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		t.Fatalf("NewMigrator failed: %v", err)
	}

	first, err := migrator.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if len(first.Applied) == 0 {
		t.Error("expected migrations on a fresh database")
	}

	again, err := migrator.MigrateUp(ctx)
	if err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}
	if len(again.Applied) != 0 {
		t.Errorf("expected no migrations on rerun, got %d", len(again.Applied))
	}

	if err := db.CheckIntegrity(ctx); err != nil {
		t.Errorf("CheckIntegrity: %v", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path = %q", db.Path())
	}
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	insert := func(tx *sql.Tx, id string) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO kitchens (id, name, created_at, updated_at) VALUES (?, ?, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id, "Kitchen "+id)
		return err
	}

	t.Run("commits", func(t *testing.T) {
		if err := db.WithTransaction(ctx, func(tx *sql.Tx) error { return insert(tx, "k1") }); err != nil {
			t.Fatalf("WithTransaction failed: %v", err)
		}
		db.AssertRowCount(t, "kitchens", 1)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := db.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := insert(tx, "k2"); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		db.AssertRowCount(t, "kitchens", 1)
	})

	t.Run("rolls back on cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		err := db.WithTransaction(cctx, func(tx *sql.Tx) error {
			if err := insert(tx, "k3"); err != nil {
				return err
			}
			cancel()
			return nil
		})
		if err == nil {
			t.Fatal("expected an error after cancellation")
		}
		db.AssertRowCount(t, "kitchens", 1)
	})
}

func TestBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "pantry.db")
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0750); err != nil {
		t.Fatal(err)
	}

	db, err := database.Open(path, &config.DatabaseConfig{Path: path}, backupDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	backupPath, err := db.Backup(ctx)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}

func TestBackupWithoutDirectory(t *testing.T) {
	db := testutil.NewTestDB(t)
	if _, err := db.Backup(context.Background()); err == nil {
		t.Error("expected an error without a backup directory")
	}
}

func TestClose(t *testing.T) {
	db, err := database.NewInMemory()
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if !db.IsClosed() {
		t.Error("expected IsClosed after Close")
	}
	if err := db.HealthCheck(context.Background()); !errors.Is(err, database.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := db.WithTransaction(context.Background(), func(*sql.Tx) error { return nil }); !errors.Is(err, database.ErrClosed) {
		t.Errorf("expected ErrClosed from WithTransaction, got %v", err)
	}
}
