package seed

import (
	"context"
	"testing"
	"time"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/repository"
	"github.com/pantrymind/pantrymind/internal/testutil"
)

func TestGenerator_Generate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	cfg := DefaultConfig("Demo Kitchen")
	cfg.Now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	kitchen, err := NewGenerator(db.DB.DB, cfg).Generate(ctx)
	if err != nil {
		t.Fatalf("failed to generate seed data: %v", err)
	}

	db.AssertRowCount(t, "kitchens", 1)
	db.AssertRowCount(t, "inventory_items", len(Catalog))

	repo := repository.NewInventoryRepository(db.DB.DB)
	items, err := repo.ItemsForKitchen(ctx, nil, kitchen.ID)
	if err != nil {
		t.Fatalf("failed to list items: %v", err)
	}

	for _, item := range items {
		batches, err := repo.ActiveBatchesForItem(ctx, nil, item.ID)
		if err != nil {
			t.Fatalf("failed to list batches: %v", err)
		}
		if len(batches) < 1 || len(batches) > cfg.MaxBatchesPerItem {
			t.Errorf("%s: expected 1-%d batches, got %d", item.Name, cfg.MaxBatchesPerItem, len(batches))
		}
		for _, b := range batches {
			if !b.Quantity.IsPositive() {
				t.Errorf("%s: expected positive quantity, got %s", item.Name, b.Quantity)
			}
			if b.Status != models.BatchStatusActive {
				t.Errorf("%s: expected ACTIVE batch, got %s", item.Name, b.Status)
			}
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	cfg := DefaultConfig("Demo")
	cfg.Now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	count := func() int {
		db := testutil.NewTestDB(t)
		g := NewGenerator(db.DB.DB, cfg)
		if _, err := g.Generate(context.Background()); err != nil {
			t.Fatalf("failed to generate seed data: %v", err)
		}
		return g.batchCount
	}

	if a, b := count(), count(); a != b {
		t.Errorf("expected the same batch count for the same seed, got %d and %d", a, b)
	}
}
