package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/testutil"
)

func setupInventory(t *testing.T) (*testutil.TestDB, *InventoryRepository, *models.Kitchen) {
	t.Helper()

	db := testutil.NewTestDB(t)
	repo := NewInventoryRepository(db.DB.DB)

	kitchen := testutil.FixtureKitchen()
	if err := repo.CreateKitchen(context.Background(), nil, kitchen); err != nil {
		t.Fatalf("failed to create kitchen: %v", err)
	}
	return db, repo, kitchen
}

func TestInventoryRepository_Items(t *testing.T) {
	_, repo, kitchen := setupInventory(t)
	ctx := context.Background()

	t.Run("Create and get item", func(t *testing.T) {
		item := testutil.FixtureItem(kitchen.ID, "Basmati Rice", "kg", func(i *models.InventoryItem) {
			i.CategoryID = testutil.Ptr("cat-grains")
		})

		if err := repo.CreateItem(ctx, nil, item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		found, err := repo.GetItem(ctx, nil, item.ID)
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if found.Code != "basmati-rice" {
			t.Errorf("expected code basmati-rice, got %s", found.Code)
		}
		if found.Category == nil || found.Category.Code != "grains" {
			t.Errorf("expected joined grains category, got %+v", found.Category)
		}

		byCode, err := repo.GetItemByCode(ctx, kitchen.ID, "basmati-rice")
		if err != nil {
			t.Fatalf("failed to get item by code: %v", err)
		}
		if byCode.ID != item.ID {
			t.Errorf("expected ID %s, got %s", item.ID, byCode.ID)
		}
	})

	t.Run("Duplicate code in kitchen is rejected", func(t *testing.T) {
		dup := testutil.FixtureItem(kitchen.ID, "basmati rice", "grams")
		if err := repo.CreateItem(ctx, nil, dup); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("Missing item", func(t *testing.T) {
		_, err := repo.GetItem(ctx, nil, "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Items for kitchen are ordered by ID", func(t *testing.T) {
		for _, name := range []string{"tomato", "onion", "garlic"} {
			if err := repo.CreateItem(ctx, nil, testutil.FixtureItem(kitchen.ID, name, "")); err != nil {
				t.Fatalf("failed to create item: %v", err)
			}
		}

		items, err := repo.ItemsForKitchen(ctx, nil, kitchen.ID)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if len(items) != 4 {
			t.Fatalf("expected 4 items, got %d", len(items))
		}
		for i := 1; i < len(items); i++ {
			if items[i-1].ID > items[i].ID {
				t.Errorf("items not ordered by ID at %d", i)
			}
		}
	})

	t.Run("List items paginates", func(t *testing.T) {
		list, err := repo.ListItems(ctx, kitchen.ID, "", models.Pagination{Page: 1, PageSize: 2})
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if list.Total != 4 || len(list.Items) != 2 || list.TotalPages != 2 {
			t.Errorf("unexpected page: total=%d len=%d pages=%d", list.Total, len(list.Items), list.TotalPages)
		}
	})
}

func TestInventoryRepository_ActiveBatchesForItem(t *testing.T) {
	db, repo, kitchen := setupInventory(t)
	ctx := context.Background()
	seed := testutil.NewSeeder(t, db)

	item := seed.Item(testutil.FixtureItem(kitchen.ID, "milk", "ml"))

	undated := seed.Batch(testutil.FixtureBatch(item.ID, "500", testutil.AddedAgo(72*time.Hour)))
	late := seed.Batch(testutil.FixtureBatch(item.ID, "1000", testutil.ExpiringIn(10)))
	soonOld := seed.Batch(testutil.FixtureBatch(item.ID, "250", testutil.ExpiringIn(2), testutil.AddedAgo(48*time.Hour)))
	soonNew := seed.Batch(testutil.FixtureBatch(item.ID, "250", func(b *models.InventoryBatch) {
		b.ExpiryDate = soonOld.ExpiryDate
		b.AddedAt = soonOld.AddedAt.Add(time.Hour)
	}))
	seed.Batch(testutil.FixtureBatch(item.ID, "0", func(b *models.InventoryBatch) {
		b.Status = models.BatchStatusExhausted
	}))

	batches, err := repo.ActiveBatchesForItem(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("failed to list batches: %v", err)
	}

	want := []string{soonOld.ID, soonNew.ID, late.ID, undated.ID}
	if len(batches) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(batches))
	}
	for i, id := range want {
		if batches[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, batches[i].ID)
		}
	}
	if !batches[2].Quantity.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected quantity 1000, got %s", batches[2].Quantity)
	}
}

func TestInventoryRepository_DrawDown(t *testing.T) {
	db, repo, kitchen := setupInventory(t)
	ctx := context.Background()
	seed := testutil.NewSeeder(t, db)

	item := seed.Item(testutil.FixtureItem(kitchen.ID, "eggs", "pieces"))
	batch := seed.Batch(testutil.FixtureBatch(item.ID, "12"))

	t.Run("Partial draw keeps batch active", func(t *testing.T) {
		if err := repo.DrawDown(ctx, nil, batch.ID, 1, decimal.NewFromInt(5)); err != nil {
			t.Fatalf("failed to draw down: %v", err)
		}

		got, err := repo.GetBatch(ctx, nil, batch.ID)
		if err != nil {
			t.Fatalf("failed to get batch: %v", err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(5)) {
			t.Errorf("expected quantity 5, got %s", got.Quantity)
		}
		if got.Status != models.BatchStatusActive {
			t.Errorf("expected ACTIVE, got %s", got.Status)
		}
		if got.Version != 2 {
			t.Errorf("expected version 2, got %d", got.Version)
		}
	})

	t.Run("Stale version is rejected", func(t *testing.T) {
		err := repo.DrawDown(ctx, nil, batch.ID, 1, decimal.NewFromInt(1))
		if !errors.Is(err, ErrVersionConflict) {
			t.Errorf("expected ErrVersionConflict, got %v", err)
		}
		if q := db.BatchQuantity(t, batch.ID); q != "5" {
			t.Errorf("expected quantity unchanged at 5, got %s", q)
		}
	})

	t.Run("Negative remaining is rejected", func(t *testing.T) {
		if err := repo.DrawDown(ctx, nil, batch.ID, 2, decimal.NewFromInt(-1)); err == nil {
			t.Error("expected error for negative remaining")
		}
	})

	t.Run("Draw to zero exhausts batch", func(t *testing.T) {
		if err := repo.DrawDown(ctx, nil, batch.ID, 2, decimal.Zero); err != nil {
			t.Fatalf("failed to draw down: %v", err)
		}

		got, err := repo.GetBatch(ctx, nil, batch.ID)
		if err != nil {
			t.Fatalf("failed to get batch: %v", err)
		}
		if got.Status != models.BatchStatusExhausted {
			t.Errorf("expected EXHAUSTED, got %s", got.Status)
		}

		active, err := repo.ActiveBatchesForItem(ctx, nil, item.ID)
		if err != nil {
			t.Fatalf("failed to list batches: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("expected no active batches, got %d", len(active))
		}
		db.AssertRowCount(t, "inventory_batches", 1)
	})
}

func TestInventoryRepository_ListBatches(t *testing.T) {
	db, repo, kitchen := setupInventory(t)
	ctx := context.Background()
	seed := testutil.NewSeeder(t, db)

	flour := seed.Item(testutil.FixtureItem(kitchen.ID, "flour", "grams"))
	seed.Batch(testutil.FixtureBatch(flour.ID, "1000", testutil.ExpiringIn(2)))
	seed.Batch(testutil.FixtureBatch(flour.ID, "1000", testutil.ExpiringIn(30)))

	list, err := repo.ListBatches(ctx, models.BatchFilter{
		KitchenID:      kitchen.ID,
		ExpiringWithin: testutil.Ptr(7),
	}, models.DefaultPagination())
	if err != nil {
		t.Fatalf("failed to list batches: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("expected 1 batch expiring within 7 days, got %d", list.Total)
	}

	batch := testutil.FixtureBatch(flour.ID, "250")
	if err := repo.CreateBatch(ctx, nil, batch); err != nil {
		t.Fatalf("failed to create batch: %v", err)
	}
	if batch.Status != models.BatchStatusActive || batch.Version != 1 {
		t.Errorf("expected new batch ACTIVE at version 1, got %s v%d", batch.Status, batch.Version)
	}

	all, err := repo.ListBatches(ctx, models.BatchFilter{ItemID: flour.ID}, models.DefaultPagination())
	if err != nil {
		t.Fatalf("failed to list batches: %v", err)
	}
	if all.Total != 3 {
		t.Errorf("expected 3 batches, got %d", all.Total)
	}
}
