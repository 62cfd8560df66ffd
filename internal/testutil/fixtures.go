package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
)

// FixtureKitchen creates a test kitchen with sensible defaults.
func FixtureKitchen(overrides ...func(*models.Kitchen)) *models.Kitchen {
	id := uuid.New().String()
	now := time.Now().UTC()

	k := &models.Kitchen{
		ID:        id,
		Name:      "Test Kitchen " + id[:8],
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, override := range overrides {
		override(k)
	}

	return k
}

// FixtureItem creates a test item in the given kitchen. The code is derived
// from the name after overrides are applied.
func FixtureItem(kitchenID, name, unit string, overrides ...func(*models.InventoryItem)) *models.InventoryItem {
	now := time.Now().UTC()

	item := &models.InventoryItem{
		ID:        uuid.New().String(),
		KitchenID: kitchenID,
		Name:      name,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, override := range overrides {
		override(item)
	}

	if item.Code == "" {
		item.Code = slug.Make(item.Name)
	}

	return item
}

// FixtureBatch creates an ACTIVE test batch of qty units.
func FixtureBatch(itemID string, qty string, overrides ...func(*models.InventoryBatch)) *models.InventoryBatch {
	now := time.Now().UTC()
	q := decimal.RequireFromString(qty)

	b := &models.InventoryBatch{
		ID:               uuid.New().String(),
		ItemID:           itemID,
		Quantity:         q,
		OriginalQuantity: q,
		AddedBy:          "tester",
		AddedAt:          now,
		Status:           models.BatchStatusActive,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, override := range overrides {
		override(b)
	}

	return b
}

// ExpiringIn sets a batch's expiry to days from now.
func ExpiringIn(days int) func(*models.InventoryBatch) {
	return func(b *models.InventoryBatch) {
		t := time.Now().UTC().Truncate(time.Second).AddDate(0, 0, days)
		b.ExpiryDate = &t
	}
}

// AddedAgo sets a batch's added time to d before now.
func AddedAgo(d time.Duration) func(*models.InventoryBatch) {
	return func(b *models.InventoryBatch) {
		b.AddedAt = time.Now().UTC().Truncate(time.Second).Add(-d)
	}
}

// Seeder inserts fixtures straight into a test database.
type Seeder struct {
	t  *testing.T
	db *TestDB
}

// NewSeeder returns a Seeder for db.
func NewSeeder(t *testing.T, db *TestDB) *Seeder {
	return &Seeder{t: t, db: db}
}

// Kitchen inserts a kitchen.
func (s *Seeder) Kitchen(k *models.Kitchen) *models.Kitchen {
	s.t.Helper()
	s.db.ExecSQL(s.t,
		"INSERT INTO kitchens (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		k.ID, k.Name, k.CreatedAt.Format(time.RFC3339), k.UpdatedAt.Format(time.RFC3339))
	return k
}

// Item inserts an item.
func (s *Seeder) Item(item *models.InventoryItem) *models.InventoryItem {
	s.t.Helper()
	s.db.ExecSQL(s.t, `
		INSERT INTO inventory_items (id, kitchen_id, name, code, unit, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.KitchenID, item.Name, item.Code, item.Unit, item.CategoryID,
		item.CreatedAt.Format(time.RFC3339), item.UpdatedAt.Format(time.RFC3339))
	return item
}

// Batch inserts a batch.
func (s *Seeder) Batch(b *models.InventoryBatch) *models.InventoryBatch {
	s.t.Helper()

	var expiry any
	if b.ExpiryDate != nil {
		expiry = b.ExpiryDate.UTC().Format(time.RFC3339)
	}

	s.db.ExecSQL(s.t, `
		INSERT INTO inventory_batches (
			id, item_id, quantity, original_quantity, expiry_date, added_by, added_at,
			status, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ItemID, b.Quantity.String(), b.OriginalQuantity.String(), expiry, b.AddedBy,
		b.AddedAt.UTC().Format(time.RFC3339), string(b.Status), b.Version,
		b.CreatedAt.Format(time.RFC3339), b.UpdatedAt.Format(time.RFC3339))
	return b
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
