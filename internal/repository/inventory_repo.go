package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
)

// InventoryRepository handles kitchens, items and batches.
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ============================================================================
// KITCHENS & CATEGORIES
// ============================================================================

// CreateKitchen inserts a new kitchen.
func (r *InventoryRepository) CreateKitchen(ctx context.Context, tx *sql.Tx, k *models.Kitchen) error {
	now := time.Now().UTC()
	k.CreatedAt = now
	k.UpdatedAt = now

	_, err := execerFor(r.db, tx).ExecContext(ctx,
		`INSERT INTO kitchens (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		k.ID, k.Name, formatTime(k.CreatedAt), formatTime(k.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting kitchen: %w", err)
	}
	return nil
}

// GetKitchen retrieves a kitchen by ID.
func (r *InventoryRepository) GetKitchen(ctx context.Context, id string) (*models.Kitchen, error) {
	var k models.Kitchen
	var created, updated string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM kitchens WHERE id = ?`, id,
	).Scan(&k.ID, &k.Name, &created, &updated)
	if err != nil {
		return nil, notFound("kitchen", id, err)
	}

	k.CreatedAt = parseTime(created)
	k.UpdatedAt = parseTime(updated)
	return &k, nil
}

// ListKitchens retrieves all kitchens ordered by name.
func (r *InventoryRepository) ListKitchens(ctx context.Context) ([]*models.Kitchen, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM kitchens ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying kitchens: %w", err)
	}
	defer rows.Close()

	var kitchens []*models.Kitchen
	for rows.Next() {
		var k models.Kitchen
		var created, updated string
		if err := rows.Scan(&k.ID, &k.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning kitchen row: %w", err)
		}
		k.CreatedAt = parseTime(created)
		k.UpdatedAt = parseTime(updated)
		kitchens = append(kitchens, &k)
	}
	return kitchens, rows.Err()
}

// ListCategories retrieves all item categories.
func (r *InventoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, name FROM categories ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetCategoryByCode retrieves a category by its code.
func (r *InventoryRepository) GetCategoryByCode(ctx context.Context, code string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, name FROM categories WHERE code = ?`, code,
	).Scan(&c.ID, &c.Code, &c.Name)
	if err != nil {
		return nil, notFound("category", code, err)
	}
	return &c, nil
}

// ============================================================================
// ITEMS
// ============================================================================

const itemColumns = `
	i.id, i.kitchen_id, i.name, i.code, i.unit, i.category_id, i.created_at, i.updated_at,
	c.id, c.code, c.name`

const itemFrom = `
	FROM inventory_items i
	LEFT JOIN categories c ON i.category_id = c.id`

// CreateItem inserts a new inventory item.
func (r *InventoryRepository) CreateItem(ctx context.Context, tx *sql.Tx, item *models.InventoryItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := execerFor(r.db, tx).ExecContext(ctx, `
		INSERT INTO inventory_items (
			id, kitchen_id, name, code, unit, category_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.KitchenID,
		item.Name,
		item.Code,
		item.Unit,
		nullString(item.CategoryID),
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (r *InventoryRepository) GetItem(ctx context.Context, tx *sql.Tx, id string) (*models.InventoryItem, error) {
	row := queryerFor(r.db, tx).QueryRowContext(ctx,
		"SELECT"+itemColumns+itemFrom+" WHERE i.id = ?", id)

	item, err := scanItem(row)
	if err != nil {
		return nil, notFound("item", id, err)
	}
	return item, nil
}

// GetItemByCode retrieves an item by its kitchen-scoped code.
func (r *InventoryRepository) GetItemByCode(ctx context.Context, kitchenID, code string) (*models.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+itemColumns+itemFrom+" WHERE i.kitchen_id = ? AND i.code = ?", kitchenID, code)

	item, err := scanItem(row)
	if err != nil {
		return nil, notFound("item", code, err)
	}
	return item, nil
}

// ItemsForKitchen returns every item of a kitchen ordered by ID.
func (r *InventoryRepository) ItemsForKitchen(ctx context.Context, tx *sql.Tx, kitchenID string) ([]*models.InventoryItem, error) {
	rows, err := queryerFor(r.db, tx).QueryContext(ctx,
		"SELECT"+itemColumns+itemFrom+" WHERE i.kitchen_id = ? ORDER BY i.id", kitchenID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListItems retrieves a page of a kitchen's items ordered by name.
func (r *InventoryRepository) ListItems(ctx context.Context, kitchenID, categoryID string, page models.Pagination) (*models.ItemList, error) {
	conditions := []string{"i.kitchen_id = ?"}
	args := []any{kitchenID}

	if categoryID != "" {
		conditions = append(conditions, "i.category_id = ?")
		args = append(args, categoryID)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory_items i"+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	args = append(args, page.Limit(), page.Offset())
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+itemColumns+itemFrom+where+" ORDER BY i.name, i.id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, item)
	}

	return &models.ItemList{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, rows.Err()
}

// ============================================================================
// BATCHES
// ============================================================================

const batchColumns = `
	b.id, b.item_id, b.quantity, b.original_quantity, b.expiry_date,
	b.added_by, b.added_at, b.location_id, b.status, b.version, b.notes,
	b.created_at, b.updated_at`

// fifoOrder is the consumption order: soonest expiry first, undated last,
// then oldest addition, then ID.
const fifoOrder = ` ORDER BY b.expiry_date ASC NULLS LAST, b.added_at ASC, b.id ASC`

// CreateBatch inserts a new batch. New batches start ACTIVE at version 1
// unless their quantity is zero.
func (r *InventoryRepository) CreateBatch(ctx context.Context, tx *sql.Tx, b *models.InventoryBatch) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.AddedAt.IsZero() {
		b.AddedAt = now
	}
	if b.OriginalQuantity.IsZero() {
		b.OriginalQuantity = b.Quantity
	}
	if b.Version == 0 {
		b.Version = 1
	}
	b.Status = models.BatchStatusActive
	if !b.Quantity.IsPositive() {
		b.Status = models.BatchStatusExhausted
	}

	_, err := execerFor(r.db, tx).ExecContext(ctx, `
		INSERT INTO inventory_batches (
			id, item_id, quantity, original_quantity, expiry_date,
			added_by, added_at, location_id, status, version, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.ItemID,
		b.Quantity.String(),
		b.OriginalQuantity.String(),
		nullTime(b.ExpiryDate),
		b.AddedBy,
		formatTime(b.AddedAt),
		nullString(b.LocationID),
		string(b.Status),
		b.Version,
		nullString(b.Notes),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch by ID.
func (r *InventoryRepository) GetBatch(ctx context.Context, tx *sql.Tx, id string) (*models.InventoryBatch, error) {
	row := queryerFor(r.db, tx).QueryRowContext(ctx,
		"SELECT"+batchColumns+" FROM inventory_batches b WHERE b.id = ?", id)

	b, err := scanBatch(row)
	if err != nil {
		return nil, notFound("batch", id, err)
	}
	return b, nil
}

// ActiveBatchesForItem returns an item's ACTIVE batches with stock left, in
// consumption order.
func (r *InventoryRepository) ActiveBatchesForItem(ctx context.Context, tx *sql.Tx, itemID string) ([]*models.InventoryBatch, error) {
	rows, err := queryerFor(r.db, tx).QueryContext(ctx,
		"SELECT"+batchColumns+` FROM inventory_batches b
		WHERE b.item_id = ? AND b.status = 'ACTIVE'`+fifoOrder, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch row: %w", err)
		}
		if b.Quantity.IsPositive() {
			batches = append(batches, b)
		}
	}
	return batches, rows.Err()
}

// ListBatches retrieves batches with filtering and pagination in
// consumption order.
func (r *InventoryRepository) ListBatches(ctx context.Context, filter models.BatchFilter, page models.Pagination) (*models.BatchList, error) {
	var conditions []string
	var args []any

	if filter.KitchenID != "" {
		conditions = append(conditions, "i.kitchen_id = ?")
		args = append(args, filter.KitchenID)
	}
	if filter.ItemID != "" {
		conditions = append(conditions, "b.item_id = ?")
		args = append(args, filter.ItemID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "b.status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.ExpiringWithin != nil {
		conditions = append(conditions, "b.expiry_date IS NOT NULL AND b.expiry_date <= ?")
		args = append(args, formatTime(time.Now().AddDate(0, 0, *filter.ExpiringWithin)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	from := " FROM inventory_batches b JOIN inventory_items i ON b.item_id = i.id"

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting batches: %w", err)
	}

	args = append(args, page.Limit(), page.Offset())
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+batchColumns+from+where+fifoOrder+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch row: %w", err)
		}
		batches = append(batches, b)
	}

	return &models.BatchList{
		Batches:    batches,
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, rows.Err()
}

// DrawDown sets a batch's remaining quantity if it is still at the version
// the caller read. A batch drawn to zero becomes EXHAUSTED. It returns
// ErrVersionConflict when the batch changed in between.
func (r *InventoryRepository) DrawDown(ctx context.Context, tx *sql.Tx, batchID string, readVersion int64, remaining decimal.Decimal) error {
	if remaining.IsNegative() {
		return fmt.Errorf("drawing down batch %s: negative remaining quantity %s", batchID, remaining)
	}

	status := models.BatchStatusActive
	if remaining.IsZero() {
		status = models.BatchStatusExhausted
	}

	result, err := execerFor(r.db, tx).ExecContext(ctx, `
		UPDATE inventory_batches
		SET quantity = ?, status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND status = 'ACTIVE'`,
		remaining.String(),
		string(status),
		formatTime(time.Now()),
		batchID,
		readVersion,
	)
	if err != nil {
		return fmt.Errorf("updating batch %s: %w", batchID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating batch %s: %w", batchID, err)
	}
	if n == 0 {
		return fmt.Errorf("batch %s at version %d: %w", batchID, readVersion, ErrVersionConflict)
	}
	return nil
}

func scanItem(s scanner) (*models.InventoryItem, error) {
	var item models.InventoryItem
	var categoryID, catID, catCode, catName sql.NullString
	var created, updated string

	err := s.Scan(
		&item.ID, &item.KitchenID, &item.Name, &item.Code, &item.Unit, &categoryID,
		&created, &updated,
		&catID, &catCode, &catName,
	)
	if err != nil {
		return nil, err
	}

	item.CategoryID = stringPtr(categoryID)
	item.CreatedAt = parseTime(created)
	item.UpdatedAt = parseTime(updated)
	if catID.Valid {
		item.Category = &models.Category{ID: catID.String, Code: catCode.String, Name: catName.String}
	}
	return &item, nil
}

func scanBatch(s scanner) (*models.InventoryBatch, error) {
	var b models.InventoryBatch
	var qty, original, addedAt, status, created, updated string
	var expiry, location, notes sql.NullString

	err := s.Scan(
		&b.ID, &b.ItemID, &qty, &original, &expiry,
		&b.AddedBy, &addedAt, &location, &status, &b.Version, &notes,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}

	if b.Quantity, err = parseDecimal("quantity", qty); err != nil {
		return nil, err
	}
	if b.OriginalQuantity, err = parseDecimal("original_quantity", original); err != nil {
		return nil, err
	}
	b.ExpiryDate = timePtr(expiry)
	b.AddedAt = parseTime(addedAt)
	b.LocationID = stringPtr(location)
	b.Status = models.BatchStatus(status)
	b.Notes = stringPtr(notes)
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	return &b, nil
}
