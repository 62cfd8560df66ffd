// Package pantry provides the kitchen inventory operations that surround
// consumption: kitchens, items, batches and usage history.
package pantry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/repository"
	"github.com/pantrymind/pantrymind/internal/services/consumption"
	"github.com/pantrymind/pantrymind/internal/units"
	"github.com/pantrymind/pantrymind/internal/util"
)

// ErrInvalidInput is returned for requests that fail validation.
var ErrInvalidInput = errors.New("invalid input")

// Service provides pantry management operations.
type Service struct {
	db          *sql.DB
	inventory   *repository.InventoryRepository
	usage       *repository.UsageRepository
	idGenerator *util.IDGenerator
	clock       util.Clock
}

// NewService creates a new pantry service.
func NewService(db *sql.DB, clock util.Clock) *Service {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &Service{
		db:          db,
		inventory:   repository.NewInventoryRepository(db),
		usage:       repository.NewUsageRepository(db),
		idGenerator: util.NewIDGenerator(),
		clock:       clock,
	}
}

// ============================================================================
// KITCHENS & CATEGORIES
// ============================================================================

// CreateKitchen creates a new kitchen.
func (s *Service) CreateKitchen(ctx context.Context, name string) (*models.Kitchen, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: kitchen name is required", ErrInvalidInput)
	}

	k := &models.Kitchen{ID: s.idGenerator.NewID(), Name: name}
	if err := s.inventory.CreateKitchen(ctx, nil, k); err != nil {
		return nil, fmt.Errorf("creating kitchen: %w", err)
	}
	return k, nil
}

// GetKitchen retrieves a kitchen by ID.
func (s *Service) GetKitchen(ctx context.Context, id string) (*models.Kitchen, error) {
	return s.inventory.GetKitchen(ctx, id)
}

// ListKitchens retrieves all kitchens.
func (s *Service) ListKitchens(ctx context.Context) ([]*models.Kitchen, error) {
	return s.inventory.ListKitchens(ctx)
}

// ListCategories retrieves all item categories.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.inventory.ListCategories(ctx)
}

// ============================================================================
// ITEMS
// ============================================================================

// CreateItem creates a new inventory item. Its code is the slug of its name
// and must be unique within the kitchen.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}

	item := &models.InventoryItem{
		ID:        s.idGenerator.NewID(),
		KitchenID: input.KitchenID,
		Name:      name,
		Code:      slug.Make(name),
	}
	if strings.TrimSpace(input.Unit) != "" {
		item.Unit = units.Normalize(input.Unit)
	}

	if input.CategoryCode != "" {
		cat, err := s.inventory.GetCategoryByCode(ctx, input.CategoryCode)
		if err != nil {
			return nil, fmt.Errorf("looking up category: %w", err)
		}
		item.CategoryID = &cat.ID
		item.Category = cat
	}

	if err := s.inventory.CreateItem(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

// GetItem retrieves an item by ID.
func (s *Service) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.inventory.GetItem(ctx, nil, id)
}

// FindItem resolves ref as an item ID, then as an item code or name within
// the kitchen.
func (s *Service) FindItem(ctx context.Context, kitchenID, ref string) (*models.InventoryItem, error) {
	item, err := s.inventory.GetItem(ctx, nil, ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.inventory.GetItemByCode(ctx, kitchenID, slug.Make(ref))
}

// ListItems retrieves a kitchen's items with an optional category filter.
func (s *Service) ListItems(ctx context.Context, kitchenID, categoryID string, page models.Pagination) (*models.ItemList, error) {
	return s.inventory.ListItems(ctx, kitchenID, categoryID, page)
}

// ============================================================================
// BATCHES
// ============================================================================

// AddBatch stocks a new batch of an existing item.
func (s *Service) AddBatch(ctx context.Context, input AddBatchInput) (*models.InventoryBatch, error) {
	if !input.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: batch quantity must be positive", ErrInvalidInput)
	}

	item, err := s.inventory.GetItem(ctx, nil, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	qty := input.Quantity
	if input.Unit != "" {
		if !units.Compatible(input.Unit, item.Unit) {
			return nil, fmt.Errorf("stocking %s in %s: %w", item.Name, input.Unit, units.ErrUnsupportedConversion)
		}
		if qty, err = units.ConvertForItem(qty, input.Unit, item.Unit); err != nil {
			return nil, fmt.Errorf("stocking %s: %w", item.Name, err)
		}
	}

	batch := &models.InventoryBatch{
		ID:         s.idGenerator.NewID(),
		ItemID:     item.ID,
		Quantity:   qty,
		ExpiryDate: input.ExpiryDate,
		AddedBy:    input.AddedBy,
		AddedAt:    s.clock.Now(),
		LocationID: input.LocationID,
		Notes:      input.Notes,
	}
	if err := s.inventory.CreateBatch(ctx, nil, batch); err != nil {
		return nil, fmt.Errorf("creating batch: %w", err)
	}
	return batch, nil
}

// GetBatch retrieves a batch by ID.
func (s *Service) GetBatch(ctx context.Context, id string) (*models.InventoryBatch, error) {
	return s.inventory.GetBatch(ctx, nil, id)
}

// ListBatches retrieves batches in consumption order.
func (s *Service) ListBatches(ctx context.Context, filter models.BatchFilter, page models.Pagination) (*models.BatchList, error) {
	return s.inventory.ListBatches(ctx, filter, page)
}

// ExpiringBatches returns a kitchen's active batches expiring within the
// given number of days, expired ones included.
func (s *Service) ExpiringBatches(ctx context.Context, kitchenID string, withinDays int) ([]*models.InventoryBatch, error) {
	active := models.BatchStatusActive
	filter := models.BatchFilter{
		KitchenID:      kitchenID,
		Status:         &active,
		ExpiringWithin: &withinDays,
	}
	list, err := s.inventory.ListBatches(ctx, filter, models.Pagination{Page: 1, PageSize: 100})
	if err != nil {
		return nil, fmt.Errorf("listing expiring batches: %w", err)
	}
	return list.Batches, nil
}

// GetConsumptionInfo returns an item's consumable batches in the order they
// would be drawn from, with their total.
func (s *Service) GetConsumptionInfo(ctx context.Context, itemID string) (*models.ConsumptionInfo, error) {
	item, err := s.inventory.GetItem(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	batches, err := s.inventory.ActiveBatchesForItem(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("getting batches: %w", err)
	}
	consumption.SortFIFO(batches)

	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity)
	}

	return &models.ConsumptionInfo{
		Item:           item,
		Batches:        batches,
		TotalAvailable: total,
	}, nil
}

// Stats counts a kitchen's items and active batches, and how many of those
// expire within warnDays or already have.
func (s *Service) Stats(ctx context.Context, kitchenID string, warnDays int) (*Stats, error) {
	items, err := s.inventory.ItemsForKitchen(ctx, nil, kitchenID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	active := models.BatchStatusActive
	list, err := s.inventory.ListBatches(ctx,
		models.BatchFilter{KitchenID: kitchenID, Status: &active},
		models.Pagination{Page: 1, PageSize: 100})
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}

	now := s.clock.Now()
	stats := &Stats{Items: len(items), ActiveBatches: list.Total}
	for _, b := range list.Batches {
		switch {
		case b.ExpiryDate == nil:
		case b.IsExpired(now):
			stats.Expired++
		case util.DaysUntil(now, *b.ExpiryDate) <= warnDays:
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}

// ============================================================================
// HISTORY
// ============================================================================

// UsageHistory retrieves usage logs, newest first.
func (s *Service) UsageHistory(ctx context.Context, filter models.UsageFilter, page models.Pagination) (*models.UsageList, error) {
	return s.usage.ListUsage(ctx, filter, page)
}

// GetMealLog retrieves one cooked meal.
func (s *Service) GetMealLog(ctx context.Context, id string) (*models.MealLog, error) {
	return s.usage.GetMealLog(ctx, id)
}

// MealHistory retrieves a kitchen's cooked meals, newest first.
func (s *Service) MealHistory(ctx context.Context, kitchenID string, page models.Pagination) ([]*models.MealLog, error) {
	return s.usage.ListMealLogs(ctx, kitchenID, page)
}
