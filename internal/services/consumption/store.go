package consumption

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/pantrymind/pantrymind/internal/database"
	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/repository"
	"github.com/pantrymind/pantrymind/internal/util"
)

// Store is the inventory the coordinator reads from and commits to.
type Store interface {
	GetItem(ctx context.Context, itemID string) (*models.InventoryItem, error)

	// ItemsForKitchen returns every item of a kitchen, ordered by ID.
	ItemsForKitchen(ctx context.Context, kitchenID string) ([]*models.InventoryItem, error)

	// BatchesForItem returns the item's active batches.
	BatchesForItem(ctx context.Context, itemID string) ([]*models.InventoryBatch, error)

	// Commit applies every allocation and writes the matching usage logs, and
	// a meal log for recipes, all or nothing. It returns ErrStaleBatch when a
	// batch no longer matches the version it was planned against.
	Commit(ctx context.Context, c *Commit) error
}

// DBStore is the SQLite-backed Store.
type DBStore struct {
	db        *database.DB
	inventory *repository.InventoryRepository
	usage     *repository.UsageRepository
	ids       *util.IDGenerator
}

// NewDBStore creates a store over db.
func NewDBStore(db *database.DB) *DBStore {
	return &DBStore{
		db:        db,
		inventory: repository.NewInventoryRepository(db.DB),
		usage:     repository.NewUsageRepository(db.DB),
		ids:       util.NewIDGenerator(),
	}
}

// GetItem loads one item.
func (s *DBStore) GetItem(ctx context.Context, itemID string) (*models.InventoryItem, error) {
	item, err := s.inventory.GetItem(ctx, nil, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item, err
}

// ItemsForKitchen lists a kitchen's items ordered by ID.
func (s *DBStore) ItemsForKitchen(ctx context.Context, kitchenID string) ([]*models.InventoryItem, error) {
	items, err := s.inventory.ItemsForKitchen(ctx, nil, kitchenID)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// BatchesForItem lists an item's active batches.
func (s *DBStore) BatchesForItem(ctx context.Context, itemID string) ([]*models.InventoryBatch, error) {
	return s.inventory.ActiveBatchesForItem(ctx, nil, itemID)
}

// Commit persists one consumption in a single transaction.
func (s *DBStore) Commit(ctx context.Context, c *Commit) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var mealLogID *string
		if c.Kind == KindRecipe {
			meal := &models.MealLog{
				ID:          c.MealLogID,
				KitchenID:   c.KitchenID,
				CookedBy:    c.UserID,
				MealName:    c.RecipeName,
				MealType:    c.MealType,
				Servings:    c.Servings,
				Ingredients: c.Ingredients,
				CookedAt:    c.At,
			}
			if err := s.usage.CreateMealLog(ctx, tx, meal); err != nil {
				return err
			}
			mealLogID = &meal.ID
		}

		usageType := models.UsageTypeDirectConsumption
		var recipeName *string
		if c.Kind == KindRecipe {
			usageType = models.UsageTypeCooking
			recipeName = &c.RecipeName
		}
		var notes *string
		if c.Notes != "" {
			notes = &c.Notes
		}

		for _, plan := range c.Plans {
			for _, a := range plan.Allocations {
				if err := ctx.Err(); err != nil {
					return err
				}

				err := s.inventory.DrawDown(ctx, tx, a.BatchID, a.Version, a.QuantityRemainingAfter)
				if errors.Is(err, repository.ErrVersionConflict) {
					return fmt.Errorf("%w: %v", ErrStaleBatch, err)
				}
				if err != nil {
					return err
				}

				err = s.usage.CreateUsageLog(ctx, tx, &models.UsageLog{
					ID:         s.ids.NewID(),
					KitchenID:  c.KitchenID,
					ItemID:     plan.ItemID,
					BatchID:    a.BatchID,
					UserID:     c.UserID,
					Quantity:   a.QuantityConsumed,
					UsageType:  usageType,
					RecipeName: recipeName,
					MealLogID:  mealLogID,
					Notes:      notes,
					UsedAt:     c.At,
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}
