package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/repository"
	"github.com/pantrymind/pantrymind/internal/util"
)

// Config configures the seed data generator.
type Config struct {
	KitchenName string
	Catalog     []Staple
	Members     []string

	// MaxBatchesPerItem bounds how many batches each staple gets; every
	// staple gets at least one.
	MaxBatchesPerItem int

	// Now anchors expiry and added dates.
	Now        time.Time
	RandomSeed int64
}

// DefaultConfig returns a default seed configuration.
func DefaultConfig(kitchenName string) Config {
	return Config{
		KitchenName:       kitchenName,
		Catalog:           Catalog,
		Members:           Members,
		MaxBatchesPerItem: 3,
		Now:               time.Now().UTC(),
		RandomSeed:        42,
	}
}

// Generator generates a demo kitchen.
type Generator struct {
	db        *sql.DB
	cfg       Config
	rng       *rand.Rand
	idGen     *util.IDGenerator
	inventory *repository.InventoryRepository

	batchCount int
}

// NewGenerator creates a new seed data generator.
func NewGenerator(db *sql.DB, cfg Config) *Generator {
	return &Generator{
		db:        db,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.RandomSeed)),
		idGen:     util.NewIDGenerator(),
		inventory: repository.NewInventoryRepository(db),
	}
}

// Generate creates the kitchen with its items and batches in one
// transaction and returns it.
func (g *Generator) Generate(ctx context.Context) (*models.Kitchen, error) {
	slog.Info("starting seed data generation",
		"kitchen", g.cfg.KitchenName,
		"items", len(g.cfg.Catalog),
	)

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	kitchen := &models.Kitchen{ID: g.idGen.NewID(), Name: g.cfg.KitchenName}
	if err := g.inventory.CreateKitchen(ctx, tx, kitchen); err != nil {
		return nil, fmt.Errorf("creating kitchen: %w", err)
	}

	for _, staple := range g.cfg.Catalog {
		if err := g.generateItem(ctx, tx, kitchen.ID, staple); err != nil {
			return nil, fmt.Errorf("generating %s: %w", staple.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("seed data generation complete",
		"kitchen_id", kitchen.ID,
		"items", len(g.cfg.Catalog),
		"batches", g.batchCount,
	)

	return kitchen, nil
}

func (g *Generator) generateItem(ctx context.Context, tx *sql.Tx, kitchenID string, s Staple) error {
	item := &models.InventoryItem{
		ID:        g.idGen.NewID(),
		KitchenID: kitchenID,
		Name:      s.Name,
		Code:      slug.Make(s.Name),
		Unit:      s.Unit,
	}
	if s.Category != "" {
		catID := "cat-" + s.Category
		item.CategoryID = &catID
	}
	if err := g.inventory.CreateItem(ctx, tx, item); err != nil {
		return err
	}

	n := 1
	if g.cfg.MaxBatchesPerItem > 1 {
		n += g.rng.Intn(g.cfg.MaxBatchesPerItem)
	}

	for i := 0; i < n; i++ {
		// Older batches were bought earlier and expire sooner.
		boughtDaysAgo := g.rng.Intn(10) + (n-i-1)*5
		added := g.cfg.Now.AddDate(0, 0, -boughtDaysAgo)

		batch := &models.InventoryBatch{
			ID:       g.idGen.NewID(),
			ItemID:   item.ID,
			Quantity: g.quantity(s),
			AddedBy:  g.member(),
			AddedAt:  added,
		}
		if s.ShelfLifeDays > 0 {
			expiry := util.StartOfDay(added).AddDate(0, 0, s.ShelfLifeDays)
			batch.ExpiryDate = &expiry
		}

		if err := g.inventory.CreateBatch(ctx, tx, batch); err != nil {
			return err
		}
		g.batchCount++
	}
	return nil
}

func (g *Generator) quantity(s Staple) decimal.Decimal {
	q := s.MinQty
	if s.MaxQty > s.MinQty {
		q += g.rng.Intn(s.MaxQty - s.MinQty + 1)
	}
	if q < 1 {
		q = 1
	}
	return decimal.NewFromInt(int64(q))
}

func (g *Generator) member() string {
	if len(g.cfg.Members) == 0 {
		return "seed"
	}
	return g.cfg.Members[g.rng.Intn(len(g.cfg.Members))]
}
