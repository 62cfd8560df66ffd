// Package consumption resolves cooking actions against the pantry and draws
// stock down from batches atomically, soonest expiry first.
package consumption

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
)

// Kind distinguishes the two entry points.
type Kind string

const (
	KindManual Kind = "manual"
	KindRecipe Kind = "recipe"
)

func (k Kind) String() string {
	return string(k)
}

// Request asks for a quantity of one item, in the item's own unit.
type Request struct {
	ItemID   string
	Quantity decimal.Decimal
}

// Allocation is the part of a request served by one batch.
type Allocation struct {
	BatchID                string
	QuantityConsumed       decimal.Decimal
	QuantityRemainingAfter decimal.Decimal
	ExpiryDate             *time.Time
	AddedBy                string

	// Version is the batch version the allocation was planned against.
	Version int64
}

// Plan is the ordered list of batch allocations for one Request.
type Plan struct {
	ItemID      string
	Requested   decimal.Decimal
	Allocations []Allocation
}

// Total sums the allocated quantities.
func (p *Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.QuantityConsumed)
	}
	return total
}

// ManualRequest is a direct "use N of this item" action.
type ManualRequest struct {
	ItemID   string
	Quantity decimal.Decimal

	// Unit is optional. When set, Quantity is converted into the item's unit.
	Unit string

	UserID string
	Notes  string
}

// RecipeRequest cooks a recipe whose ingredients are "<name>: <qty><unit>"
// lines.
type RecipeRequest struct {
	KitchenID   string
	RecipeName  string
	Ingredients []string
	UserID      string
	Servings    int
	Notes       string

	// Snapshot, when non-nil, is matched against instead of the kitchen's
	// items in the store.
	Snapshot []*models.InventoryItem
}

// ItemConsumption reports what happened, or would happen, to one item.
type ItemConsumption struct {
	ItemID    string
	ItemName  string
	Unit      string
	Requested decimal.Decimal

	// MatchedBy names the matching tier for recipe ingredients.
	MatchedBy string

	// UnitReview is set when the match relied on an unknown unit.
	UnitReview bool

	// Sources holds the ingredient lines aggregated into this item.
	Sources []string

	Allocations []Allocation
}

// Result is returned by both the preview and the committing entry points.
type Result struct {
	Kind      Kind
	KitchenID string
	Items     []ItemConsumption
	MealLogID string
	Committed bool
}

// BatchCount returns the number of batches touched.
func (r *Result) BatchCount() int {
	n := 0
	for _, it := range r.Items {
		n += len(it.Allocations)
	}
	return n
}

// Commit is everything a Store needs to persist one consumption.
type Commit struct {
	Kind       Kind
	KitchenID  string
	UserID     string
	Notes      string
	RecipeName string
	Servings   int
	MealLogID  string
	MealType   models.MealType
	At         time.Time
	Plans      []*Plan

	// Ingredients is recorded on the meal log of a recipe commit.
	Ingredients []models.MealIngredient
}
