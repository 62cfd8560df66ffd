package pantry

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemInput contains data for creating an inventory item.
type CreateItemInput struct {
	KitchenID string
	Name      string

	// Unit is normalized before storing. Empty leaves the item unitless.
	Unit string

	// CategoryCode is optional, e.g. "produce".
	CategoryCode string
}

// AddBatchInput contains data for stocking a new batch.
type AddBatchInput struct {
	ItemID   string
	Quantity decimal.Decimal

	// Unit is optional. When set, Quantity is converted into the item's unit.
	Unit string

	ExpiryDate *time.Time
	AddedBy    string
	LocationID *string
	Notes      *string
}

// Stats summarizes a kitchen's stock.
type Stats struct {
	Items         int
	ActiveBatches int
	ExpiringSoon  int
	Expired       int
}
