package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kitchen owns a pantry inventory.
type Kitchen struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups inventory items for display.
type Category struct {
	ID   string
	Code string // "produce", "dairy", ...
	Name string
}

// InventoryItem is a logical pantry item, such as "tomato" in kilograms.
// Its stock lives in one or more InventoryBatch rows.
type InventoryItem struct {
	ID         string
	KitchenID  string
	Name       string
	Code       string // slug of Name, unique per kitchen
	Unit       string // canonical unit, empty when the item is unitless
	CategoryID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	Category *Category
}

// BatchStatus is the lifecycle state of a batch.
type BatchStatus string

const (
	BatchStatusActive    BatchStatus = "ACTIVE"
	BatchStatusExhausted BatchStatus = "EXHAUSTED"
)

func (s BatchStatus) String() string {
	return string(s)
}

// InventoryBatch is one physical lot of an item with its own quantity,
// expiry and provenance.
type InventoryBatch struct {
	ID               string
	ItemID           string
	Quantity         decimal.Decimal // in the item's unit
	OriginalQuantity decimal.Decimal
	ExpiryDate       *time.Time
	AddedBy          string
	AddedAt          time.Time
	LocationID       *string
	Status           BatchStatus
	Version          int64
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAvailable reports whether the batch can still be drawn from.
func (b *InventoryBatch) IsAvailable() bool {
	return b.Status != BatchStatusExhausted && b.Quantity.IsPositive()
}

// IsExpired checks the expiry date against now. Batches without an expiry
// never expire.
func (b *InventoryBatch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return now.After(*b.ExpiryDate)
}

// DaysUntilExpiry returns whole days until expiry, -1 without an expiry date.
func (b *InventoryBatch) DaysUntilExpiry(now time.Time) int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(b.ExpiryDate.Sub(now).Hours() / 24)
}

// BatchFilter narrows batch queries.
type BatchFilter struct {
	KitchenID      string
	ItemID         string
	Status         *BatchStatus
	ExpiringWithin *int // days
}

// BatchList is a paginated list of batches.
type BatchList struct {
	Batches    []*InventoryBatch
	Total      int
	Page       int
	TotalPages int
}

// ItemList is a paginated list of items.
type ItemList struct {
	Items      []*InventoryItem
	Total      int
	Page       int
	TotalPages int
}

// ConsumptionInfo summarizes the consumable stock of one item.
type ConsumptionInfo struct {
	Item           *InventoryItem
	Batches        []*InventoryBatch // FIFO order
	TotalAvailable decimal.Decimal
}
