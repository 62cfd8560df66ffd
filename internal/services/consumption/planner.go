package consumption

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/units"
)

// BuildPlan allocates req across batches, soonest expiry first. Batches of
// other items, exhausted batches and empty batches are ignored. The inputs
// are never modified.
//
// A batch that would be left holding less than units.Dust is taken whole, and
// a shortfall below units.Dust is not reported, so rounding left over from
// unit conversion never strands a batch.
func BuildPlan(req Request, batches []*models.InventoryBatch) (*Plan, error) {
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("planning item %s: %w", req.ItemID, ErrInvalidQuantity)
	}

	eligible := make([]*models.InventoryBatch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if b.ItemID != req.ItemID || !b.IsAvailable() {
			continue
		}
		eligible = append(eligible, b)
		available = available.Add(b.Quantity)
	}

	if available.Add(units.Dust).LessThan(req.Quantity) {
		return nil, &InsufficientStockError{
			ItemID:    req.ItemID,
			Requested: req.Quantity,
			Available: available,
		}
	}

	SortFIFO(eligible)

	plan := &Plan{ItemID: req.ItemID, Requested: req.Quantity}
	remaining := req.Quantity
	for _, b := range eligible {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, b.Quantity)
		if b.Quantity.Sub(take).LessThan(units.Dust) {
			take = b.Quantity
		}
		plan.Allocations = append(plan.Allocations, Allocation{
			BatchID:                b.ID,
			QuantityConsumed:       take,
			QuantityRemainingAfter: b.Quantity.Sub(take),
			ExpiryDate:             b.ExpiryDate,
			AddedBy:                b.AddedBy,
			Version:                b.Version,
		})
		remaining = remaining.Sub(take)
	}

	return plan, nil
}

// SortFIFO orders batches for consumption in place: earliest expiry first,
// batches without expiry last, then earliest added, then by ID.
func SortFIFO(batches []*models.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		case !a.AddedAt.Equal(b.AddedAt):
			return a.AddedAt.Before(b.AddedAt)
		default:
			return a.ID < b.ID
		}
	})
}
