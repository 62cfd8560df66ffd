package consumption

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/ingredients"
)

var (
	// ErrInvalidQuantity is returned for a zero or negative request.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrItemNotFound is returned when a manual request names no item.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrStaleBatch is returned by a Store when a batch changed between
	// planning and commit.
	ErrStaleBatch = errors.New("batch changed since it was read")
)

// InsufficientStockError reports that an item's active batches cannot cover
// a request.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.ItemID
	if e.ItemName != "" {
		name = e.ItemName
	}
	return fmt.Sprintf("insufficient stock for %s: requested %s, available %s", name, e.Requested, e.Available)
}

// Shortfall is the quantity that could not be covered.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// ShortageError aggregates every shortage found while planning a recipe.
type ShortageError struct {
	Items []*InsufficientStockError
}

func (e *ShortageError) Error() string {
	parts := make([]string, len(e.Items))
	for i, it := range e.Items {
		parts[i] = it.Error()
	}
	return "cannot cook recipe: " + strings.Join(parts, "; ")
}

func (e *ShortageError) Unwrap() []error {
	errs := make([]error, len(e.Items))
	for i, it := range e.Items {
		errs[i] = it
	}
	return errs
}

// UnmatchedIngredientError reports an ingredient with no unit-compatible
// inventory item.
type UnmatchedIngredientError struct {
	Reference ingredients.Reference
	Reason    string
}

func (e *UnmatchedIngredientError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no inventory item for %q: %s", e.Reference.RawText, e.Reason)
	}
	return fmt.Sprintf("no inventory item matches %q", e.Reference.RawText)
}

// MissingIngredientsError reports that a recipe could not be fully resolved.
// Problems holds one *ingredients.ParseError or *UnmatchedIngredientError per
// entry in Names.
type MissingIngredientsError struct {
	Names    []string
	Problems []error
}

func (e *MissingIngredientsError) Error() string {
	if len(e.Names) == 0 {
		return "recipe has no usable ingredients"
	}
	return "missing ingredients: " + strings.Join(e.Names, ", ")
}

func (e *MissingIngredientsError) Unwrap() []error {
	return e.Problems
}

// CommitError wraps a storage failure during commit. Nothing was persisted.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing consumption: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
