package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageType records why stock left a batch.
type UsageType string

const (
	UsageTypeCooking           UsageType = "COOKING"
	UsageTypeDirectConsumption UsageType = "DIRECT_CONSUMPTION"
)

func (u UsageType) String() string {
	return string(u)
}

// UsageLog is one batch draw-down. Rows outlive the batch's exhaustion.
type UsageLog struct {
	ID         string
	KitchenID  string
	ItemID     string
	BatchID    string
	UserID     string
	Quantity   decimal.Decimal
	UsageType  UsageType
	RecipeName *string
	MealLogID  *string
	Notes      *string
	UsedAt     time.Time

	// Joined fields
	ItemName string
	ItemUnit string
}

// MealType classifies a cooked meal by time of day.
type MealType string

const (
	MealTypeBreakfast MealType = "BREAKFAST"
	MealTypeLunch     MealType = "LUNCH"
	MealTypeDinner    MealType = "DINNER"
)

func (m MealType) String() string {
	return string(m)
}

// MealTypeAt returns the meal type for a local time: breakfast from 03:00
// to 10:59, lunch from 11:00 to 15:59, dinner otherwise.
func MealTypeAt(t time.Time) MealType {
	switch h := t.Hour(); {
	case h >= 3 && h < 11:
		return MealTypeBreakfast
	case h >= 11 && h < 16:
		return MealTypeLunch
	default:
		return MealTypeDinner
	}
}

// MealIngredient is one resolved ingredient of a cooked meal.
type MealIngredient struct {
	ItemID   string
	Name     string
	RawText  string
	Quantity decimal.Decimal
	Unit     string
}

// MealLog records a recipe that was cooked from the pantry.
type MealLog struct {
	ID          string
	KitchenID   string
	CookedBy    string
	MealName    string
	MealType    MealType
	Servings    int
	Ingredients []MealIngredient
	CookedAt    time.Time
}

// UsageFilter narrows usage history queries.
type UsageFilter struct {
	KitchenID string
	ItemID    string
	BatchID   string
	MealLogID string
	UsageType *UsageType
	StartDate *time.Time
	EndDate   *time.Time
}

// UsageList is a paginated list of usage logs.
type UsageList struct {
	Logs       []*UsageLog
	Total      int
	Page       int
	TotalPages int
}
