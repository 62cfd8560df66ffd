// Package seed provides demo data for populating a kitchen.
package seed

// Staple is one catalog entry the generator stocks.
type Staple struct {
	Name     string
	Unit     string
	Category string // category code

	// ShelfLifeDays is zero for items that do not expire.
	ShelfLifeDays int

	// MinQty and MaxQty bound a batch's quantity, in Unit.
	MinQty int
	MaxQty int
}

// Catalog is the default demo pantry.
var Catalog = []Staple{
	{Name: "Tomatoes", Unit: "grams", Category: "produce", ShelfLifeDays: 7, MinQty: 250, MaxQty: 1000},
	{Name: "Onion", Unit: "grams", Category: "produce", ShelfLifeDays: 30, MinQty: 200, MaxQty: 1500},
	{Name: "Garlic", Unit: "pieces", Category: "produce", ShelfLifeDays: 60, MinQty: 2, MaxQty: 6},
	{Name: "Carrots", Unit: "grams", Category: "produce", ShelfLifeDays: 21, MinQty: 300, MaxQty: 1000},
	{Name: "Fresh Basil", Unit: "grams", Category: "produce", ShelfLifeDays: 5, MinQty: 20, MaxQty: 60},
	{Name: "Whole Milk", Unit: "ml", Category: "dairy", ShelfLifeDays: 8, MinQty: 500, MaxQty: 2000},
	{Name: "Butter", Unit: "grams", Category: "dairy", ShelfLifeDays: 45, MinQty: 100, MaxQty: 500},
	{Name: "Eggs", Unit: "pieces", Category: "dairy", ShelfLifeDays: 28, MinQty: 6, MaxQty: 18},
	{Name: "Cheddar Cheese", Unit: "grams", Category: "dairy", ShelfLifeDays: 40, MinQty: 150, MaxQty: 400},
	{Name: "Chicken Breast", Unit: "grams", Category: "meat", ShelfLifeDays: 3, MinQty: 300, MaxQty: 1200},
	{Name: "Ground Beef", Unit: "grams", Category: "meat", ShelfLifeDays: 2, MinQty: 250, MaxQty: 1000},
	{Name: "Basmati Rice", Unit: "kg", Category: "grains", MinQty: 1, MaxQty: 5},
	{Name: "Spaghetti", Unit: "grams", Category: "grains", ShelfLifeDays: 720, MinQty: 500, MaxQty: 1000},
	{Name: "Flour", Unit: "kg", Category: "grains", ShelfLifeDays: 240, MinQty: 1, MaxQty: 2},
	{Name: "Salt", Unit: "grams", Category: "spices", MinQty: 250, MaxQty: 1000},
	{Name: "Black Pepper", Unit: "grams", Category: "spices", ShelfLifeDays: 900, MinQty: 30, MaxQty: 100},
	{Name: "Olive Oil", Unit: "ml", Category: "other", ShelfLifeDays: 540, MinQty: 250, MaxQty: 1000},
	{Name: "Canned Chickpeas", Unit: "grams", Category: "canned", ShelfLifeDays: 1080, MinQty: 400, MaxQty: 800},
	{Name: "Orange Juice", Unit: "liters", Category: "beverages", ShelfLifeDays: 10, MinQty: 1, MaxQty: 2},
	{Name: "Vanilla Extract", Unit: "", Category: "spices", ShelfLifeDays: 1500, MinQty: 1, MaxQty: 2},
}

// Members are the kitchen members batches are attributed to.
var Members = []string{"alex", "sam", "jordan", "riley"}
