package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/application/services/cooking"
	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/services"
)

// ListQuery selects and orders the items of a list view
type ListQuery struct {
	Filter    entities.FilterState
	Field     sorting.Field
	Direction sorting.Direction
}

// ItemView is an item with the values derived for display
type ItemView struct {
	Item *entities.Item

	// Quantity is expressed in the item's target unit
	Quantity decimal.Decimal
	Status   entities.StockStatus
	Fraction decimal.Decimal

	LastPurchase *time.Time
	Expiration   *services.Expiration
}

// TagCount is the result size of selecting one more tag
type TagCount struct {
	Type  *entities.TagType
	Tag   *entities.Tag
	Count int
}

// CookResult contains the outcome of a committed cooking session
type CookResult struct {
	Requirements []cooking.Requirement
	Shortfalls   []cooking.Requirement
	Consumed     []cooking.Consumption
	RecipeIDs    []entities.RecipeID
}
