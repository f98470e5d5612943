package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecipeID identifies a recipe
type RecipeID string

// RecipeItem declares how much of an item a recipe nominally consumes
type RecipeItem struct {
	ItemID        ItemID
	DefaultAmount decimal.Decimal
}

// Recipe represents a named set of item consumptions
type Recipe struct {
	ID    RecipeID
	Name  string
	Items []RecipeItem
}

// NewRecipe creates a validated Recipe
func NewRecipe(id RecipeID, name string, items []RecipeItem) (*Recipe, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}

	seen := make(map[ItemID]bool, len(items))
	for _, ri := range items {
		if string(ri.ItemID) == "" {
			return nil, fmt.Errorf("recipe %s references an empty item id", id)
		}
		if seen[ri.ItemID] {
			return nil, fmt.Errorf("recipe %s lists item %s more than once", id, ri.ItemID)
		}
		if ri.DefaultAmount.IsNegative() {
			return nil, fmt.Errorf("recipe %s: default amount for %s cannot be negative, got %s", id, ri.ItemID, ri.DefaultAmount)
		}
		seen[ri.ItemID] = true
	}

	return &Recipe{ID: id, Name: name, Items: items}, nil
}

// Contains reports whether the recipe references the item
func (r *Recipe) Contains(id ItemID) bool {
	for _, ri := range r.Items {
		if ri.ItemID == id {
			return true
		}
	}
	return false
}
