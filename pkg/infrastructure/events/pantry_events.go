package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

const (
	ItemPurchasedEvent     = "item.purchased"
	ItemConsumedEvent      = "item.consumed"
	RecipeCookedEvent      = "recipe.cooked"
	StockInsufficientEvent = "stock.insufficient"
)

// ItemPurchased records one package received
type ItemPurchased struct {
	Entry entities.InventoryLogEntry `json:"entry"`
}

// ItemConsumed records an amount taken from stock
type ItemConsumed struct {
	Entry entities.InventoryLogEntry `json:"entry"`
}

// RecipeCooked records a committed cooking session
type RecipeCooked struct {
	RecipeIDs []entities.RecipeID `json:"recipe_ids"`
	ItemIDs   []entities.ItemID   `json:"item_ids"`
}

// StockInsufficient records an advisory shortfall found before cooking
type StockInsufficient struct {
	ItemID    entities.ItemID `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// NewLogEntryEvent wraps an inventory log entry in the event matching its kind
func NewLogEntryEvent(entry entities.InventoryLogEntry) Event {
	if entry.Kind == entities.Consumption {
		return NewEvent(ItemConsumedEvent, string(entry.ItemID), ItemConsumed{Entry: entry}, entry.At)
	}
	return NewEvent(ItemPurchasedEvent, string(entry.ItemID), ItemPurchased{Entry: entry}, entry.At)
}

// LogEntryOf extracts the inventory log entry carried by a purchase or
// consumption event
func LogEntryOf(event Event) (entities.InventoryLogEntry, bool) {
	switch data := event.Data().(type) {
	case ItemPurchased:
		return data.Entry, true
	case ItemConsumed:
		return data.Entry, true
	default:
		return entities.InventoryLogEntry{}, false
	}
}

// NewRecipeCookedEvent records the recipes and items of one cooking commit
func NewRecipeCookedEvent(recipeIDs []entities.RecipeID, itemIDs []entities.ItemID, at time.Time) Event {
	return NewEvent(RecipeCookedEvent, "cooking", RecipeCooked{RecipeIDs: recipeIDs, ItemIDs: itemIDs}, at)
}

// NewStockInsufficientEvent records an advisory shortfall for an item
func NewStockInsufficientEvent(itemID entities.ItemID, requested, available decimal.Decimal, at time.Time) Event {
	return NewEvent(StockInsufficientEvent, string(itemID), StockInsufficient{ItemID: itemID, Requested: requested, Available: available}, at)
}
