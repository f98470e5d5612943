package services

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// ClassifyStock maps a quantity and refill threshold onto a stock status.
// A zero threshold never yields a warning.
func ClassifyStock(current, refillThreshold decimal.Decimal) entities.StockStatus {
	switch {
	case current.LessThan(refillThreshold):
		return entities.StockError
	case refillThreshold.IsPositive() && current.Equal(refillThreshold):
		return entities.StockWarning
	default:
		return entities.StockOK
	}
}

// StockStatusOf classifies the item's own quantity in its target unit
func StockStatusOf(item *entities.Item) entities.StockStatus {
	return ClassifyStock(QuantityInTargetUnit(item), item.RefillThreshold)
}

// NeedsRestock reports whether the item belongs on a shopping list: its
// stock is low or it sits below its target quantity
func NeedsRestock(item *entities.Item, quantity decimal.Decimal) bool {
	if ClassifyStock(quantity, item.RefillThreshold) != entities.StockOK {
		return true
	}
	return quantity.LessThan(item.TargetQuantity)
}
