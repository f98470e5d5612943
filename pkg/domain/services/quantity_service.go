package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// CurrentQuantity returns the item's total stock. Dual-unit items report
// in the measurement unit, simple items report whole packages.
func CurrentQuantity(item *entities.Item) decimal.Decimal {
	if !item.IsDualUnit() {
		return item.PackedQuantity
	}
	return item.PackedQuantity.Mul(item.AmountPerPackage.Decimal).Add(item.UnpackedQuantity)
}

// QuantityInTargetUnit returns the current quantity expressed in the item's target unit
func QuantityInTargetUnit(item *entities.Item) decimal.Decimal {
	current := CurrentQuantity(item)
	if item.IsDualUnit() && item.TargetUnit == entities.PackageUnit {
		return current.Div(item.AmountPerPackage.Decimal)
	}
	return current
}

// ConsumptionStep converts the item's ConsumeAmount into the unit
// ConsumeItem expects
func ConsumptionStep(item *entities.Item) decimal.Decimal {
	if item.IsDualUnit() && item.TargetUnit == entities.PackageUnit {
		return item.ConsumeAmount.Mul(item.AmountPerPackage.Decimal)
	}
	return item.ConsumeAmount
}

// ProgressFraction returns quantity/target. A zero target counts as full.
func ProgressFraction(quantity, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return quantity.Div(target)
}

// NormalizeUnpacked folds whole packages' worth of unpacked stock back into
// the packed count. Simple-mode items are left alone.
func NormalizeUnpacked(item *entities.Item) {
	if !item.IsDualUnit() {
		return
	}

	per := item.AmountPerPackage.Decimal
	for item.UnpackedQuantity.GreaterThanOrEqual(per) {
		item.PackedQuantity = item.PackedQuantity.Add(decimal.NewFromInt(1))
		item.UnpackedQuantity = item.UnpackedQuantity.Sub(per)
	}
}

// ConsumeItem removes amount from the item in place. Dual-unit items use up
// the opened package before breaking new ones. Over-consumption floors the
// stock at zero.
func ConsumeItem(item *entities.Item, amount decimal.Decimal) {
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	if item.IsDualUnit() {
		consumeDualUnit(item, amount)
	} else {
		item.PackedQuantity = decimal.Max(decimal.Zero, item.PackedQuantity.Sub(amount))
	}

	if CurrentQuantity(item).IsZero() {
		item.DueDate = nil
	}
}

func consumeDualUnit(item *entities.Item, amount decimal.Decimal) {
	if item.UnpackedQuantity.GreaterThanOrEqual(amount) {
		item.UnpackedQuantity = item.UnpackedQuantity.Sub(amount)
		return
	}

	per := item.AmountPerPackage.Decimal
	remaining := amount.Sub(item.UnpackedQuantity)
	item.UnpackedQuantity = decimal.Zero

	packagesToOpen := remaining.Div(per).Ceil()
	item.PackedQuantity = item.PackedQuantity.Sub(packagesToOpen)
	item.UnpackedQuantity = packagesToOpen.Mul(per).Sub(remaining)

	if item.PackedQuantity.IsNegative() {
		item.PackedQuantity = decimal.Zero
		item.UnpackedQuantity = decimal.Zero
	}
}

// AddItem records one package received at purchaseDate. The estimated due
// date starts counting only when the purchase refills an empty item.
func AddItem(item *entities.Item, purchaseDate time.Time) {
	item.PackedQuantity = item.PackedQuantity.Add(decimal.NewFromInt(1))

	if item.EstimatedDueDays != nil && item.DueDate == nil && CurrentQuantity(item).IsPositive() {
		due := purchaseDate.AddDate(0, 0, *item.EstimatedDueDays)
		item.DueDate = &due
	}
}
