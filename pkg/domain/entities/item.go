package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemID represents a stable, opaque item identifier
type ItemID string

// TargetUnit selects the unit TargetQuantity, RefillThreshold and ConsumeAmount are expressed in
type TargetUnit int

const (
	PackageUnit TargetUnit = iota
	MeasurementUnit
)

// String method for TargetUnit enum
func (u TargetUnit) String() string {
	switch u {
	case PackageUnit:
		return "package"
	case MeasurementUnit:
		return "measurement"
	default:
		return "unknown"
	}
}

// ParseTargetUnit converts a stored unit name into a TargetUnit. An empty
// string is treated as package.
func ParseTargetUnit(s string) (TargetUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "package":
		return PackageUnit, nil
	case "measurement":
		return MeasurementUnit, nil
	default:
		return PackageUnit, fmt.Errorf("invalid target unit: %s (expected package or measurement)", s)
	}
}

// Item represents a tracked household consumable
type Item struct {
	ID   ItemID
	Name string

	PackageUnit      string
	MeasurementUnit  string
	AmountPerPackage decimal.NullDecimal

	PackedQuantity   decimal.Decimal
	UnpackedQuantity decimal.Decimal

	TargetQuantity  decimal.Decimal
	RefillThreshold decimal.Decimal
	TargetUnit      TargetUnit
	ConsumeAmount   decimal.Decimal

	ExpirationThreshold *int
	EstimatedDueDays    *int
	DueDate             *time.Time

	TagIDs    Set[TagID]
	VendorIDs Set[VendorID]
}

// NewItem creates a validated simple-mode Item
func NewItem(id ItemID, name string, targetQuantity, refillThreshold, consumeAmount decimal.Decimal) (*Item, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if targetQuantity.IsNegative() {
		return nil, fmt.Errorf("target quantity cannot be negative, got %s", targetQuantity)
	}
	if refillThreshold.IsNegative() {
		return nil, fmt.Errorf("refill threshold cannot be negative, got %s", refillThreshold)
	}
	if consumeAmount.IsNegative() {
		return nil, fmt.Errorf("consume amount cannot be negative, got %s", consumeAmount)
	}

	return &Item{
		ID:              id,
		Name:            name,
		TargetQuantity:  targetQuantity,
		RefillThreshold: refillThreshold,
		TargetUnit:      PackageUnit,
		ConsumeAmount:   consumeAmount,
		TagIDs:          NewSet[TagID](),
		VendorIDs:       NewSet[VendorID](),
	}, nil
}

// SetDualUnit switches the item into dual-unit mode
func (i *Item) SetDualUnit(packageUnit, measurementUnit string, amountPerPackage decimal.Decimal) error {
	if strings.TrimSpace(packageUnit) == "" {
		return fmt.Errorf("package unit cannot be empty")
	}
	if strings.TrimSpace(measurementUnit) == "" {
		return fmt.Errorf("measurement unit cannot be empty")
	}
	if !amountPerPackage.IsPositive() {
		return fmt.Errorf("amount per package must be positive, got %s", amountPerPackage)
	}

	i.PackageUnit = packageUnit
	i.MeasurementUnit = measurementUnit
	i.AmountPerPackage = decimal.NewNullDecimal(amountPerPackage)
	return nil
}

// ClearMeasurementUnit drops the measurement unit. A measurement target
// cannot outlive it, so TargetUnit reverts to package.
func (i *Item) ClearMeasurementUnit() {
	i.MeasurementUnit = ""
	if i.TargetUnit == MeasurementUnit {
		i.TargetUnit = PackageUnit
	}
}

// SetTargetUnit changes the target unit
func (i *Item) SetTargetUnit(unit TargetUnit) error {
	if unit == MeasurementUnit && i.MeasurementUnit == "" {
		return fmt.Errorf("item %s has no measurement unit", i.ID)
	}
	i.TargetUnit = unit
	return nil
}

// IsDualUnit reports whether package unit, measurement unit and amount per package are all present
func (i *Item) IsDualUnit() bool {
	return i.PackageUnit != "" &&
		i.MeasurementUnit != "" &&
		i.AmountPerPackage.Valid &&
		i.AmountPerPackage.Decimal.IsPositive()
}

// HasTag reports whether the item carries the tag
func (i *Item) HasTag(id TagID) bool {
	return i.TagIDs.Contains(id)
}

// Clone returns a deep copy the caller owns exclusively
func (i *Item) Clone() *Item {
	c := *i
	c.TagIDs = i.TagIDs.Clone()
	c.VendorIDs = i.VendorIDs.Clone()
	if i.ExpirationThreshold != nil {
		v := *i.ExpirationThreshold
		c.ExpirationThreshold = &v
	}
	if i.EstimatedDueDays != nil {
		v := *i.EstimatedDueDays
		c.EstimatedDueDays = &v
	}
	if i.DueDate != nil {
		v := *i.DueDate
		c.DueDate = &v
	}
	return &c
}
