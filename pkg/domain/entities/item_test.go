package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestItem_Validation(t *testing.T) {
	validItem, err := NewItem("milk", "Milk", d("2"), d("1"), d("1"))
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if validItem.ID != "milk" {
		t.Errorf("Expected id milk, got %s", validItem.ID)
	}
	if validItem.TargetUnit != PackageUnit {
		t.Errorf("Expected package target unit, got %s", validItem.TargetUnit)
	}
	if validItem.IsDualUnit() {
		t.Error("Expected new item to be in simple mode")
	}

	testCases := []struct {
		name        string
		id          ItemID
		itemName    string
		target      decimal.Decimal
		threshold   decimal.Decimal
		consume     decimal.Decimal
		expectError string
	}{
		{"empty id", "", "Milk", d("1"), d("0"), d("1"), "item id cannot be empty"},
		{"empty name", "milk", "  ", d("1"), d("0"), d("1"), "item name cannot be empty"},
		{"negative target", "milk", "Milk", d("-1"), d("0"), d("1"), "target quantity cannot be negative, got -1"},
		{"negative threshold", "milk", "Milk", d("1"), d("-2"), d("1"), "refill threshold cannot be negative, got -2"},
		{"negative consume", "milk", "Milk", d("1"), d("0"), d("-0.5"), "consume amount cannot be negative, got -0.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.id, tc.itemName, tc.target, tc.threshold, tc.consume)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestItem_SetDualUnit(t *testing.T) {
	item, _ := NewItem("oil", "Olive Oil", d("1000"), d("250"), d("50"))

	if err := item.SetDualUnit("bottle", "ml", d("0")); err == nil {
		t.Error("Expected error for zero amount per package")
	}
	if err := item.SetDualUnit("", "ml", d("500")); err == nil {
		t.Error("Expected error for empty package unit")
	}
	if item.IsDualUnit() {
		t.Fatal("Failed SetDualUnit calls must leave the item in simple mode")
	}

	if err := item.SetDualUnit("bottle", "ml", d("500")); err != nil {
		t.Fatalf("Expected dual unit setup to succeed: %v", err)
	}
	if !item.IsDualUnit() {
		t.Error("Expected item to be in dual-unit mode")
	}
}

func TestItem_TargetUnitFollowsMeasurementUnit(t *testing.T) {
	item, _ := NewItem("oil", "Olive Oil", d("1000"), d("250"), d("50"))

	if err := item.SetTargetUnit(MeasurementUnit); err == nil {
		t.Fatal("Expected error selecting measurement target without a measurement unit")
	}

	_ = item.SetDualUnit("bottle", "ml", d("500"))
	if err := item.SetTargetUnit(MeasurementUnit); err != nil {
		t.Fatalf("Expected measurement target to be accepted: %v", err)
	}

	item.ClearMeasurementUnit()
	if item.TargetUnit != PackageUnit {
		t.Errorf("Expected target unit to revert to package, got %s", item.TargetUnit)
	}
	if item.IsDualUnit() {
		t.Error("Expected item without measurement unit to be in simple mode")
	}
}

func TestItem_Clone(t *testing.T) {
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	days := 7
	item, _ := NewItem("eggs", "Eggs", d("12"), d("4"), d("1"))
	item.TagIDs.Add("fridge")
	item.VendorIDs.Add("market")
	item.DueDate = &due
	item.EstimatedDueDays = &days

	clone := item.Clone()
	clone.TagIDs.Add("protein")
	clone.VendorIDs.Remove("market")
	*clone.DueDate = due.AddDate(0, 0, 1)
	*clone.EstimatedDueDays = 3
	clone.PackedQuantity = d("5")

	if item.TagIDs.Contains("protein") {
		t.Error("Clone shares tag set with original")
	}
	if !item.VendorIDs.Contains("market") {
		t.Error("Clone shares vendor set with original")
	}
	if !item.DueDate.Equal(due) {
		t.Error("Clone shares due date with original")
	}
	if *item.EstimatedDueDays != 7 {
		t.Error("Clone shares estimated due days with original")
	}
	if !item.PackedQuantity.IsZero() {
		t.Error("Clone shares packed quantity with original")
	}
}

func TestParseTargetUnit(t *testing.T) {
	for input, want := range map[string]TargetUnit{"": PackageUnit, "package": PackageUnit, " Measurement ": MeasurementUnit} {
		got, err := ParseTargetUnit(input)
		if err != nil {
			t.Fatalf("ParseTargetUnit(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseTargetUnit(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseTargetUnit("litre"); err == nil {
		t.Error("Expected error for unknown target unit")
	}
}
