package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus represents how an item's quantity compares with its refill threshold
type StockStatus int

const (
	StockError StockStatus = iota
	StockWarning
	StockOK
)

// String method for StockStatus enum
func (s StockStatus) String() string {
	switch s {
	case StockError:
		return "error"
	case StockWarning:
		return "warning"
	case StockOK:
		return "ok"
	default:
		return "unknown"
	}
}

// Rank orders statuses from most to least urgent: error < warning < ok
func (s StockStatus) Rank() int {
	return int(s)
}

// LogKind represents the kind of inventory movement
type LogKind int

const (
	Purchase LogKind = iota
	Consumption
)

// String method for LogKind enum
func (k LogKind) String() string {
	switch k {
	case Purchase:
		return "purchase"
	case Consumption:
		return "consume"
	default:
		return "unknown"
	}
}

// ParseLogKind converts a stored kind name into a LogKind
func ParseLogKind(s string) (LogKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase":
		return Purchase, nil
	case "consume":
		return Consumption, nil
	default:
		return Purchase, fmt.Errorf("invalid log kind: %s (expected purchase or consume)", s)
	}
}

// InventoryLogEntry records a single purchase or consumption of an item
type InventoryLogEntry struct {
	ID     uuid.UUID
	ItemID ItemID
	Kind   LogKind
	Amount decimal.Decimal
	At     time.Time
}

// NewInventoryLogEntry creates a validated InventoryLogEntry with a fresh id
func NewInventoryLogEntry(itemID ItemID, kind LogKind, amount decimal.Decimal, at time.Time) (*InventoryLogEntry, error) {
	if string(itemID) == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative, got %s", amount)
	}
	if at.IsZero() {
		return nil, fmt.Errorf("log entry for %s has no timestamp", itemID)
	}

	return &InventoryLogEntry{
		ID:     uuid.New(),
		ItemID: itemID,
		Kind:   kind,
		Amount: amount,
		At:     at,
	}, nil
}
