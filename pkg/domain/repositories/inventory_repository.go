package repositories

import (
	"context"
	"time"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// InventoryLogRepository provides access to the purchase and consumption history
type InventoryLogRepository interface {
	Record(ctx context.Context, entry *entities.InventoryLogEntry) error
	Entries(ctx context.Context, itemID entities.ItemID) ([]*entities.InventoryLogEntry, error)
	AllEntries(ctx context.Context) ([]*entities.InventoryLogEntry, error)

	// LastPurchases returns the most recent purchase time per item. Items
	// never purchased have no entry.
	LastPurchases(ctx context.Context) (map[entities.ItemID]time.Time, error)
}
