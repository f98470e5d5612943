package repositories

import (
	"context"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// ItemRepository provides access to item snapshots
type ItemRepository interface {
	GetItem(ctx context.Context, id entities.ItemID) (*entities.Item, error)
	GetAllItems(ctx context.Context) ([]*entities.Item, error)
	LoadItems(ctx context.Context, items []*entities.Item) error
	SaveItem(ctx context.Context, item *entities.Item) error

	// Update hands fn an owned copy of the item and commits it atomically
	// when fn returns nil. Concurrent updates of one item are serialized.
	Update(ctx context.Context, id entities.ItemID, fn func(item *entities.Item) error) (*entities.Item, error)
}
