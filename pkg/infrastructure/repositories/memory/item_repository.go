package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage. It stores and returns
// clones, so callers never alias a stored snapshot.
type ItemRepository struct {
	mu       sync.RWMutex
	items    []*entities.Item
	itemsMap map[entities.ItemID]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]*entities.Item, 0, expectedItems),
		itemsMap: make(map[entities.ItemID]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems loads items into the repository, failing on the first duplicate id
func (r *ItemRepository) LoadItems(ctx context.Context, items []*entities.Item) error {
	for _, item := range items {
		if err := r.SaveItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// SaveItem adds a new item to the repository
func (r *ItemRepository) SaveItem(_ context.Context, item *entities.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.itemsMap[item.ID]; exists {
		return fmt.Errorf("item %s: %w", item.ID, repositories.ErrDuplicate)
	}
	r.itemsMap[item.ID] = len(r.items)
	r.items = append(r.items, item.Clone())
	return nil
}

// GetItem returns a copy of the item
func (r *ItemRepository) GetItem(_ context.Context, id entities.ItemID) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return nil, fmt.Errorf("item %s: %w", id, repositories.ErrNotFound)
	}
	return r.items[index].Clone(), nil
}

// GetAllItems returns copies of all items in insertion order
func (r *ItemRepository) GetAllItems(_ context.Context) ([]*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item.Clone())
	}
	return items, nil
}

// Update runs fn on a copy of the item while holding the write lock and
// stores the copy when fn succeeds
func (r *ItemRepository) Update(ctx context.Context, id entities.ItemID, fn func(item *entities.Item) error) (*entities.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return nil, fmt.Errorf("item %s: %w", id, repositories.ErrNotFound)
	}

	working := r.items[index].Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	r.items[index] = working
	return working.Clone(), nil
}
