package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
)

// InventoryLogRepository is a projection of the purchase and consumption
// events in an event store. Every item has its own stream.
type InventoryLogRepository struct {
	store events.EventStore
}

// NewInventoryLogRepository creates a log repository backed by store
func NewInventoryLogRepository(store events.EventStore) *InventoryLogRepository {
	return &InventoryLogRepository{store: store}
}

// Verify interface compliance
var _ repositories.InventoryLogRepository = (*InventoryLogRepository)(nil)

// Record appends entry to its item's stream
func (r *InventoryLogRepository) Record(ctx context.Context, entry *entities.InventoryLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.store.AppendEvent(string(entry.ItemID), events.NewLogEntryEvent(*entry)); err != nil {
		return fmt.Errorf("failed to record %s of %s: %w", entry.Kind, entry.ItemID, err)
	}
	return nil
}

// Entries returns the item's history in append order
func (r *InventoryLogRepository) Entries(_ context.Context, itemID entities.ItemID) ([]*entities.InventoryLogEntry, error) {
	stream, err := r.store.ReadEvents(string(itemID), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read history of %s: %w", itemID, err)
	}
	return entriesOf(stream), nil
}

// AllEntries returns the history of every item in append order
func (r *InventoryLogRepository) AllEntries(_ context.Context) ([]*entities.InventoryLogEntry, error) {
	all, err := r.store.ReadAllEvents(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory history: %w", err)
	}
	return entriesOf(all), nil
}

// LastPurchases returns the latest purchase time per item
func (r *InventoryLogRepository) LastPurchases(ctx context.Context) (map[entities.ItemID]time.Time, error) {
	entries, err := r.AllEntries(ctx)
	if err != nil {
		return nil, err
	}

	last := make(map[entities.ItemID]time.Time)
	for _, entry := range entries {
		if entry.Kind != entities.Purchase {
			continue
		}
		if prev, ok := last[entry.ItemID]; !ok || entry.At.After(prev) {
			last[entry.ItemID] = entry.At
		}
	}
	return last, nil
}

func entriesOf(stream []events.Event) []*entities.InventoryLogEntry {
	entries := make([]*entities.InventoryLogEntry, 0, len(stream))
	for _, event := range stream {
		if entry, ok := events.LogEntryOf(event); ok {
			entries = append(entries, &entry)
		}
	}
	return entries
}
