package metrics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
)

func entry(item entities.ItemID, kind entities.LogKind, amount string) entities.InventoryLogEntry {
	return entities.InventoryLogEntry{
		ID:     uuid.New(),
		ItemID: item,
		Kind:   kind,
		Amount: decimal.RequireFromString(amount),
		At:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecorder_CountsStoreEvents(t *testing.T) {
	store := events.NewInMemoryEventStore(logger.Discard())
	r := NewRecorder()
	require.NoError(t, r.Attach(store))

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendEvent("milk", events.NewLogEntryEvent(entry("milk", entities.Purchase, "1"))))
	require.NoError(t, store.AppendEvent("milk", events.NewLogEntryEvent(entry("milk", entities.Purchase, "1"))))
	require.NoError(t, store.AppendEvent("milk", events.NewLogEntryEvent(entry("milk", entities.Consumption, "0.25"))))
	require.NoError(t, store.AppendEvent("flour", events.NewStockInsufficientEvent("flour", decimal.NewFromInt(6), decimal.NewFromInt(5), at)))
	require.NoError(t, store.AppendEvent("cooking", events.NewRecipeCookedEvent([]entities.RecipeID{"pie", "soup"}, []entities.ItemID{"milk"}, at)))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.purchases.WithLabelValues("milk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.consumptions.WithLabelValues("milk")))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.consumedAmount.WithLabelValues("milk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cooked))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.recipesCooked.WithLabelValues("soup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.insufficient.WithLabelValues("flour")))

	snap, err := r.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Purchases: 2, Consumptions: 1, Sessions: 1, Insufficient: 1}, snap)
}

func TestRecorder_RejectsUnknownPayload(t *testing.T) {
	r := NewRecorder()
	assert.True(t, r.CanHandle(events.RecipeCookedEvent))
	assert.False(t, r.CanHandle("item.renamed"))

	err := r.Handle(events.NewEvent(events.ItemPurchasedEvent, "milk", "not a payload", time.Now()))
	assert.Error(t, err)
}
