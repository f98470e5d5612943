// Package metrics counts pantry activity on a private prometheus registry.
// The Recorder subscribes to the event store, so counts follow the event
// log rather than call sites.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/pantry/pkg/infrastructure/events"
)

// Recorder turns pantry events into prometheus counters
type Recorder struct {
	registry *prometheus.Registry

	purchases      *prometheus.CounterVec
	consumptions   *prometheus.CounterVec
	consumedAmount *prometheus.CounterVec
	cooked         prometheus.Counter
	recipesCooked  *prometheus.CounterVec
	insufficient   *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		purchases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_purchases_total",
				Help: "Packages purchased",
			},
			[]string{"item"},
		),
		consumptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_consumptions_total",
				Help: "Consumption log entries",
			},
			[]string{"item"},
		),
		consumedAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_consumed_amount_total",
				Help: "Amount consumed, in the item's consumption unit",
			},
			[]string{"item"},
		),
		cooked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pantry_cooking_sessions_total",
				Help: "Committed cooking sessions",
			},
		),
		recipesCooked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_recipes_cooked_total",
				Help: "Recipes included in committed cooking sessions",
			},
			[]string{"recipe"},
		),
		insufficient: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pantry_insufficient_stock_total",
				Help: "Advisory shortfalls found before cooking",
			},
			[]string{"item"},
		),
	}

	r.registry.MustRegister(r.purchases, r.consumptions, r.consumedAmount, r.cooked, r.recipesCooked, r.insufficient)
	return r
}

var _ events.EventHandler = (*Recorder)(nil)

// EventTypes lists the event types the recorder subscribes to
func (r *Recorder) EventTypes() []string {
	return []string{
		events.ItemPurchasedEvent,
		events.ItemConsumedEvent,
		events.RecipeCookedEvent,
		events.StockInsufficientEvent,
	}
}

// Attach subscribes the recorder to store
func (r *Recorder) Attach(store events.EventStore) error {
	return store.Subscribe(r.EventTypes(), r)
}

// Registry exposes the recorder's registry for gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// CanHandle implements EventHandler
func (r *Recorder) CanHandle(eventType string) bool {
	for _, t := range r.EventTypes() {
		if t == eventType {
			return true
		}
	}
	return false
}

// Handle implements EventHandler
func (r *Recorder) Handle(event events.Event) error {
	switch data := event.Data().(type) {
	case events.ItemPurchased:
		r.purchases.WithLabelValues(string(data.Entry.ItemID)).Inc()
	case events.ItemConsumed:
		item := string(data.Entry.ItemID)
		r.consumptions.WithLabelValues(item).Inc()
		r.consumedAmount.WithLabelValues(item).Add(data.Entry.Amount.InexactFloat64())
	case events.RecipeCooked:
		r.cooked.Inc()
		for _, id := range data.RecipeIDs {
			r.recipesCooked.WithLabelValues(string(id)).Inc()
		}
	case events.StockInsufficient:
		r.insufficient.WithLabelValues(string(data.ItemID)).Inc()
	default:
		return fmt.Errorf("unexpected payload %T for event %s", event.Data(), event.Type())
	}
	return nil
}

// Snapshot is a flat view of the recorder's totals
type Snapshot struct {
	Purchases    float64 `json:"purchases"`
	Consumptions float64 `json:"consumptions"`
	Sessions     float64 `json:"cooking_sessions"`
	Insufficient float64 `json:"insufficient_stock"`
}

// Snapshot sums every counter across labels
func (r *Recorder) Snapshot() (Snapshot, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var snap Snapshot
	for _, family := range families {
		var total float64
		for _, m := range family.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		switch family.GetName() {
		case "pantry_purchases_total":
			snap.Purchases = total
		case "pantry_consumptions_total":
			snap.Consumptions = total
		case "pantry_cooking_sessions_total":
			snap.Sessions = total
		case "pantry_insufficient_stock_total":
			snap.Insufficient = total
		}
	}
	return snap, nil
}
