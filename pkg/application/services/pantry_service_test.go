package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pantry/pkg/application/dto"
	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
	"github.com/vsinha/pantry/pkg/infrastructure/metrics"
	fixtures "github.com/vsinha/pantry/pkg/infrastructure/testing"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T, repos *fixtures.Repositories, c *clock) *PantryService {
	t.Helper()
	svc, err := NewPantryService(Dependencies{
		Items:   repos.Items,
		Tags:    repos.Tags,
		Vendors: repos.Vendors,
		Recipes: repos.Recipes,
		History: repos.History,
		Events:  repos.Events,
		Log:     logger.Discard(),
		Now:     c.Now,
	})
	require.NoError(t, err)
	return svc
}

func viewIDs(views []dto.ItemView) []entities.ItemID {
	out := make([]entities.ItemID, 0, len(views))
	for _, v := range views {
		out = append(out, v.Item.ID)
	}
	return out
}

func TestNewPantryService_RequiresCollaborators(t *testing.T) {
	repos := fixtures.NewRepositories()
	_, err := NewPantryService(Dependencies{Items: repos.Items})
	assert.Error(t, err)

	svc, err := NewPantryService(Dependencies{
		Items: repos.Items, Tags: repos.Tags, Vendors: repos.Vendors,
		Recipes: repos.Recipes, History: repos.History, Events: repos.Events,
	})
	require.NoError(t, err)
	assert.NotNil(t, svc.now)
	assert.NotNil(t, svc.log)
}

func TestPurchase_RecordsAndStartsDueDate(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	milk, err := svc.Purchase(ctx, "milk")
	require.NoError(t, err)
	assert.Equal(t, "2", milk.PackedQuantity.String())
	require.NotNil(t, milk.DueDate)
	assert.Equal(t, t0.AddDate(0, 0, 7), *milk.DueDate)

	stored, err := repos.Items.GetItem(ctx, "milk")
	require.NoError(t, err)
	assert.Equal(t, "2", stored.PackedQuantity.String(), "committed to the repository")

	history, err := svc.History(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entities.Purchase, history[0].Kind)
	assert.Equal(t, t0, history[0].At)

	_, err = svc.Purchase(ctx, "bread")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestConsume(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	milk, consumed, err := svc.ConsumeDefault(ctx, "milk")
	require.NoError(t, err)
	assert.Equal(t, "250", consumed.Consumed.String(), "a quarter bottle")
	assert.Equal(t, "1", milk.PackedQuantity.String())
	assert.Equal(t, "250", milk.UnpackedQuantity.String())

	_, consumed, err = svc.Consume(ctx, "rice", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, consumed.Consumed.IsZero(), "empty item stays empty")

	riceLog, err := svc.History(ctx, "rice")
	require.NoError(t, err)
	assert.Empty(t, riceLog, "nothing left stock, nothing logged")

	milkLog, err := svc.History(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, milkLog, 1)
	assert.Equal(t, entities.Consumption, milkLog[0].Kind)
	assert.Equal(t, "250", milkLog[0].Amount.String())
}

type failingHistory struct {
	repositories.InventoryLogRepository
}

func (failingHistory) Record(context.Context, *entities.InventoryLogEntry) error {
	return errors.New("disk full")
}

func TestPurchase_FailedRecordDiscardsMutation(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	svc, err := NewPantryService(Dependencies{
		Items: repos.Items, Tags: repos.Tags, Vendors: repos.Vendors,
		Recipes: repos.Recipes, History: failingHistory{repos.History}, Events: repos.Events,
	})
	require.NoError(t, err)

	_, err = svc.Purchase(ctx, "carrots")
	require.Error(t, err)

	carrots, err := repos.Items.GetItem(ctx, "carrots")
	require.NoError(t, err)
	assert.Equal(t, "3", carrots.PackedQuantity.String())
}

func TestCook_ConsumesAndReportsShortfalls(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	recorder := metrics.NewRecorder()
	require.NoError(t, recorder.Attach(repos.Events))
	svc := newService(t, repos, &clock{now: t0})

	selections, err := svc.NewSelections(ctx, []entities.RecipeID{"pancakes", "pilaf"})
	require.NoError(t, err)

	result, err := svc.Cook(ctx, selections)
	require.NoError(t, err)

	assert.Len(t, result.Requirements, 4)
	require.Len(t, result.Shortfalls, 1)
	assert.Equal(t, entities.ItemID("rice"), result.Shortfalls[0].ItemID)
	assert.Equal(t, []entities.RecipeID{"pancakes", "pilaf"}, result.RecipeIDs)

	flour, err := repos.Items.GetItem(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, "1", flour.PackedQuantity.String(), "one bag opened")
	assert.Equal(t, "700", flour.UnpackedQuantity.String())

	carrots, err := repos.Items.GetItem(ctx, "carrots")
	require.NoError(t, err)
	assert.Equal(t, "1", carrots.PackedQuantity.String())

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap.Insufficient)
	assert.Equal(t, 1.0, snap.Sessions)
	assert.Equal(t, 3.0, snap.Consumptions, "rice had nothing to give")

	cooked, err := repos.Events.ReadEvents("cooking", 1)
	require.NoError(t, err)
	require.Len(t, cooked, 1)
	assert.Equal(t, events.RecipeCookedEvent, cooked[0].Type())
}

func TestCook_UnknownItemIsNotAShortfall(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	toast, err := entities.NewRecipe("toast", "Toast", []entities.RecipeItem{
		{ItemID: "bread", DefaultAmount: decimal.NewFromInt(1)},
		{ItemID: "flour", DefaultAmount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	require.NoError(t, repos.Recipes.LoadRecipes(ctx, []*entities.Recipe{toast}))

	recorder := metrics.NewRecorder()
	require.NoError(t, recorder.Attach(repos.Events))
	svc := newService(t, repos, &clock{now: t0})

	selections, err := svc.NewSelections(ctx, []entities.RecipeID{"toast"})
	require.NoError(t, err)
	result, err := svc.Cook(ctx, selections)
	require.NoError(t, err)

	require.Len(t, result.Requirements, 1)
	assert.Equal(t, entities.ItemID("flour"), result.Requirements[0].ItemID)
	assert.Empty(t, result.Shortfalls)
	require.Len(t, result.Consumed, 1)
	assert.Equal(t, "100", result.Consumed[0].Consumed.String())

	bread, err := repos.Events.ReadEvents("bread", 1)
	require.NoError(t, err)
	assert.Empty(t, bread)

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.Insufficient)
	assert.Equal(t, 1.0, snap.Consumptions)
}

func TestCook_SkipsUncheckedAndEmpty(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	selections, err := svc.NewSelections(ctx, []entities.RecipeID{"pilaf"})
	require.NoError(t, err)
	selections[0].Checked = false

	result, err := svc.Cook(ctx, selections)
	require.NoError(t, err)
	assert.Empty(t, result.Requirements)
	assert.Empty(t, result.Consumed)

	all, err := repos.Events.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Empty(t, all, "nothing to cook publishes nothing")

	_, err = svc.NewSelections(ctx, []entities.RecipeID{"soup"})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestListItems_SortsByStock(t *testing.T) {
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	views, err := svc.ListItems(context.Background(), dto.ListQuery{Field: sorting.ByStock})
	require.NoError(t, err)
	assert.Equal(t, []entities.ItemID{"rice", "carrots", "milk", "apples", "flour"}, viewIDs(views))

	assert.Equal(t, entities.StockError, views[0].Status)
	assert.Equal(t, "1.5", views[2].Quantity.String(), "milk in bottles")
	assert.Equal(t, "0.75", views[2].Fraction.String())
}

func TestListItems_Filters(t *testing.T) {
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	views, err := svc.ListItems(context.Background(), dto.ListQuery{
		Filter: entities.FilterState{
			Tags:      entities.TagFilter{"location": {"fridge"}},
			VendorIDs: []entities.VendorID{"market"},
		},
		Direction: sorting.Descending,
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.ItemID{"carrots", "apples"}, viewIDs(views))
}

func TestListItems_ExpirationFromLastPurchase(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.BuildPantryTestData()
	c := &clock{now: t0}
	svc := newService(t, repos, c)

	_, err := svc.Purchase(ctx, "milk")
	require.NoError(t, err)

	c.now = t0.AddDate(0, 0, 6)
	views, err := svc.ListItems(ctx, dto.ListQuery{Filter: entities.FilterState{Search: "milk"}})
	require.NoError(t, err)
	require.Len(t, views, 1)

	require.NotNil(t, views[0].LastPurchase)
	require.NotNil(t, views[0].Expiration)
	assert.Equal(t, 1, views[0].Expiration.DaysUntil)
	assert.True(t, views[0].Expiration.Warning)
	assert.Equal(t, "expires in 1 day", views[0].Expiration.Describe())
}

func TestShoppingList(t *testing.T) {
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	views, err := svc.ShoppingList(context.Background(), dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []entities.ItemID{"carrots", "milk", "rice"}, viewIDs(views))
}

func TestTagCounts(t *testing.T) {
	repos := fixtures.BuildPantryTestData()
	svc := newService(t, repos, &clock{now: t0})

	counts, err := svc.TagCounts(context.Background(), entities.FilterState{
		Tags: entities.TagFilter{"location": {"fridge"}},
	})
	require.NoError(t, err)
	require.Len(t, counts, 6)

	byTag := make(map[entities.TagID]int)
	for _, c := range counts {
		byTag[c.Tag.ID] = c.Count
	}
	assert.Equal(t, map[entities.TagID]int{
		"veg": 1, "fruit": 1, "grain": 0, "dairy": 1,
		"fridge": 3, "shelf": 5,
	}, byTag)

	counts, err = svc.TagCounts(context.Background(), entities.FilterState{
		Tags:      entities.TagFilter{"location": {"fridge"}},
		VendorIDs: []entities.VendorID{"grocer"},
	})
	require.NoError(t, err)
	for _, c := range counts {
		switch c.Tag.ID {
		case "shelf":
			assert.Equal(t, 3, c.Count)
		case "veg":
			assert.Equal(t, 0, c.Count)
		}
	}
}

func TestPurchase_CountedByRecorder(t *testing.T) {
	repos := fixtures.BuildPantryTestData()
	recorder := metrics.NewRecorder()
	require.NoError(t, recorder.Attach(repos.Events))
	svc := newService(t, repos, &clock{now: t0})

	for i := 0; i < 3; i++ {
		_, err := svc.Purchase(context.Background(), "rice")
		require.NoError(t, err)
	}

	series, err := testutil.GatherAndCount(recorder.Registry(), "pantry_purchases_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series, "one label per item")

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3.0, snap.Purchases)
}
