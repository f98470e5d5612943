package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
	"github.com/vsinha/pantry/pkg/infrastructure/repositories/memory"
)

// Repositories bundles the memory repositories of a test scenario
type Repositories struct {
	Items   *memory.ItemRepository
	Tags    *memory.TagRepository
	Vendors *memory.VendorRepository
	Recipes *memory.RecipeRepository
	History *memory.InventoryLogRepository
	Events  *events.InMemoryEventStore
}

// NewRepositories creates empty repositories sharing one event store
func NewRepositories() *Repositories {
	store := events.NewInMemoryEventStore(logger.Discard())
	return &Repositories{
		Items:   memory.NewItemRepository(8),
		Tags:    memory.NewTagRepository(),
		Vendors: memory.NewVendorRepository(),
		Recipes: memory.NewRecipeRepository(),
		History: memory.NewInventoryLogRepository(store),
		Events:  store,
	}
}

// Dec parses a decimal literal, panicking on bad input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MustCreateItem is a helper for tests - panics on validation error
func MustCreateItem(id, name string, packed, target, threshold, consume string) *entities.Item {
	item, err := entities.NewItem(entities.ItemID(id), name, Dec(target), Dec(threshold), Dec(consume))
	if err != nil {
		panic(err)
	}
	item.PackedQuantity = Dec(packed)
	return item
}

// MustCreateDualItem is a helper for tests - panics on validation error
func MustCreateDualItem(id, name, pkg, meas, perPackage string, packed, unpacked, target, threshold, consume string) *entities.Item {
	item := MustCreateItem(id, name, packed, target, threshold, consume)
	if err := item.SetDualUnit(pkg, meas, Dec(perPackage)); err != nil {
		panic(err)
	}
	item.UnpackedQuantity = Dec(unpacked)
	return item
}

func mustCreateTagType(id, name, color string) *entities.TagType {
	tt, err := entities.NewTagType(entities.TagTypeID(id), name, color)
	if err != nil {
		panic(err)
	}
	return tt
}

func mustCreateTag(id, name, typeID string) *entities.Tag {
	tag, err := entities.NewTag(entities.TagID(id), name, entities.TagTypeID(typeID))
	if err != nil {
		panic(err)
	}
	return tag
}

func mustCreateVendor(id, name string) *entities.Vendor {
	v, err := entities.NewVendor(entities.VendorID(id), name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustCreateRecipe(id, name string, lines map[string]string, order ...string) *entities.Recipe {
	items := make([]entities.RecipeItem, 0, len(order))
	for _, itemID := range order {
		items = append(items, entities.RecipeItem{ItemID: entities.ItemID(itemID), DefaultAmount: Dec(lines[itemID])})
	}
	recipe, err := entities.NewRecipe(entities.RecipeID(id), name, items)
	if err != nil {
		panic(err)
	}
	return recipe
}

func tagged(item *entities.Item, tags []string, vendors ...string) *entities.Item {
	for _, t := range tags {
		item.TagIDs.Add(entities.TagID(t))
	}
	for _, v := range vendors {
		item.VendorIDs.Add(entities.VendorID(v))
	}
	return item
}

// PantryItems returns the items of the kitchen scenario:
//
//	carrots  simple, 3 of target 4
//	milk     dual-unit bottles of 1000 ml, 1 bottle + 500 ml open
//	rice     simple, empty
//	flour    dual-unit bags of 1000 g, 2 bags
//	apples   simple, full
func PantryItems() []*entities.Item {
	milk := MustCreateDualItem("milk", "Milk", "bottle", "ml", "1000", "1", "500", "2", "1", "0.25")
	days, warn := 7, 2
	milk.EstimatedDueDays = &days
	milk.ExpirationThreshold = &warn

	return []*entities.Item{
		tagged(MustCreateItem("carrots", "Carrots", "3", "4", "1", "1"), []string{"veg", "fridge"}, "market"),
		tagged(milk, []string{"dairy", "fridge"}, "grocer"),
		tagged(MustCreateItem("rice", "Rice", "0", "2", "1", "1"), []string{"grain", "shelf"}, "grocer"),
		tagged(MustCreateDualItem("flour", "Flour", "bag", "g", "1000", "2", "0", "1", "1", "0.1"), []string{"grain", "shelf"}),
		tagged(MustCreateItem("apples", "Apples", "6", "6", "2", "1"), []string{"fruit", "fridge"}, "market", "grocer"),
	}
}

// BuildPantryTestData builds the kitchen scenario: two tag facets, two
// vendors, five items and two recipes
func BuildPantryTestData() *Repositories {
	ctx := context.Background()
	repos := NewRepositories()

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(repos.Tags.LoadTagTypes(ctx, []*entities.TagType{
		mustCreateTagType("category", "Category", "#22c55e"),
		mustCreateTagType("location", "Location", "#38bdf8"),
	}))
	must(repos.Tags.LoadTags(ctx, []*entities.Tag{
		mustCreateTag("veg", "Vegetables", "category"),
		mustCreateTag("fruit", "Fruit", "category"),
		mustCreateTag("grain", "Grains", "category"),
		mustCreateTag("dairy", "Dairy", "category"),
		mustCreateTag("fridge", "Fridge", "location"),
		mustCreateTag("shelf", "Shelf", "location"),
	}))
	must(repos.Vendors.LoadVendors(ctx, []*entities.Vendor{
		mustCreateVendor("market", "Farmers Market"),
		mustCreateVendor("grocer", "Corner Grocer"),
	}))
	must(repos.Items.LoadItems(ctx, PantryItems()))
	must(repos.Recipes.LoadRecipes(ctx, []*entities.Recipe{
		mustCreateRecipe("pancakes", "Pancakes", map[string]string{"flour": "300", "milk": "250"}, "flour", "milk"),
		mustCreateRecipe("pilaf", "Pilaf", map[string]string{"rice": "1", "carrots": "2"}, "rice", "carrots"),
	}))

	return repos
}
