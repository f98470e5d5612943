package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/application/dto"
	"github.com/vsinha/pantry/pkg/application/services/cooking"
	"github.com/vsinha/pantry/pkg/application/services/filtering"
	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
	domain "github.com/vsinha/pantry/pkg/domain/services"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
)

// Dependencies holds the collaborators of a PantryService
type Dependencies struct {
	Items   repositories.ItemRepository
	Tags    repositories.TagRepository
	Vendors repositories.VendorRepository
	Recipes repositories.RecipeRepository
	History repositories.InventoryLogRepository
	Events  events.EventStore

	// Log defaults to a discarding logger, Now to time.Now
	Log *logger.Logger
	Now func() time.Time
}

// PantryService runs every mutation as one Update of the item repository
// and records it in the inventory log
type PantryService struct {
	items   repositories.ItemRepository
	tags    repositories.TagRepository
	vendors repositories.VendorRepository
	recipes repositories.RecipeRepository
	history repositories.InventoryLogRepository
	events  events.EventStore
	log     *logger.Logger
	now     func() time.Time
}

// NewPantryService creates a service over deps
func NewPantryService(deps Dependencies) (*PantryService, error) {
	switch {
	case deps.Items == nil:
		return nil, fmt.Errorf("item repository is required")
	case deps.Tags == nil:
		return nil, fmt.Errorf("tag repository is required")
	case deps.Vendors == nil:
		return nil, fmt.Errorf("vendor repository is required")
	case deps.Recipes == nil:
		return nil, fmt.Errorf("recipe repository is required")
	case deps.History == nil:
		return nil, fmt.Errorf("inventory log repository is required")
	case deps.Events == nil:
		return nil, fmt.Errorf("event store is required")
	}

	s := &PantryService{
		items:   deps.Items,
		tags:    deps.Tags,
		vendors: deps.Vendors,
		recipes: deps.Recipes,
		history: deps.History,
		events:  deps.Events,
		log:     deps.Log,
		now:     deps.Now,
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Purchase adds one package to the item
func (s *PantryService) Purchase(ctx context.Context, id entities.ItemID) (*entities.Item, error) {
	at := s.now()

	updated, err := s.items.Update(ctx, id, func(item *entities.Item) error {
		domain.AddItem(item, at)
		return s.record(ctx, item.ID, entities.Purchase, decimal.NewFromInt(1), at)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to purchase %s: %w", id, err)
	}

	s.log.Info("purchased %s, now %s", id, domain.QuantityInTargetUnit(updated))
	return updated, nil
}

// Consume removes amount, in consumption units, from the item. Stock
// floors at zero; the returned consumption reports what actually left.
func (s *PantryService) Consume(ctx context.Context, id entities.ItemID, amount decimal.Decimal) (*entities.Item, cooking.Consumption, error) {
	at := s.now()

	var consumed cooking.Consumption
	updated, err := s.items.Update(ctx, id, func(item *entities.Item) error {
		consumed = cooking.ConsumeRequirement(item, amount)
		if !consumed.Consumed.IsPositive() {
			return nil
		}
		return s.record(ctx, item.ID, entities.Consumption, consumed.Consumed, at)
	})
	if err != nil {
		return nil, cooking.Consumption{}, fmt.Errorf("failed to consume %s: %w", id, err)
	}

	if consumed.Consumed.LessThan(consumed.Requested) {
		s.log.Warn("consumed %s of %s requested from %s", consumed.Consumed, consumed.Requested, id)
	}
	s.log.Info("consumed %s from %s, %s left", consumed.Consumed, id, consumed.Remaining)
	return updated, consumed, nil
}

// ConsumeDefault consumes the item's own ConsumeAmount
func (s *PantryService) ConsumeDefault(ctx context.Context, id entities.ItemID) (*entities.Item, cooking.Consumption, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, cooking.Consumption{}, fmt.Errorf("failed to consume %s: %w", id, err)
	}
	return s.Consume(ctx, id, domain.ConsumptionStep(item))
}

func (s *PantryService) record(ctx context.Context, id entities.ItemID, kind entities.LogKind, amount decimal.Decimal, at time.Time) error {
	entry, err := entities.NewInventoryLogEntry(id, kind, amount, at)
	if err != nil {
		return err
	}
	if err := s.history.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record %s: %w", kind, err)
	}
	return nil
}

// Cook aggregates the checked selections and consumes the result. Stock
// shortfalls are reported and published but never block the commit.
func (s *PantryService) Cook(ctx context.Context, selections []*cooking.Selection) (*dto.CookResult, error) {
	snapshot, err := s.itemIndex(ctx)
	if err != nil {
		return nil, err
	}

	plan := cooking.NewPlan(selections, snapshot)
	recipeIDs := plan.RecipeIDs()

	reqs, unknown := cooking.Known(plan.Requirements, snapshot)
	for _, id := range unknown {
		s.log.Warn("skipping unknown item %s", id)
	}

	result := &dto.CookResult{
		Requirements: reqs,
		Shortfalls:   cooking.Shortfalls(reqs),
		RecipeIDs:    recipeIDs,
	}
	if len(reqs) == 0 {
		return result, nil
	}

	at := s.now()
	for _, short := range result.Shortfalls {
		s.log.Warn("not enough %s: need %s, have %s", short.ItemID, short.Amount, short.Available)
		event := events.NewStockInsufficientEvent(short.ItemID, short.Amount, short.Available, at)
		if err := s.events.AppendEvent(string(short.ItemID), event); err != nil {
			s.log.Error("failed to publish shortfall for %s: %v", short.ItemID, err)
		}
	}

	consumed, err := cooking.CommitWith(reqs, func(req cooking.Requirement) (cooking.Consumption, bool, error) {
		var c cooking.Consumption
		_, err := s.items.Update(ctx, req.ItemID, func(item *entities.Item) error {
			c = cooking.ConsumeRequirement(item, req.Amount)
			if !c.Consumed.IsPositive() {
				return nil
			}
			return s.record(ctx, item.ID, entities.Consumption, c.Consumed, at)
		})
		// removed since the snapshot was taken
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn("skipping unknown item %s", req.ItemID)
			return c, false, nil
		}
		if err != nil {
			return c, false, fmt.Errorf("failed to cook with %s: %w", req.ItemID, err)
		}
		return c, true, nil
	})
	result.Consumed = consumed
	if err != nil {
		return result, err
	}

	itemIDs := make([]entities.ItemID, 0, len(consumed))
	for _, c := range consumed {
		itemIDs = append(itemIDs, c.ItemID)
	}

	cooked := events.NewRecipeCookedEvent(result.RecipeIDs, itemIDs, at)
	if err := s.events.AppendEvent(cooked.StreamID(), cooked); err != nil {
		s.log.Error("failed to publish cooking session: %v", err)
	}

	s.log.Info("cooked %d recipes using %d items", len(result.RecipeIDs), len(itemIDs))
	return result, nil
}

// NewSelections starts a cooking checklist for the given recipes
func (s *PantryService) NewSelections(ctx context.Context, ids []entities.RecipeID) ([]*cooking.Selection, error) {
	selections := make([]*cooking.Selection, 0, len(ids))
	for _, id := range ids {
		recipe, err := s.recipes.GetRecipe(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe %s: %w", id, err)
		}
		selections = append(selections, cooking.NewSelection(recipe))
	}
	return selections, nil
}

func (s *PantryService) itemIndex(ctx context.Context) (map[entities.ItemID]*entities.Item, error) {
	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	index := make(map[entities.ItemID]*entities.Item, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}

// ListItems filters, annotates and sorts the items for a list view
func (s *PantryService) ListItems(ctx context.Context, query dto.ListQuery) ([]dto.ItemView, error) {
	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	recipes, err := s.recipes.GetRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	purchased, err := s.history.LastPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase history: %w", err)
	}

	filtered := filtering.Apply(items, query.Filter, recipes)
	s.log.Debug("filter kept %d of %d items", len(filtered), len(items))

	now := s.now()
	lookups := sorting.Lookups{
		Quantities: make(map[entities.ItemID]decimal.Decimal, len(filtered)),
		Expiry:     make(map[entities.ItemID]time.Time),
		Purchased:  purchased,
	}
	views := make(map[entities.ItemID]dto.ItemView, len(filtered))

	for _, item := range filtered {
		view := newItemView(item, purchased, now)
		if view.Expiration != nil {
			lookups.Expiry[item.ID] = view.Expiration.DueDate
		}
		lookups.Quantities[item.ID] = view.Quantity
		views[item.ID] = view
	}

	sorted := sorting.SortItems(filtered, lookups, query.Field, query.Direction)
	out := make([]dto.ItemView, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, views[item.ID])
	}
	return out, nil
}

func newItemView(item *entities.Item, purchased map[entities.ItemID]time.Time, now time.Time) dto.ItemView {
	quantity := domain.QuantityInTargetUnit(item)
	view := dto.ItemView{
		Item:     item,
		Quantity: quantity,
		Status:   domain.ClassifyStock(quantity, item.RefillThreshold),
		Fraction: domain.ProgressFraction(quantity, item.TargetQuantity),
	}
	if last, ok := purchased[item.ID]; ok {
		view.LastPurchase = &last
	}
	if exp, ok := domain.EvaluateExpiration(item, view.LastPurchase, now); ok {
		view.Expiration = &exp
	}
	return view
}

// ItemView returns the display view of one item
func (s *PantryService) ItemView(ctx context.Context, id entities.ItemID) (dto.ItemView, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return dto.ItemView{}, fmt.Errorf("failed to load %s: %w", id, err)
	}
	purchased, err := s.history.LastPurchases(ctx)
	if err != nil {
		return dto.ItemView{}, fmt.Errorf("failed to load purchase history: %w", err)
	}
	return newItemView(item, purchased, s.now()), nil
}

// ShoppingList lists the matching items that are low or below target
func (s *PantryService) ShoppingList(ctx context.Context, query dto.ListQuery) ([]dto.ItemView, error) {
	views, err := s.ListItems(ctx, query)
	if err != nil {
		return nil, err
	}

	var out []dto.ItemView
	for _, view := range views {
		if domain.NeedsRestock(view.Item, view.Quantity) {
			out = append(out, view)
		}
	}
	return out, nil
}

// TagCounts reports, for every tag, how many items would match if it were
// added to the filter. Search, vendor and recipe filters narrow the base set.
func (s *PantryService) TagCounts(ctx context.Context, filter entities.FilterState) ([]dto.TagCount, error) {
	items, err := s.items.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	recipes, err := s.recipes.GetRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	types, err := s.tags.GetTagTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag types: %w", err)
	}
	tags, err := s.tags.GetTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	base := filter
	base.Tags = nil
	candidates := filtering.Apply(items, base, recipes)

	byType := make(map[entities.TagTypeID][]*entities.Tag)
	for _, tag := range tags {
		byType[tag.TypeID] = append(byType[tag.TypeID], tag)
	}

	var out []dto.TagCount
	for _, tagType := range types {
		for _, tag := range byType[tagType.ID] {
			out = append(out, dto.TagCount{
				Type:  tagType,
				Tag:   tag,
				Count: filtering.CalculateTagCount(tag.ID, tag.TypeID, candidates, filter.Tags),
			})
		}
	}
	return out, nil
}

// Vendors returns every vendor
func (s *PantryService) Vendors(ctx context.Context) ([]*entities.Vendor, error) {
	vendors, err := s.vendors.GetVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	return vendors, nil
}

// History returns the inventory log of one item, oldest first
func (s *PantryService) History(ctx context.Context, id entities.ItemID) ([]*entities.InventoryLogEntry, error) {
	if _, err := s.items.GetItem(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", id, err)
	}
	entries, err := s.history.Entries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of %s: %w", id, err)
	}
	return entries, nil
}
