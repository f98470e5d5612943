package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/application/dto"
	"github.com/vsinha/pantry/pkg/application/services/cooking"
	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/domain/entities"
	domain "github.com/vsinha/pantry/pkg/domain/services"
)

// subcommand runs against a loaded session and reports whether it changed data
type subcommand func(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error)

var subcommands = map[string]subcommand{
	"list":     runList,
	"shopping": runShopping,
	"counts":   runCounts,
	"purchase": runPurchase,
	"consume":  runConsume,
	"cook":     runCook,
	"history":  runHistory,
	"vendors":  runVendors,
}

// listFlag collects every occurrence of a repeatable flag
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type filterFlags struct {
	search  string
	tags    listFlag
	vendors listFlag
	recipes listFlag
	sort    string
	dir     string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.search, "search", "", "Case-insensitive name search")
	fs.Var(&f.tags, "tag", "Tag filter as type:tag (repeatable)")
	fs.Var(&f.vendors, "vendor", "Vendor filter (repeatable)")
	fs.Var(&f.recipes, "recipe", "Recipe filter (repeatable)")
	fs.StringVar(&f.sort, "sort", "", "Sort field: name, stock, purchased, expiring")
	fs.StringVar(&f.dir, "dir", "", "Sort direction: asc, desc")
}

func (f *filterFlags) state() (entities.FilterState, error) {
	state := entities.FilterState{Search: f.search, Tags: entities.TagFilter{}}

	for _, raw := range f.tags {
		typeID, tagID, ok := strings.Cut(raw, ":")
		if !ok || typeID == "" || tagID == "" {
			return state, fmt.Errorf("invalid tag filter %q (expected type:tag)", raw)
		}
		if entities.IsReservedFacet(entities.TagTypeID(typeID)) {
			return state, fmt.Errorf("%q is not a tag type, use -%s", typeID, typeID)
		}
		state.Tags.Select(entities.TagTypeID(typeID), entities.TagID(tagID))
	}
	for _, v := range f.vendors {
		state.VendorIDs = append(state.VendorIDs, entities.VendorID(v))
	}
	for _, r := range f.recipes {
		state.RecipeIDs = append(state.RecipeIDs, entities.RecipeID(r))
	}
	return state, nil
}

func (f *filterFlags) query(c *PantryCommand) (dto.ListQuery, error) {
	state, err := f.state()
	if err != nil {
		return dto.ListQuery{}, err
	}

	q := dto.ListQuery{Filter: state, Field: c.config.SortField, Direction: c.config.SortDir}
	if f.sort != "" {
		if q.Field, err = sorting.ParseField(f.sort); err != nil {
			return q, err
		}
	}
	if f.dir != "" {
		if q.Direction, err = sorting.ParseDirection(f.dir); err != nil {
			return q, err
		}
	}
	return q, nil
}

func (c *PantryCommand) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func parseFilters(c *PantryCommand, name string, args []string) (*filterFlags, error) {
	var f filterFlags
	fs := c.flagSet(name)
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments %v", name, fs.Args())
	}
	return &f, nil
}

func runList(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	f, err := parseFilters(c, "list", args)
	if err != nil {
		return false, err
	}
	q, err := f.query(c)
	if err != nil {
		return false, err
	}

	views, err := s.service.ListItems(ctx, q)
	if err != nil {
		return false, err
	}
	return false, s.printer.Items("Pantry", views)
}

func runShopping(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	f, err := parseFilters(c, "shopping", args)
	if err != nil {
		return false, err
	}
	q, err := f.query(c)
	if err != nil {
		return false, err
	}

	views, err := s.service.ShoppingList(ctx, q)
	if err != nil {
		return false, err
	}
	return false, s.printer.Items("Shopping list", views)
}

func runCounts(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	f, err := parseFilters(c, "counts", args)
	if err != nil {
		return false, err
	}
	state, err := f.state()
	if err != nil {
		return false, err
	}

	counts, err := s.service.TagCounts(ctx, state)
	if err != nil {
		return false, err
	}
	return false, s.printer.TagCounts(counts)
}

func runPurchase(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	fs := c.flagSet("purchase")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() == 0 {
		return false, fmt.Errorf("purchase: at least one item id is required")
	}

	changed := false
	for _, id := range fs.Args() {
		if _, err := s.service.Purchase(ctx, entities.ItemID(id)); err != nil {
			return changed, err
		}
		changed = true

		view, err := s.service.ItemView(ctx, entities.ItemID(id))
		if err != nil {
			return changed, err
		}
		if err := s.printer.Purchase(view); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

func runConsume(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	fs := c.flagSet("consume")
	amount := fs.String("amount", "", "Amount in consumption units (default: the item's consume amount)")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() != 1 {
		return false, fmt.Errorf("consume: exactly one item id is required")
	}
	id := entities.ItemID(fs.Arg(0))

	var (
		item     *entities.Item
		consumed cooking.Consumption
		err      error
	)
	if *amount == "" {
		item, consumed, err = s.service.ConsumeDefault(ctx, id)
	} else {
		n, perr := decimal.NewFromString(*amount)
		if perr != nil || n.IsNegative() {
			return false, fmt.Errorf("consume: invalid amount %q", *amount)
		}
		item, consumed, err = s.service.Consume(ctx, id, n)
	}
	if err != nil {
		return false, err
	}

	return consumed.Consumed.IsPositive(), s.printer.Consumption(item, consumed)
}

func runCook(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	fs := c.flagSet("cook")
	var skips, sets, steps listFlag
	fs.Var(&skips, "skip", "Leave an item out of every recipe (repeatable)")
	fs.Var(&sets, "set", "Override an amount as item=amount (repeatable)")
	fs.Var(&steps, "step", "Adjust an amount by n consume steps as item=n (repeatable)")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() == 0 {
		return false, fmt.Errorf("cook: at least one recipe id is required")
	}

	ids := make([]entities.RecipeID, 0, fs.NArg())
	for _, id := range fs.Args() {
		ids = append(ids, entities.RecipeID(id))
	}
	selections, err := s.service.NewSelections(ctx, ids)
	if err != nil {
		return false, err
	}

	for _, id := range skips {
		for _, sel := range selections {
			sel.SetIncluded(entities.ItemID(id), false)
		}
	}
	for _, raw := range sets {
		id, value, err := splitAssignment(raw)
		if err != nil {
			return false, err
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return false, fmt.Errorf("cook: invalid amount in %q", raw)
		}
		for _, sel := range selections {
			sel.SetAmount(id, amount)
		}
	}
	for _, raw := range steps {
		id, value, err := splitAssignment(raw)
		if err != nil {
			return false, err
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("cook: invalid step count in %q", raw)
		}
		view, err := s.service.ItemView(ctx, id)
		if err != nil {
			return false, err
		}
		for _, sel := range selections {
			sel.Step(id, domain.ConsumptionStep(view.Item), n)
		}
	}

	result, err := s.service.Cook(ctx, selections)
	if err != nil {
		return false, err
	}
	return len(result.Consumed) > 0, s.printer.Cook(result)
}

func runHistory(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	fs := c.flagSet("history")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if fs.NArg() != 1 {
		return false, fmt.Errorf("history: exactly one item id is required")
	}

	entries, err := s.service.History(ctx, entities.ItemID(fs.Arg(0)))
	if err != nil {
		return false, err
	}
	return false, s.printer.History(entries)
}

func runVendors(ctx context.Context, c *PantryCommand, s *session, args []string) (bool, error) {
	fs := c.flagSet("vendors")
	if err := fs.Parse(args); err != nil {
		return false, err
	}

	vendors, err := s.service.Vendors(ctx)
	if err != nil {
		return false, err
	}
	return false, s.printer.Vendors(vendors)
}

func splitAssignment(raw string) (entities.ItemID, string, error) {
	id, value, ok := strings.Cut(raw, "=")
	if !ok || id == "" || value == "" {
		return "", "", fmt.Errorf("invalid assignment %q (expected item=value)", raw)
	}
	return entities.ItemID(id), value, nil
}
