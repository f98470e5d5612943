package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/pantry/pkg/application/services"
	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/infrastructure/events"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
	"github.com/vsinha/pantry/pkg/infrastructure/metrics"
	"github.com/vsinha/pantry/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/pantry/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/pantry/pkg/interfaces/cli/output"
)

// Config holds configuration for the pantry command
type Config struct {
	DataDir   string
	Format    string
	Color     bool
	SortField sorting.Field
	SortDir   sorting.Direction
	DryRun    bool
	Help      bool
}

// PantryCommand loads a data directory, runs one subcommand against it
// and saves the result back when the subcommand changed anything
type PantryCommand struct {
	config Config
	out    io.Writer
	log    *logger.Logger
	now    func() time.Time
}

// NewPantryCommand creates a new pantry command with the given configuration
func NewPantryCommand(config Config, out io.Writer, log *logger.Logger) *PantryCommand {
	if out == nil {
		out = os.Stdout
	}
	return &PantryCommand{
		config: config,
		out:    out,
		log:    log,
		now:    time.Now,
	}
}

// session is one loaded data directory
type session struct {
	service  *services.PantryService
	recorder *metrics.Recorder
	printer  *output.Printer

	items   *memory.ItemRepository
	tags    *memory.TagRepository
	vendors *memory.VendorRepository
	recipes *memory.RecipeRepository
	history *memory.InventoryLogRepository
}

// Execute runs the subcommand named by args[0]
func (c *PantryCommand) Execute(ctx context.Context, args []string) error {
	if c.config.Help || len(args) == 0 {
		c.showHelp()
		return nil
	}

	name, rest := args[0], args[1:]
	sub, ok := subcommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (run with -help for usage)", name)
	}

	s, err := c.open(ctx)
	if err != nil {
		return err
	}

	changed, err := sub(ctx, c, s, rest)
	if err != nil {
		return err
	}

	if snap, err := s.recorder.Snapshot(); err == nil {
		c.log.Debug("purchases=%v consumptions=%v cooking=%v shortfalls=%v",
			snap.Purchases, snap.Consumptions, snap.Sessions, snap.Insufficient)
	}

	if !changed {
		return nil
	}
	if c.config.DryRun {
		c.log.Info("dry run, %s left unchanged", c.config.DataDir)
		return nil
	}
	return c.save(ctx, s)
}

func (c *PantryCommand) open(ctx context.Context) (*session, error) {
	c.log.Debug("loading %s", c.config.DataDir)

	ds, err := csv.NewLoader().LoadDir(c.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("error loading data: %w", err)
	}

	store := events.NewInMemoryEventStore(c.log)
	s := &session{
		items:   memory.NewItemRepository(len(ds.Items)),
		tags:    memory.NewTagRepository(),
		vendors: memory.NewVendorRepository(),
		recipes: memory.NewRecipeRepository(),
		history: memory.NewInventoryLogRepository(store),
	}

	if err := s.items.LoadItems(ctx, ds.Items); err != nil {
		return nil, fmt.Errorf("error loading items: %w", err)
	}
	if err := s.tags.LoadTagTypes(ctx, ds.TagTypes); err != nil {
		return nil, fmt.Errorf("error loading tag types: %w", err)
	}
	if err := s.tags.LoadTags(ctx, ds.Tags); err != nil {
		return nil, fmt.Errorf("error loading tags: %w", err)
	}
	if err := s.vendors.LoadVendors(ctx, ds.Vendors); err != nil {
		return nil, fmt.Errorf("error loading vendors: %w", err)
	}
	if err := s.recipes.LoadRecipes(ctx, ds.Recipes); err != nil {
		return nil, fmt.Errorf("error loading recipes: %w", err)
	}
	for _, entry := range ds.Log {
		if err := s.history.Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("error loading inventory log: %w", err)
		}
	}

	// Attached after the replay so only this run is counted
	s.recorder = metrics.NewRecorder()
	if err := s.recorder.Attach(store); err != nil {
		return nil, fmt.Errorf("failed to attach metrics: %w", err)
	}

	s.service, err = services.NewPantryService(services.Dependencies{
		Items:   s.items,
		Tags:    s.tags,
		Vendors: s.vendors,
		Recipes: s.recipes,
		History: s.history,
		Events:  store,
		Log:     c.log,
		Now:     c.now,
	})
	if err != nil {
		return nil, err
	}

	s.printer, err = output.NewPrinter(c.out, output.Config{Format: c.config.Format, Color: c.config.Color})
	if err != nil {
		return nil, err
	}

	c.log.Debug("loaded %d items, %d tags, %d vendors, %d recipes, %d log entries",
		len(ds.Items), len(ds.Tags), len(ds.Vendors), len(ds.Recipes), len(ds.Log))
	return s, nil
}

func (c *PantryCommand) save(ctx context.Context, s *session) error {
	var (
		ds  csv.Dataset
		err error
	)
	if ds.Items, err = s.items.GetAllItems(ctx); err != nil {
		return err
	}
	if ds.TagTypes, err = s.tags.GetTagTypes(ctx); err != nil {
		return err
	}
	if ds.Tags, err = s.tags.GetTags(ctx); err != nil {
		return err
	}
	if ds.Vendors, err = s.vendors.GetVendors(ctx); err != nil {
		return err
	}
	if ds.Recipes, err = s.recipes.GetRecipes(ctx); err != nil {
		return err
	}
	if ds.Log, err = s.history.AllEntries(ctx); err != nil {
		return err
	}

	if err := csv.NewWriter().WriteDir(c.config.DataDir, &ds); err != nil {
		return fmt.Errorf("error saving data: %w", err)
	}
	c.log.Debug("saved %s", c.config.DataDir)
	return nil
}

// showHelp displays the help message
func (c *PantryCommand) showHelp() {
	fmt.Fprintf(c.out, `Pantry - household inventory tracking

USAGE:
    pantry [options] <command> [command options]

COMMANDS:
    list        List items            [-search s] [-tag type:tag] [-vendor v] [-recipe r] [-sort f] [-dir d]
    shopping    Items low or below target (same filters as list)
    counts      Items matching each additional tag (same filters as list)
    purchase    Add one package         <item>...
    consume     Consume from an item    [-amount n] <item>
    cook        Cook recipes            [-skip item] [-set item=amount] [-step item=n] <recipe>...
    history     Show an item's log      <item>
    vendors     List vendors

OPTIONS:
    -config <file>      YAML config file (default: pantry.yaml when present)
    -env <file>         .env file with PANTRY_* variables (default: .env)
    -data <dir>         Data directory containing CSV files
    -format <fmt>       Output format: text, json (default: text)
    -log-level <lvl>    off, normal or verbose (default: normal)
    -no-color           Disable colored output
    -dry-run            Do not save changes
    -help               Show this help message

DATA DIRECTORY STRUCTURE:
    data/
    ├── items.csv          # Items and their stock
    ├── tag_types.csv      # Filter facets
    ├── tags.csv           # Tags per facet
    ├── vendors.csv        # Vendors
    ├── recipes.csv        # One row per recipe item
    └── inventory_log.csv  # Purchase and consumption history

EXAMPLES:
    pantry -data ./kitchen list -tag location:fridge -sort expiring
    pantry -data ./kitchen consume -amount 250 milk
    pantry -data ./kitchen cook -skip eggs pancakes
`)
}
