package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/services"
)

// File names inside a data directory
const (
	ItemsFile        = "items.csv"
	TagTypesFile     = "tag_types.csv"
	TagsFile         = "tags.csv"
	VendorsFile      = "vendors.csv"
	RecipesFile      = "recipes.csv"
	InventoryLogFile = "inventory_log.csv"
)

const (
	dateLayout = "2006-01-02"
	listSep    = ";"
)

var (
	itemsHeader = []string{
		"id", "name", "package_unit", "measurement_unit", "amount_per_package",
		"packed_quantity", "unpacked_quantity", "target_quantity", "refill_threshold",
		"target_unit", "consume_amount", "expiration_threshold", "estimated_due_days",
		"due_date", "tags", "vendors",
	}
	tagTypesHeader     = []string{"id", "name", "color"}
	tagsHeader         = []string{"id", "name", "type_id"}
	vendorsHeader      = []string{"id", "name"}
	recipesHeader      = []string{"recipe_id", "recipe_name", "item_id", "default_amount"}
	inventoryLogHeader = []string{"id", "item_id", "kind", "amount", "at"}
)

// Dataset is the full content of a data directory
type Dataset struct {
	Items    []*entities.Item
	TagTypes []*entities.TagType
	Tags     []*entities.Tag
	Vendors  []*entities.Vendor
	Recipes  []*entities.Recipe
	Log      []*entities.InventoryLogEntry
}

// Loader handles loading pantry data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir loads every file of a data directory. Only items.csv is
// required; other missing files load as empty.
func (l *Loader) LoadDir(dir string) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)

	if ds.Items, err = l.LoadItems(filepath.Join(dir, ItemsFile)); err != nil {
		return nil, err
	}

	optional := []struct {
		name string
		load func(string) error
	}{
		{TagTypesFile, func(p string) (err error) { ds.TagTypes, err = l.LoadTagTypes(p); return }},
		{TagsFile, func(p string) (err error) { ds.Tags, err = l.LoadTags(p); return }},
		{VendorsFile, func(p string) (err error) { ds.Vendors, err = l.LoadVendors(p); return }},
		{RecipesFile, func(p string) (err error) { ds.Recipes, err = l.LoadRecipes(p); return }},
		{InventoryLogFile, func(p string) (err error) { ds.Log, err = l.LoadInventoryLog(p); return }},
	}
	for _, f := range optional {
		if err := f.load(filepath.Join(dir, f.name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &ds, nil
}

// LoadItems loads items from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.Item, error) {
	records, err := readRecords(filename, "items", itemsHeader)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Item, 0, len(records))
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadTagTypes loads tag types from a CSV file
func (l *Loader) LoadTagTypes(filename string) ([]*entities.TagType, error) {
	records, err := readRecords(filename, "tag types", tagTypesHeader)
	if err != nil {
		return nil, err
	}

	types := make([]*entities.TagType, 0, len(records))
	for i, record := range records {
		tt, err := entities.NewTagType(entities.TagTypeID(record[0]), record[1], record[2])
		if err != nil {
			return nil, fmt.Errorf("tag types CSV row %d: %w", i+2, err)
		}
		types = append(types, tt)
	}
	return types, nil
}

// LoadTags loads tags from a CSV file
func (l *Loader) LoadTags(filename string) ([]*entities.Tag, error) {
	records, err := readRecords(filename, "tags", tagsHeader)
	if err != nil {
		return nil, err
	}

	tags := make([]*entities.Tag, 0, len(records))
	for i, record := range records {
		tag, err := entities.NewTag(entities.TagID(record[0]), record[1], entities.TagTypeID(record[2]))
		if err != nil {
			return nil, fmt.Errorf("tags CSV row %d: %w", i+2, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// LoadVendors loads vendors from a CSV file
func (l *Loader) LoadVendors(filename string) ([]*entities.Vendor, error) {
	records, err := readRecords(filename, "vendors", vendorsHeader)
	if err != nil {
		return nil, err
	}

	vendors := make([]*entities.Vendor, 0, len(records))
	for i, record := range records {
		v, err := entities.NewVendor(entities.VendorID(record[0]), record[1])
		if err != nil {
			return nil, fmt.Errorf("vendors CSV row %d: %w", i+2, err)
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

// LoadRecipes loads recipes from a CSV file with one row per recipe item.
// Rows of one recipe need not be adjacent; recipes keep first-seen order.
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	records, err := readRecords(filename, "recipes", recipesHeader)
	if err != nil {
		return nil, err
	}

	type draft struct {
		name  string
		items []entities.RecipeItem
	}
	var order []entities.RecipeID
	drafts := make(map[entities.RecipeID]*draft)

	for i, record := range records {
		id := entities.RecipeID(record[0])
		amount, err := parseDecimal("default_amount", record[3])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}

		d, ok := drafts[id]
		if !ok {
			d = &draft{name: record[1]}
			drafts[id] = d
			order = append(order, id)
		}
		d.items = append(d.items, entities.RecipeItem{ItemID: entities.ItemID(record[2]), DefaultAmount: amount})
	}

	recipes := make([]*entities.Recipe, 0, len(order))
	for _, id := range order {
		recipe, err := entities.NewRecipe(id, drafts[id].name, drafts[id].items)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV recipe %s: %w", id, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadInventoryLog loads purchase and consumption history from a CSV file.
// Rows without an id get a fresh one.
func (l *Loader) LoadInventoryLog(filename string) ([]*entities.InventoryLogEntry, error) {
	records, err := readRecords(filename, "inventory log", inventoryLogHeader)
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.InventoryLogEntry, 0, len(records))
	for i, record := range records {
		entry, err := parseLogEntry(record)
		if err != nil {
			return nil, fmt.Errorf("inventory log CSV row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// readRecords returns the data rows of a CSV file after checking its
// header and column counts
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (*entities.Item, error) {
	var values [4]decimal.Decimal
	for i, col := range []int{7, 8, 10, 5} {
		v, err := parseDecimal(itemsHeader[col], record[col])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	target, threshold, consume, packed := values[0], values[1], values[2], values[3]

	item, err := entities.NewItem(entities.ItemID(strings.TrimSpace(record[0])), record[1], target, threshold, consume)
	if err != nil {
		return nil, err
	}

	item.PackageUnit = strings.TrimSpace(record[2])
	item.MeasurementUnit = strings.TrimSpace(record[3])
	if s := strings.TrimSpace(record[4]); s != "" {
		per, err := parseDecimal("amount_per_package", s)
		if err != nil {
			return nil, err
		}
		if !per.IsPositive() {
			return nil, fmt.Errorf("amount_per_package must be positive, got %s", per)
		}
		item.AmountPerPackage = decimal.NewNullDecimal(per)
	}

	unpacked, err := parseDecimal("unpacked_quantity", record[6])
	if err != nil {
		return nil, err
	}
	if packed.IsNegative() || unpacked.IsNegative() {
		return nil, fmt.Errorf("quantities cannot be negative, got packed %s unpacked %s", packed, unpacked)
	}
	if item.IsDualUnit() && !packed.Equal(packed.Truncate(0)) {
		return nil, fmt.Errorf("packed_quantity must be whole packages, got %s", packed)
	}
	item.PackedQuantity = packed
	item.UnpackedQuantity = unpacked
	services.NormalizeUnpacked(item)

	unit, err := entities.ParseTargetUnit(strings.TrimSpace(record[9]))
	if err != nil {
		return nil, err
	}
	if err := item.SetTargetUnit(unit); err != nil {
		return nil, err
	}

	if item.ExpirationThreshold, err = parseOptionalInt("expiration_threshold", record[11]); err != nil {
		return nil, err
	}
	if item.EstimatedDueDays, err = parseOptionalInt("estimated_due_days", record[12]); err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(record[13]); s != "" {
		due, err := parseDueDate(s)
		if err != nil {
			return nil, err
		}
		item.DueDate = &due
	}

	for _, id := range splitList(record[14]) {
		item.TagIDs.Add(entities.TagID(id))
	}
	for _, id := range splitList(record[15]) {
		item.VendorIDs.Add(entities.VendorID(id))
	}

	return item, nil
}

func parseLogEntry(record []string) (*entities.InventoryLogEntry, error) {
	kind, err := entities.ParseLogKind(record[2])
	if err != nil {
		return nil, err
	}
	amount, err := parseDecimal("amount", record[3])
	if err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid at format: %s (expected RFC 3339)", record[4])
	}

	entry, err := entities.NewInventoryLogEntry(entities.ItemID(strings.TrimSpace(record[1])), kind, amount, at)
	if err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(record[0]); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id: %s", s)
		}
		entry.ID = id
	}
	return entry, nil
}

// parseDueDate reads RFC 3339 timestamps and, for hand-edited files,
// plain dates as UTC midnight
func parseDueDate(s string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, s); err == nil {
		return due, nil
	}
	due, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due_date format: %s (expected RFC 3339 or YYYY-MM-DD)", s)
	}
	return due, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}

func parseOptionalInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", field, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%s cannot be negative, got %d", field, n)
	}
	return &n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, listSep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
