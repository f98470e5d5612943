package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

const itemsCSV = `id,name,package_unit,measurement_unit,amount_per_package,packed_quantity,unpacked_quantity,target_quantity,refill_threshold,target_unit,consume_amount,expiration_threshold,estimated_due_days,due_date,tags,vendors
milk,Milk,bottle,ml,1000,1,500,2,1,package,0.25,2,7,2026-03-08,dairy;fridge,grocer
rice,Rice,,,,0,0,2,1,,1,,,,grain,
`

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir_OnlyItems(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ItemsFile, itemsCSV)

	ds, err := NewLoader().LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, ds.Items, 2)
	assert.Empty(t, ds.Tags)
	assert.Empty(t, ds.Recipes)
	assert.Empty(t, ds.Log)

	milk := ds.Items[0]
	assert.True(t, milk.IsDualUnit())
	assert.Equal(t, "1000", milk.AmountPerPackage.Decimal.String())
	assert.Equal(t, "500", milk.UnpackedQuantity.String())
	assert.Equal(t, "0.25", milk.ConsumeAmount.String())
	require.NotNil(t, milk.EstimatedDueDays)
	assert.Equal(t, 7, *milk.EstimatedDueDays)
	require.NotNil(t, milk.DueDate)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), *milk.DueDate)
	assert.Equal(t, []entities.TagID{"dairy", "fridge"}, milk.TagIDs.Sorted())
	assert.True(t, milk.VendorIDs.Contains("grocer"))

	rice := ds.Items[1]
	assert.False(t, rice.IsDualUnit())
	assert.Nil(t, rice.ExpirationThreshold)
	assert.Nil(t, rice.DueDate)
	assert.Equal(t, entities.PackageUnit, rice.TargetUnit)
	assert.Equal(t, 0, rice.VendorIDs.Len())
}

func TestLoadDir_MissingItems(t *testing.T) {
	_, err := NewLoader().LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadItems_Errors(t *testing.T) {
	header := "id,name,package_unit,measurement_unit,amount_per_package,packed_quantity,unpacked_quantity,target_quantity,refill_threshold,target_unit,consume_amount,expiration_threshold,estimated_due_days,due_date,tags,vendors\n"

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"header mismatch", "id,name\nmilk,Milk\n", "header mismatch"},
		{"column count", header + "milk,Milk,bottle\n", "expected 16 columns"},
		{"bad decimal", header + "milk,Milk,,,,x,0,1,0,,1,,,,,\n", "row 2"},
		{"negative target", header + "milk,Milk,,,,0,0,-1,0,,1,,,,,\n", "target quantity cannot be negative"},
		{"fractional packages", header + "milk,Milk,bottle,ml,1000,1.5,0,1,0,,1,,,,,\n", "whole packages"},
		{"measurement without unit", header + "milk,Milk,bottle,,,1,0,1,0,measurement,1,,,,,\n", "no measurement unit"},
		{"bad date", header + "milk,Milk,,,,1,0,1,0,,1,,,03/08/2026,,\n", "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			write(t, dir, ItemsFile, tt.content)
			_, err := NewLoader().LoadItems(filepath.Join(dir, ItemsFile))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTagTypes_RejectsReservedFacets(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, TagTypesFile, "id,name,color\nvendor,Vendor,#fff\n")

	_, err := NewLoader().LoadTagTypes(filepath.Join(dir, TagTypesFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestLoadRecipes_GroupsRows(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, RecipesFile, "recipe_id,recipe_name,item_id,default_amount\n"+
		"pilaf,Pilaf,rice,1\n"+
		"pancakes,Pancakes,flour,300\n"+
		"pilaf,Pilaf,carrots,2\n")

	recipes, err := NewLoader().LoadRecipes(filepath.Join(dir, RecipesFile))
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, entities.RecipeID("pilaf"), recipes[0].ID)
	require.Len(t, recipes[0].Items, 2)
	assert.Equal(t, entities.ItemID("carrots"), recipes[0].Items[1].ItemID)
	assert.Equal(t, "300", recipes[1].Items[0].DefaultAmount.String())
}

func TestLoadInventoryLog(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, InventoryLogFile, "id,item_id,kind,amount,at\n"+
		"6f1c1a52-8d0e-4c1a-9b7e-2f0d5f3c9a11,milk,purchase,1,2026-03-01T10:00:00Z\n"+
		",milk,consume,250,2026-03-02T08:30:00Z\n")

	entries, err := NewLoader().LoadInventoryLog(filepath.Join(dir, InventoryLogFile))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "6f1c1a52-8d0e-4c1a-9b7e-2f0d5f3c9a11", entries[0].ID.String())
	assert.Equal(t, entities.Consumption, entries[1].Kind)
	assert.NotEqual(t, entries[0].ID, entries[1].ID, "missing ids are generated")

	write(t, dir, InventoryLogFile, "id,item_id,kind,amount,at\n,milk,restock,1,2026-03-01T10:00:00Z\n")
	_, err = NewLoader().LoadInventoryLog(filepath.Join(dir, InventoryLogFile))
	assert.Error(t, err)
}

func TestWriteDir_LoadsBack(t *testing.T) {
	src := t.TempDir()
	write(t, src, ItemsFile, itemsCSV)
	write(t, src, TagTypesFile, "id,name,color\ncategory,Category,#22c55e\nlocation,Location,\n")
	write(t, src, TagsFile, "id,name,type_id\ndairy,Dairy,category\nfridge,Fridge,location\n")
	write(t, src, VendorsFile, "id,name\ngrocer,\"Corner Grocer, Main St\"\n")
	write(t, src, RecipesFile, "recipe_id,recipe_name,item_id,default_amount\npudding,Rice pudding,rice,1\npudding,Rice pudding,milk,500\n")
	write(t, src, InventoryLogFile, "id,item_id,kind,amount,at\n,milk,purchase,1,2026-03-01T10:00:00Z\n")

	loader := NewLoader()
	original, err := loader.LoadDir(src)
	require.NoError(t, err)

	first := filepath.Join(t.TempDir(), "first")
	require.NoError(t, NewWriter().WriteDir(first, original))

	reloaded, err := loader.LoadDir(first)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
	assert.Equal(t, original.Log[0].ID, reloaded.Log[0].ID, "generated ids are persisted")
	assert.Equal(t, "Corner Grocer, Main St", reloaded.Vendors[0].Name)

	second := filepath.Join(t.TempDir(), "second")
	require.NoError(t, NewWriter().WriteDir(second, reloaded))

	for _, name := range []string{ItemsFile, TagTypesFile, TagsFile, VendorsFile, RecipesFile, InventoryLogFile} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), name)
	}

	leftovers, err := filepath.Glob(filepath.Join(first, ".*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary files are renamed away")
}

func TestLoadItems_NormalizesOpenedStock(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, ItemsFile, "id,name,package_unit,measurement_unit,amount_per_package,packed_quantity,unpacked_quantity,target_quantity,refill_threshold,target_unit,consume_amount,expiration_threshold,estimated_due_days,due_date,tags,vendors\n"+
		"milk,Milk,bottle,ml,500,1,700,2,1,package,0.25,,,,,\n"+
		"rice,Rice,,,,1,700,2,1,,1,,,,,\n")

	items, err := NewLoader().LoadItems(filepath.Join(dir, ItemsFile))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "2", items[0].PackedQuantity.String())
	assert.Equal(t, "200", items[0].UnpackedQuantity.String())
	assert.Equal(t, "700", items[1].UnpackedQuantity.String(), "simple items are left alone")
}

func TestWriteDir_KeepsDueDateTime(t *testing.T) {
	src := t.TempDir()
	write(t, src, ItemsFile, "id,name,package_unit,measurement_unit,amount_per_package,packed_quantity,unpacked_quantity,target_quantity,refill_threshold,target_unit,consume_amount,expiration_threshold,estimated_due_days,due_date,tags,vendors\n"+
		"milk,Milk,,,,1,0,2,1,,1,,7,2026-03-08T18:30:00+02:00,,\n")

	loader := NewLoader()
	original, err := loader.LoadDir(src)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, NewWriter().WriteDir(out, original))
	reloaded, err := loader.LoadDir(out)
	require.NoError(t, err)

	want := time.Date(2026, 3, 8, 16, 30, 0, 0, time.UTC)
	require.NotNil(t, reloaded.Items[0].DueDate)
	assert.True(t, want.Equal(*reloaded.Items[0].DueDate), "got %s", reloaded.Items[0].DueDate)
}
