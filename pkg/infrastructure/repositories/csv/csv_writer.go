package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// Writer saves pantry data in the layout Loader reads
type Writer struct{}

// NewWriter creates a new CSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteDir writes every file of ds into dir. Each file is written to a
// temporary file first and renamed over the old one.
func (w *Writer) WriteDir(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{ItemsFile, itemsHeader, itemRows(ds.Items)},
		{TagTypesFile, tagTypesHeader, tagTypeRows(ds.TagTypes)},
		{TagsFile, tagsHeader, tagRows(ds.Tags)},
		{VendorsFile, vendorsHeader, vendorRows(ds.Vendors)},
		{RecipesFile, recipesHeader, recipeRows(ds.Recipes)},
		{InventoryLogFile, inventoryLogHeader, logRows(ds.Log)},
	}

	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(filename string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}

func itemRows(items []*entities.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		per := ""
		if item.AmountPerPackage.Valid {
			per = item.AmountPerPackage.Decimal.String()
		}
		due := ""
		if item.DueDate != nil {
			due = item.DueDate.Format(time.RFC3339)
		}

		rows = append(rows, []string{
			string(item.ID),
			item.Name,
			item.PackageUnit,
			item.MeasurementUnit,
			per,
			item.PackedQuantity.String(),
			item.UnpackedQuantity.String(),
			item.TargetQuantity.String(),
			item.RefillThreshold.String(),
			item.TargetUnit.String(),
			item.ConsumeAmount.String(),
			formatOptionalInt(item.ExpirationThreshold),
			formatOptionalInt(item.EstimatedDueDays),
			due,
			joinList(item.TagIDs.Sorted()),
			joinList(item.VendorIDs.Sorted()),
		})
	}
	return rows
}

func tagTypeRows(types []*entities.TagType) [][]string {
	rows := make([][]string, 0, len(types))
	for _, tt := range types {
		rows = append(rows, []string{string(tt.ID), tt.Name, tt.Color})
	}
	return rows
}

func tagRows(tags []*entities.Tag) [][]string {
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{string(tag.ID), tag.Name, string(tag.TypeID)})
	}
	return rows
}

func vendorRows(vendors []*entities.Vendor) [][]string {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []string{string(v.ID), v.Name})
	}
	return rows
}

func recipeRows(recipes []*entities.Recipe) [][]string {
	var rows [][]string
	for _, recipe := range recipes {
		for _, ri := range recipe.Items {
			rows = append(rows, []string{string(recipe.ID), recipe.Name, string(ri.ItemID), ri.DefaultAmount.String()})
		}
	}
	return rows
}

func logRows(entries []*entities.InventoryLogEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID.String(), string(e.ItemID), e.Kind.String(), e.Amount.String(), e.At.Format(time.RFC3339)})
	}
	return rows
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func joinList[T ~string](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, listSep)
}
