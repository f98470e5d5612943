// Package output renders service results as aligned text tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/application/dto"
	"github.com/vsinha/pantry/pkg/application/services/cooking"
	"github.com/vsinha/pantry/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	Color  bool
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#86efac"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fde68a"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Printer writes results to out
type Printer struct {
	out    io.Writer
	config Config
}

// NewPrinter creates a printer for the given format
func NewPrinter(out io.Writer, config Config) (*Printer, error) {
	switch config.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.Format)
	}
	return &Printer{out: out, config: config}, nil
}

func (p *Printer) json(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.config.Color {
		return text
	}
	return s.Render(text)
}

func (p *Printer) statusText(status entities.StockStatus, width int) string {
	text := fmt.Sprintf("%-*s", width, status.String())
	switch status {
	case entities.StockError:
		return p.style(errorStyle, text)
	case entities.StockWarning:
		return p.style(warningStyle, text)
	default:
		return p.style(okStyle, text)
	}
}

// ItemJSON is the JSON form of an item view
type ItemJSON struct {
	ID           entities.ItemID     `json:"id"`
	Name         string              `json:"name"`
	Quantity     decimal.Decimal     `json:"quantity"`
	Target       decimal.Decimal     `json:"target"`
	Unit         string              `json:"unit,omitempty"`
	Status       string              `json:"status"`
	Fraction     decimal.Decimal     `json:"fraction"`
	LastPurchase *time.Time          `json:"last_purchase,omitempty"`
	DueDate      *time.Time          `json:"due_date,omitempty"`
	Expiration   string              `json:"expiration,omitempty"`
	Warning      bool                `json:"expiration_warning,omitempty"`
	Tags         []entities.TagID    `json:"tags"`
	Vendors      []entities.VendorID `json:"vendors"`
}

// UnitLabel names the unit an item's target quantity is expressed in
func UnitLabel(item *entities.Item) string {
	if item.TargetUnit == entities.MeasurementUnit {
		return item.MeasurementUnit
	}
	return item.PackageUnit
}

func toItemJSON(view dto.ItemView) ItemJSON {
	j := ItemJSON{
		ID:           view.Item.ID,
		Name:         view.Item.Name,
		Quantity:     view.Quantity,
		Target:       view.Item.TargetQuantity,
		Unit:         UnitLabel(view.Item),
		Status:       view.Status.String(),
		Fraction:     view.Fraction.Round(2),
		LastPurchase: view.LastPurchase,
		Tags:         view.Item.TagIDs.Sorted(),
		Vendors:      view.Item.VendorIDs.Sorted(),
	}
	if view.Expiration != nil {
		due := view.Expiration.DueDate
		j.DueDate = &due
		j.Expiration = view.Expiration.Describe()
		j.Warning = view.Expiration.Warning
	}
	return j
}

// Items prints an item list under title
func (p *Printer) Items(title string, views []dto.ItemView) error {
	if p.config.Format == "json" {
		out := make([]ItemJSON, 0, len(views))
		for _, v := range views {
			out = append(out, toItemJSON(v))
		}
		return p.json(out)
	}

	fmt.Fprintf(p.out, "%s (%d)\n\n", p.style(headerStyle, title), len(views))
	if len(views) == 0 {
		fmt.Fprintln(p.out, "No items.")
		return nil
	}

	fmt.Fprintf(p.out, "%-20s %-16s %-8s %-6s %-22s\n", "Item", "Stock", "Status", "Fill", "Expiration")
	fmt.Fprintf(p.out, "%-20s %-16s %-8s %-6s %-22s\n",
		"--------------------", "----------------", "--------", "------", "----------------------")

	for _, v := range views {
		stock := fmt.Sprintf("%s/%s", v.Quantity.Round(2), v.Item.TargetQuantity)
		if unit := UnitLabel(v.Item); unit != "" {
			stock += " " + unit
		}
		expiration := ""
		if v.Expiration != nil {
			expiration = v.Expiration.Describe()
			if v.Expiration.Warning || v.Expiration.Expired {
				expiration = p.style(warningStyle, expiration)
			}
		}
		fill := v.Fraction.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"

		fmt.Fprintf(p.out, "%-20s %-16s %s %-6s %s\n",
			truncate(v.Item.Name, 20), stock, p.statusText(v.Status, 8), fill, expiration)
	}
	return nil
}

// TagCountJSON is the JSON form of a tag count
type TagCountJSON struct {
	Type  entities.TagTypeID `json:"type"`
	Tag   entities.TagID     `json:"tag"`
	Name  string             `json:"name"`
	Count int                `json:"count"`
}

// TagCounts prints the result size of each tag, grouped by tag type
func (p *Printer) TagCounts(counts []dto.TagCount) error {
	if p.config.Format == "json" {
		out := make([]TagCountJSON, 0, len(counts))
		for _, c := range counts {
			out = append(out, TagCountJSON{Type: c.Type.ID, Tag: c.Tag.ID, Name: c.Tag.Name, Count: c.Count})
		}
		return p.json(out)
	}

	var current entities.TagTypeID
	for _, c := range counts {
		if c.Type.ID != current {
			if current != "" {
				fmt.Fprintln(p.out)
			}
			current = c.Type.ID
			fmt.Fprintln(p.out, p.style(headerStyle, c.Type.Name))
		}
		fmt.Fprintf(p.out, "  %-20s %d\n", c.Tag.Name, c.Count)
	}
	return nil
}

// ConsumptionJSON is the JSON form of one consumption
type ConsumptionJSON struct {
	ItemID    entities.ItemID `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Consumed  decimal.Decimal `json:"consumed"`
	Remaining decimal.Decimal `json:"remaining"`
}

func toConsumptionJSON(c cooking.Consumption) ConsumptionJSON {
	return ConsumptionJSON{ItemID: c.ItemID, Requested: c.Requested, Consumed: c.Consumed, Remaining: c.Remaining}
}

// Consumption prints the outcome of consuming from one item
func (p *Printer) Consumption(item *entities.Item, c cooking.Consumption) error {
	if p.config.Format == "json" {
		return p.json(toConsumptionJSON(c))
	}
	fmt.Fprintf(p.out, "Consumed %s from %s, %s left\n", c.Consumed, item.Name, c.Remaining)
	if c.Consumed.LessThan(c.Requested) {
		fmt.Fprintln(p.out, p.style(warningStyle, fmt.Sprintf("Only %s of %s requested was in stock", c.Consumed, c.Requested)))
	}
	return nil
}

// Purchase prints an item after a purchase
func (p *Printer) Purchase(view dto.ItemView) error {
	if p.config.Format == "json" {
		return p.json(toItemJSON(view))
	}
	fmt.Fprintf(p.out, "Purchased 1 %s of %s, now %s\n",
		orDefault(view.Item.PackageUnit, "package"), view.Item.Name, view.Quantity.Round(2))
	return nil
}

// CookJSON is the JSON form of a cooking session
type CookJSON struct {
	Recipes    []entities.RecipeID `json:"recipes"`
	Shortfalls []ShortfallJSON     `json:"shortfalls"`
	Consumed   []ConsumptionJSON   `json:"consumed"`
}

// ShortfallJSON is one advisory shortfall
type ShortfallJSON struct {
	ItemID    entities.ItemID `json:"item_id"`
	Needed    decimal.Decimal `json:"needed"`
	Available decimal.Decimal `json:"available"`
}

// Cook prints a committed cooking session
func (p *Printer) Cook(result *dto.CookResult) error {
	if p.config.Format == "json" {
		out := CookJSON{
			Recipes:    result.RecipeIDs,
			Shortfalls: make([]ShortfallJSON, 0, len(result.Shortfalls)),
			Consumed:   make([]ConsumptionJSON, 0, len(result.Consumed)),
		}
		for _, s := range result.Shortfalls {
			out.Shortfalls = append(out.Shortfalls, ShortfallJSON{ItemID: s.ItemID, Needed: s.Amount, Available: s.Available})
		}
		for _, c := range result.Consumed {
			out.Consumed = append(out.Consumed, toConsumptionJSON(c))
		}
		return p.json(out)
	}

	if len(result.Requirements) == 0 {
		fmt.Fprintln(p.out, "Nothing to cook.")
		return nil
	}

	ids := make([]string, len(result.RecipeIDs))
	for i, id := range result.RecipeIDs {
		ids[i] = string(id)
	}
	fmt.Fprintf(p.out, "%s %s\n\n", p.style(headerStyle, "Cooked"), strings.Join(ids, ", "))

	if len(result.Shortfalls) > 0 {
		fmt.Fprintln(p.out, p.style(warningStyle, "Not enough in stock:"))
		for _, s := range result.Shortfalls {
			fmt.Fprintf(p.out, "  %-20s need %s, have %s\n", s.ItemID, s.Amount, s.Available)
		}
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "%-20s %-10s %-10s\n", "Item", "Consumed", "Left")
	fmt.Fprintf(p.out, "%-20s %-10s %-10s\n", "--------------------", "----------", "----------")
	for _, c := range result.Consumed {
		fmt.Fprintf(p.out, "%-20s %-10s %-10s\n", c.ItemID, c.Consumed, c.Remaining)
	}
	return nil
}

// LogEntryJSON is the JSON form of an inventory log entry
type LogEntryJSON struct {
	ID     string          `json:"id"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	At     time.Time       `json:"at"`
}

// History prints an item's inventory log
func (p *Printer) History(entries []*entities.InventoryLogEntry) error {
	if p.config.Format == "json" {
		out := make([]LogEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, LogEntryJSON{ID: e.ID.String(), Kind: e.Kind.String(), Amount: e.Amount, At: e.At})
		}
		return p.json(out)
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No history.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(p.out, "%s  %-8s %s\n", e.At.Format("2006-01-02 15:04"), e.Kind, e.Amount)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// VendorJSON is the JSON form of a vendor
type VendorJSON struct {
	ID   entities.VendorID `json:"id"`
	Name string            `json:"name"`
}

// Vendors prints the vendor catalog
func (p *Printer) Vendors(vendors []*entities.Vendor) error {
	if p.config.Format == "json" {
		out := make([]VendorJSON, 0, len(vendors))
		for _, v := range vendors {
			out = append(out, VendorJSON{ID: v.ID, Name: v.Name})
		}
		return p.json(out)
	}
	for _, v := range vendors {
		fmt.Fprintf(p.out, "%-12s %s\n", v.ID, v.Name)
	}
	return nil
}
