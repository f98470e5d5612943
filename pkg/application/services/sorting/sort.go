// Package sorting orders item lists for display. Per-item values that
// depend on history (current quantity, expiry, last purchase) are passed
// in as lookup maps; a missing entry means "no value".
package sorting

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/services"
)

// Field selects the sort key
type Field int

const (
	ByName Field = iota
	ByStock
	ByPurchased
	ByExpiring
)

// String method for Field enum
func (f Field) String() string {
	switch f {
	case ByName:
		return "name"
	case ByStock:
		return "stock"
	case ByPurchased:
		return "purchased"
	case ByExpiring:
		return "expiring"
	default:
		return "unknown"
	}
}

// ParseField converts a field name into a Field
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ByName, nil
	case "stock":
		return ByStock, nil
	case "purchased":
		return ByPurchased, nil
	case "expiring":
		return ByExpiring, nil
	default:
		return ByName, fmt.Errorf("invalid sort field: %s (expected name, stock, purchased or expiring)", s)
	}
}

// Direction is the sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String method for Direction enum
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection converts "asc" or "desc" into a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction: %s (expected asc or desc)", s)
	}
}

// Lookups holds externally computed per-item values
type Lookups struct {
	Quantities map[entities.ItemID]decimal.Decimal
	Expiry     map[entities.ItemID]time.Time
	Purchased  map[entities.ItemID]time.Time
}

// SortItems returns a stably sorted copy of items
func SortItems(items []*entities.Item, lookups Lookups, field Field, direction Direction) []*entities.Item {
	out := append([]*entities.Item(nil), items...)

	var cmp func(a, b *entities.Item) int
	switch field {
	case ByStock:
		cmp = withDirection(stockComparator(lookups.Quantities), direction)
	case ByPurchased:
		cmp = withDirection(purchasedComparator(lookups.Purchased), direction)
	case ByExpiring:
		cmp = expiringComparator(lookups.Expiry, direction)
	default:
		cmp = withDirection(nameComparator(), direction)
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func withDirection(cmp func(a, b *entities.Item) int, direction Direction) func(a, b *entities.Item) int {
	if direction == Descending {
		return func(a, b *entities.Item) int { return -cmp(a, b) }
	}
	return cmp
}

func nameComparator() func(a, b *entities.Item) int {
	collator := collate.New(language.Und, collate.IgnoreCase)
	return func(a, b *entities.Item) int {
		return collator.CompareString(a.Name, b.Name)
	}
}

func stockComparator(quantities map[entities.ItemID]decimal.Decimal) func(a, b *entities.Item) int {
	return func(a, b *entities.Item) int {
		qa, qb := quantities[a.ID], quantities[b.ID]

		ra := services.ClassifyStock(qa, a.RefillThreshold).Rank()
		rb := services.ClassifyStock(qb, b.RefillThreshold).Rank()
		if ra != rb {
			return ra - rb
		}

		fa := services.ProgressFraction(qa, a.TargetQuantity)
		fb := services.ProgressFraction(qb, b.TargetQuantity)
		return fa.Cmp(fb)
	}
}

// purchasedComparator treats a missing date as the oldest possible, so
// never-purchased items stay at the least recently purchased end
func purchasedComparator(purchased map[entities.ItemID]time.Time) func(a, b *entities.Item) int {
	return func(a, b *entities.Item) int {
		ta, okA := purchased[a.ID]
		tb, okB := purchased[b.ID]
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return 1
		default:
			return ta.Compare(tb)
		}
	}
}

// expiringComparator keeps items without expiry last in either direction
func expiringComparator(expiry map[entities.ItemID]time.Time, direction Direction) func(a, b *entities.Item) int {
	return func(a, b *entities.Item) int {
		ta, okA := expiry[a.ID]
		tb, okB := expiry[b.ID]
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}

		c := ta.Compare(tb)
		if direction == Descending {
			return -c
		}
		return c
	}
}
