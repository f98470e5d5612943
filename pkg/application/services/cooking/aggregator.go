// Package cooking turns a checklist of recipes into one net consumption
// per item. Amounts are in the unit services.ConsumeItem expects.
package cooking

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/services"
)

// Line is one item of a selected recipe
type Line struct {
	ItemID   entities.ItemID
	Amount   decimal.Decimal
	Included bool
}

// Selection is a recipe on the cooking checklist with per-item edits
type Selection struct {
	RecipeID entities.RecipeID
	Checked  bool
	Lines    []Line
}

// NewSelection checks the recipe and seeds every line with its default amount
func NewSelection(recipe *entities.Recipe) *Selection {
	s := &Selection{RecipeID: recipe.ID, Checked: true, Lines: make([]Line, 0, len(recipe.Items))}
	for _, ri := range recipe.Items {
		s.Lines = append(s.Lines, Line{ItemID: ri.ItemID, Amount: ri.DefaultAmount, Included: true})
	}
	return s
}

func (s *Selection) line(itemID entities.ItemID) *Line {
	for i := range s.Lines {
		if s.Lines[i].ItemID == itemID {
			return &s.Lines[i]
		}
	}
	return nil
}

// Step moves an item's amount by n steps of size step, floored at zero.
// It reports false when the recipe has no such item.
func (s *Selection) Step(itemID entities.ItemID, step decimal.Decimal, n int) bool {
	l := s.line(itemID)
	if l == nil {
		return false
	}
	l.Amount = decimal.Max(decimal.Zero, l.Amount.Add(step.Mul(decimal.NewFromInt(int64(n)))))
	return true
}

// SetAmount overrides an item's amount, floored at zero
func (s *Selection) SetAmount(itemID entities.ItemID, amount decimal.Decimal) bool {
	l := s.line(itemID)
	if l == nil {
		return false
	}
	l.Amount = decimal.Max(decimal.Zero, amount)
	return true
}

// SetIncluded marks an item as used or skipped
func (s *Selection) SetIncluded(itemID entities.ItemID, included bool) bool {
	l := s.line(itemID)
	if l == nil {
		return false
	}
	l.Included = included
	return true
}

// Requirement is the net amount of one item requested by the checked recipes
type Requirement struct {
	ItemID       entities.ItemID
	Amount       decimal.Decimal
	Recipes      []entities.RecipeID
	Available    decimal.Decimal
	Insufficient bool
}

// Aggregate sums included, positive amounts of checked selections per
// item, in the order items are first seen
func Aggregate(selections []*Selection) []Requirement {
	var reqs []Requirement
	index := make(map[entities.ItemID]int)

	for _, s := range selections {
		if s == nil || !s.Checked {
			continue
		}
		for _, l := range s.Lines {
			if !l.Included || !l.Amount.IsPositive() {
				continue
			}
			i, seen := index[l.ItemID]
			if !seen {
				index[l.ItemID] = len(reqs)
				reqs = append(reqs, Requirement{ItemID: l.ItemID, Amount: l.Amount, Recipes: []entities.RecipeID{s.RecipeID}})
				continue
			}
			reqs[i].Amount = reqs[i].Amount.Add(l.Amount)
			reqs[i].Recipes = append(reqs[i].Recipes, s.RecipeID)
		}
	}
	return reqs
}

// CheckAvailability fills Available and Insufficient from the items'
// current quantities. Items missing from the map count as empty. The
// result is advisory: Commit still consumes and clamps.
func CheckAvailability(reqs []Requirement, items map[entities.ItemID]*entities.Item) []Requirement {
	out := make([]Requirement, len(reqs))
	for i, req := range reqs {
		req.Recipes = append([]entities.RecipeID(nil), req.Recipes...)
		req.Available = decimal.Zero
		if item, ok := items[req.ItemID]; ok {
			req.Available = services.CurrentQuantity(item)
		}
		req.Insufficient = req.Available.LessThan(req.Amount)
		out[i] = req
	}
	return out
}

// Shortfalls returns the requirements flagged insufficient
func Shortfalls(reqs []Requirement) []Requirement {
	var out []Requirement
	for _, req := range reqs {
		if req.Insufficient {
			out = append(out, req)
		}
	}
	return out
}

// Consumption is the outcome of committing one requirement
type Consumption struct {
	ItemID    entities.ItemID
	Requested decimal.Decimal
	Consumed  decimal.Decimal
	Remaining decimal.Decimal
}

// CommitFunc consumes one requirement. ok is false when the requirement
// had nothing to consume from.
type CommitFunc func(req Requirement) (c Consumption, ok bool, err error)

// CommitWith hands every positive requirement to fn in order and collects
// the consumptions. It stops at the first error.
func CommitWith(reqs []Requirement, fn CommitFunc) ([]Consumption, error) {
	var out []Consumption
	for _, req := range reqs {
		if !req.Amount.IsPositive() {
			continue
		}
		c, ok, err := fn(req)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Commit consumes every requirement from the matching item in place.
// Requirements without an item or with a non-positive amount are skipped.
func Commit(reqs []Requirement, items map[entities.ItemID]*entities.Item) []Consumption {
	out, _ := CommitWith(reqs, func(req Requirement) (Consumption, bool, error) {
		item, ok := items[req.ItemID]
		if !ok {
			return Consumption{}, false, nil
		}
		return ConsumeRequirement(item, req.Amount), true, nil
	})
	return out
}

// Known drops the requirements whose item is missing from items
func Known(reqs []Requirement, items map[entities.ItemID]*entities.Item) (known []Requirement, unknown []entities.ItemID) {
	for _, req := range reqs {
		if _, ok := items[req.ItemID]; ok {
			known = append(known, req)
		} else {
			unknown = append(unknown, req.ItemID)
		}
	}
	return known, unknown
}

// ConsumeRequirement consumes amount from item and reports what actually left stock
func ConsumeRequirement(item *entities.Item, amount decimal.Decimal) Consumption {
	before := services.CurrentQuantity(item)
	services.ConsumeItem(item, amount)
	after := services.CurrentQuantity(item)
	return Consumption{ItemID: item.ID, Requested: amount, Consumed: before.Sub(after), Remaining: after}
}

// Plan is a checked, availability-annotated set of requirements ready to commit
type Plan struct {
	Requirements []Requirement
}

// NewPlan aggregates selections and checks them against items
func NewPlan(selections []*Selection, items map[entities.ItemID]*entities.Item) *Plan {
	return &Plan{Requirements: CheckAvailability(Aggregate(selections), items)}
}

// RecipeIDs returns the distinct recipes contributing to the plan
func (p *Plan) RecipeIDs() []entities.RecipeID {
	var out []entities.RecipeID
	seen := entities.NewSet[entities.RecipeID]()
	for _, req := range p.Requirements {
		for _, id := range req.Recipes {
			if !seen.Contains(id) {
				seen.Add(id)
				out = append(out, id)
			}
		}
	}
	return out
}
