// Package filtering narrows item lists by free-text search, tag facets,
// vendors and recipes. Every function returns a new slice and leaves its
// inputs untouched.
package filtering

import (
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

type facet struct {
	typeID entities.TagTypeID
	tagIDs []entities.TagID
}

// activeFacets returns the facets with a non-empty selection. Reserved
// keys are skipped.
func activeFacets(filter entities.TagFilter) []facet {
	var active []facet
	for typeID, tagIDs := range filter {
		if len(tagIDs) == 0 || entities.IsReservedFacet(typeID) {
			continue
		}
		active = append(active, facet{typeID: typeID, tagIDs: tagIDs})
	}
	return active
}

// FilterItems keeps items that match every active facet, where an item
// matches a facet when it carries at least one of the facet's tags. With
// no active facet every item passes.
func FilterItems(items []*entities.Item, filter entities.TagFilter) []*entities.Item {
	active := activeFacets(filter)
	if len(active) == 0 {
		return append([]*entities.Item(nil), items...)
	}

	out := make([]*entities.Item, 0, len(items))
	for _, item := range items {
		if matchesAll(item, active) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAll(item *entities.Item, active []facet) bool {
	for _, f := range active {
		if !item.TagIDs.Intersects(f.tagIDs) {
			return false
		}
	}
	return true
}

// CalculateTagCount returns how many items would remain if tagID were
// selected in addition to the current filters
func CalculateTagCount(tagID entities.TagID, typeID entities.TagTypeID, items []*entities.Item, current entities.TagFilter) int {
	hypothetical := current.Clone()
	hypothetical.Select(typeID, tagID)

	count := 0
	active := activeFacets(hypothetical)
	for _, item := range items {
		if len(active) == 0 || matchesAll(item, active) {
			count++
		}
	}
	return count
}

// FilterItemsByVendors keeps items sold by at least one selected vendor.
// An empty selection keeps everything.
func FilterItemsByVendors(items []*entities.Item, vendorIDs []entities.VendorID) []*entities.Item {
	if len(vendorIDs) == 0 {
		return append([]*entities.Item(nil), items...)
	}

	out := make([]*entities.Item, 0, len(items))
	for _, item := range items {
		if item.VendorIDs.Intersects(vendorIDs) {
			out = append(out, item)
		}
	}
	return out
}

// FilterItemsByRecipes keeps items used by at least one selected recipe.
// An empty selection keeps everything; unknown recipe ids select nothing.
func FilterItemsByRecipes(items []*entities.Item, recipeIDs []entities.RecipeID, recipes []*entities.Recipe) []*entities.Item {
	if len(recipeIDs) == 0 {
		return append([]*entities.Item(nil), items...)
	}

	selected := entities.NewSet(recipeIDs...)
	used := entities.NewSet[entities.ItemID]()
	for _, recipe := range recipes {
		if !selected.Contains(recipe.ID) {
			continue
		}
		for _, ri := range recipe.Items {
			used.Add(ri.ItemID)
		}
	}

	out := make([]*entities.Item, 0, len(items))
	for _, item := range items {
		if used.Contains(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// SearchItems keeps items whose name contains query, ignoring case and
// diacritics. An empty query keeps everything.
func SearchItems(items []*entities.Item, query string) []*entities.Item {
	if query == "" {
		return append([]*entities.Item(nil), items...)
	}

	matcher := search.New(language.Und, search.IgnoreCase, search.IgnoreDiacritics)
	pattern := matcher.CompileString(query)

	out := make([]*entities.Item, 0, len(items))
	for _, item := range items {
		if start, _ := pattern.IndexString(item.Name); start >= 0 {
			out = append(out, item)
		}
	}
	return out
}

// Apply runs search, tag, vendor and recipe filters in sequence, each
// narrowing the previous result
func Apply(items []*entities.Item, state entities.FilterState, recipes []*entities.Recipe) []*entities.Item {
	out := SearchItems(items, state.Search)
	out = FilterItems(out, state.Tags)
	out = FilterItemsByVendors(out, state.VendorIDs)
	return FilterItemsByRecipes(out, state.RecipeIDs, recipes)
}
