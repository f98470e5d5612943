package entities

// Reserved facet keys. Vendor and recipe selections live in their own
// lists and never share the tag facet namespace.
const (
	VendorFacet TagTypeID = "vendor"
	RecipeFacet TagTypeID = "recipe"
)

// IsReservedFacet reports whether id collides with a non-tag facet
func IsReservedFacet(id TagTypeID) bool {
	return id == VendorFacet || id == RecipeFacet
}

// TagFilter maps a tag type to the tags selected within it
type TagFilter map[TagTypeID][]TagID

// Select appends a tag to its type's selection, creating the entry when
// absent. Reserved keys and already-selected tags are ignored.
func (f TagFilter) Select(typeID TagTypeID, tagID TagID) {
	if IsReservedFacet(typeID) {
		return
	}
	for _, id := range f[typeID] {
		if id == tagID {
			return
		}
	}
	f[typeID] = append(f[typeID], tagID)
}

// Deselect removes a tag from its type's selection, dropping the entry once empty
func (f TagFilter) Deselect(typeID TagTypeID, tagID TagID) {
	ids := f[typeID]
	out := ids[:0:0]
	for _, id := range ids {
		if id != tagID {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		delete(f, typeID)
		return
	}
	f[typeID] = out
}

// Clone returns a copy that shares no slices with f
func (f TagFilter) Clone() TagFilter {
	c := make(TagFilter, len(f))
	for typeID, ids := range f {
		c[typeID] = append([]TagID(nil), ids...)
	}
	return c
}

// FilterState is the full selection behind a list view
type FilterState struct {
	Search    string
	Tags      TagFilter
	VendorIDs []VendorID
	RecipeIDs []RecipeID
}

// IsEmpty reports whether the state narrows nothing
func (s FilterState) IsEmpty() bool {
	if s.Search != "" || len(s.VendorIDs) > 0 || len(s.RecipeIDs) > 0 {
		return false
	}
	for typeID, ids := range s.Tags {
		if len(ids) > 0 && !IsReservedFacet(typeID) {
			return false
		}
	}
	return true
}
