package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
)

// TagRepository provides in-memory tag type and tag storage
type TagRepository struct {
	mu       sync.RWMutex
	tagTypes []*entities.TagType
	tags     []*entities.Tag
	tagsMap  map[entities.TagID]*entities.Tag
}

// NewTagRepository creates a new in-memory tag repository
func NewTagRepository() *TagRepository {
	return &TagRepository{tagsMap: make(map[entities.TagID]*entities.Tag)}
}

var _ repositories.TagRepository = (*TagRepository)(nil)

// LoadTagTypes loads tag types, rejecting duplicate and reserved ids
func (r *TagRepository) LoadTagTypes(_ context.Context, types []*entities.TagType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tt := range types {
		if entities.IsReservedFacet(tt.ID) {
			return fmt.Errorf("tag type id %q is reserved", tt.ID)
		}
		for _, existing := range r.tagTypes {
			if existing.ID == tt.ID {
				return fmt.Errorf("tag type %s: %w", tt.ID, repositories.ErrDuplicate)
			}
		}
		cp := *tt
		r.tagTypes = append(r.tagTypes, &cp)
	}
	return nil
}

// LoadTags loads tags; each tag's type must already be loaded
func (r *TagRepository) LoadTags(_ context.Context, tags []*entities.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tag := range tags {
		if _, exists := r.tagsMap[tag.ID]; exists {
			return fmt.Errorf("tag %s: %w", tag.ID, repositories.ErrDuplicate)
		}
		if !r.hasType(tag.TypeID) {
			return fmt.Errorf("tag %s references tag type %s: %w", tag.ID, tag.TypeID, repositories.ErrNotFound)
		}
		cp := *tag
		r.tags = append(r.tags, &cp)
		r.tagsMap[cp.ID] = &cp
	}
	return nil
}

func (r *TagRepository) hasType(id entities.TagTypeID) bool {
	for _, tt := range r.tagTypes {
		if tt.ID == id {
			return true
		}
	}
	return false
}

// GetTagTypes returns all tag types
func (r *TagRepository) GetTagTypes(_ context.Context) ([]*entities.TagType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.TagType, 0, len(r.tagTypes))
	for _, tt := range r.tagTypes {
		cp := *tt
		out = append(out, &cp)
	}
	return out, nil
}

// GetTags returns all tags
func (r *TagRepository) GetTags(_ context.Context) ([]*entities.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		cp := *tag
		out = append(out, &cp)
	}
	return out, nil
}

// GetTag returns a single tag
func (r *TagRepository) GetTag(_ context.Context, id entities.TagID) (*entities.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, exists := r.tagsMap[id]
	if !exists {
		return nil, fmt.Errorf("tag %s: %w", id, repositories.ErrNotFound)
	}
	cp := *tag
	return &cp, nil
}

// VendorRepository provides in-memory vendor storage
type VendorRepository struct {
	mu      sync.RWMutex
	vendors []*entities.Vendor
}

// NewVendorRepository creates a new in-memory vendor repository
func NewVendorRepository() *VendorRepository {
	return &VendorRepository{}
}

var _ repositories.VendorRepository = (*VendorRepository)(nil)

// LoadVendors loads vendors, rejecting duplicate ids
func (r *VendorRepository) LoadVendors(_ context.Context, vendors []*entities.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range vendors {
		for _, existing := range r.vendors {
			if existing.ID == v.ID {
				return fmt.Errorf("vendor %s: %w", v.ID, repositories.ErrDuplicate)
			}
		}
		cp := *v
		r.vendors = append(r.vendors, &cp)
	}
	return nil
}

// GetVendors returns all vendors
func (r *VendorRepository) GetVendors(_ context.Context) ([]*entities.Vendor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

// RecipeRepository provides in-memory recipe storage
type RecipeRepository struct {
	mu         sync.RWMutex
	recipes    []*entities.Recipe
	recipesMap map[entities.RecipeID]int
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipesMap: make(map[entities.RecipeID]int)}
}

var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes, rejecting duplicate ids
func (r *RecipeRepository) LoadRecipes(_ context.Context, recipes []*entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recipe := range recipes {
		if _, exists := r.recipesMap[recipe.ID]; exists {
			return fmt.Errorf("recipe %s: %w", recipe.ID, repositories.ErrDuplicate)
		}
		r.recipesMap[recipe.ID] = len(r.recipes)
		r.recipes = append(r.recipes, cloneRecipe(recipe))
	}
	return nil
}

// GetRecipe returns a single recipe
func (r *RecipeRepository) GetRecipe(_ context.Context, id entities.RecipeID) (*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.recipesMap[id]
	if !exists {
		return nil, fmt.Errorf("recipe %s: %w", id, repositories.ErrNotFound)
	}
	return cloneRecipe(r.recipes[index]), nil
}

// GetRecipes returns all recipes
func (r *RecipeRepository) GetRecipes(_ context.Context) ([]*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		out = append(out, cloneRecipe(recipe))
	}
	return out, nil
}

func cloneRecipe(recipe *entities.Recipe) *entities.Recipe {
	cp := *recipe
	cp.Items = append([]entities.RecipeItem(nil), recipe.Items...)
	return &cp
}
