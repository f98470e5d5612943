package repositories

import (
	"context"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

// TagRepository provides access to tag types and their tags
type TagRepository interface {
	GetTagTypes(ctx context.Context) ([]*entities.TagType, error)
	GetTags(ctx context.Context) ([]*entities.Tag, error)
	GetTag(ctx context.Context, id entities.TagID) (*entities.Tag, error)
	LoadTagTypes(ctx context.Context, types []*entities.TagType) error
	LoadTags(ctx context.Context, tags []*entities.Tag) error
}

// VendorRepository provides access to vendors
type VendorRepository interface {
	GetVendors(ctx context.Context) ([]*entities.Vendor, error)
	LoadVendors(ctx context.Context, vendors []*entities.Vendor) error
}

// RecipeRepository provides access to recipes
type RecipeRepository interface {
	GetRecipe(ctx context.Context, id entities.RecipeID) (*entities.Recipe, error)
	GetRecipes(ctx context.Context) ([]*entities.Recipe, error)
	LoadRecipes(ctx context.Context, recipes []*entities.Recipe) error
}
