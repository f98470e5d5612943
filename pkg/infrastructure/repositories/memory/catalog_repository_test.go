package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/pantry/pkg/domain/entities"
	"github.com/vsinha/pantry/pkg/domain/repositories"
)

func TestTagRepository_Load(t *testing.T) {
	ctx := context.Background()
	repo := NewTagRepository()

	err := repo.LoadTagTypes(ctx, []*entities.TagType{{ID: "category", Name: "Category"}, {ID: "location", Name: "Location"}})
	if err != nil {
		t.Fatalf("Failed to load tag types: %v", err)
	}
	if err := repo.LoadTagTypes(ctx, []*entities.TagType{{ID: entities.RecipeFacet, Name: "Recipe"}}); err == nil {
		t.Error("Expected reserved tag type id to be rejected")
	}

	err = repo.LoadTags(ctx, []*entities.Tag{{ID: "veg", Name: "Vegetables", TypeID: "category"}})
	if err != nil {
		t.Fatalf("Failed to load tags: %v", err)
	}
	if err := repo.LoadTags(ctx, []*entities.Tag{{ID: "x", Name: "X", TypeID: "missing"}}); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown tag type, got %v", err)
	}
	if err := repo.LoadTags(ctx, []*entities.Tag{{ID: "veg", Name: "Again", TypeID: "category"}}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	tag, err := repo.GetTag(ctx, "veg")
	if err != nil || tag.TypeID != "category" {
		t.Errorf("Expected veg in category, got %v (%v)", tag, err)
	}
	types, _ := repo.GetTagTypes(ctx)
	if len(types) != 2 {
		t.Errorf("Expected 2 tag types, got %d", len(types))
	}
}

func TestRecipeRepository_Load(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository()

	cake := &entities.Recipe{ID: "cake", Name: "Cake", Items: []entities.RecipeItem{{ItemID: "flour", DefaultAmount: decimal.NewFromInt(4)}}}
	if err := repo.LoadRecipes(ctx, []*entities.Recipe{cake}); err != nil {
		t.Fatalf("Failed to load recipes: %v", err)
	}
	if err := repo.LoadRecipes(ctx, []*entities.Recipe{cake}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	got, err := repo.GetRecipe(ctx, "cake")
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	got.Items[0].ItemID = "sugar"
	again, _ := repo.GetRecipe(ctx, "cake")
	if again.Items[0].ItemID != "flour" {
		t.Error("Recipe repository aliases recipe items")
	}

	if _, err := repo.GetRecipe(ctx, "pie"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestVendorRepository_Load(t *testing.T) {
	ctx := context.Background()
	repo := NewVendorRepository()

	if err := repo.LoadVendors(ctx, []*entities.Vendor{{ID: "market", Name: "Market"}, {ID: "market", Name: "Dup"}}); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
	vendors, _ := repo.GetVendors(ctx)
	if len(vendors) != 1 {
		t.Errorf("Expected 1 vendor, got %d", len(vendors))
	}
}
