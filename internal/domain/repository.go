package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient defines the interface for querying the market product
// catalog. Implementations must drop unpriced offers (price <= 0) at the
// boundary.
type CatalogClient interface {
	GetOffersByBaseProductIDs(ctx context.Context, ids []int) ([]Offer, error)
	SearchOffersByName(ctx context.Context, text string) ([]Offer, error)
}

// RecipeClient defines the interface for fetching recipes (including their
// bill of materials) and planned menus from the upstream store.
type RecipeClient interface {
	GetRecipe(ctx context.Context, recipeID int) (*Recipe, error)
	GetMenu(ctx context.Context, menuID int) (*Menu, error)
}

// ShoppingListStore persists generated shopping lists.
// (The hosted store is external; implementations post the finished artifact.)
type ShoppingListStore interface {
	Save(ctx context.Context, list *ShoppingList) error
}
