package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/menucost/backend/internal/domain"
)

// fakeCache is an in-memory domain.CacheRepository without TTL eviction,
// good enough for exercising the read-through path.
type fakeCache struct {
	mu    sync.Mutex
	store map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]interface{})}
}

func (c *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.store[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok, nil
}

// fakeCatalog serves canned offers keyed by base product id and by search
// text, counting calls so tests can assert batching behavior.
type fakeCatalog struct {
	mu           sync.Mutex
	offersByBase map[int][]domain.Offer
	offersByName map[string][]domain.Offer
	batchCalls   int
	searchCalls  int
	err          error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		offersByBase: make(map[int][]domain.Offer),
		offersByName: make(map[string][]domain.Offer),
	}
}

func (f *fakeCatalog) GetOffersByBaseProductIDs(ctx context.Context, ids []int) ([]domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	var offers []domain.Offer
	for _, id := range ids {
		offers = append(offers, f.offersByBase[id]...)
	}
	return offers, nil
}

func (f *fakeCatalog) SearchOffersByName(ctx context.Context, text string) ([]domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.offersByName[text], nil
}

// fakeRecipes serves canned recipes and menus.
type fakeRecipes struct {
	recipes map[int]*domain.Recipe
	menus   map[int]*domain.Menu
}

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{
		recipes: make(map[int]*domain.Recipe),
		menus:   make(map[int]*domain.Menu),
	}
}

func (f *fakeRecipes) GetRecipe(ctx context.Context, recipeID int) (*domain.Recipe, error) {
	recipe, ok := f.recipes[recipeID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}

func (f *fakeRecipes) GetMenu(ctx context.Context, menuID int) (*domain.Menu, error) {
	menu, ok := f.menus[menuID]
	if !ok {
		return nil, domain.ErrMenuNotFound
	}
	return menu, nil
}

// fakeStore records saved shopping lists.
type fakeStore struct {
	saved []*domain.ShoppingList
	err   error
}

func (f *fakeStore) Save(ctx context.Context, list *domain.ShoppingList) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, list)
	return nil
}
