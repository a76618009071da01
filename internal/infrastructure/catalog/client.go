package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/menucost/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client talks to the hosted catalog/recipe store over its REST query API.
// The store is external; the core only ever sees read-only snapshots plus
// the shopping-list write endpoint.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new catalog API client
func NewClient(apiKey, baseURL string) *Client {
	// The hosted store throttles aggressively above ~10 req/s per key.
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// getJSON executes a rate-limited GET with up to 3 attempts for transient
// failures and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "menucost/1.0")
		if c.apiKey != "" {
			req.Header.Set("apikey", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.debug {
				log.Printf("[CATALOG] request error (attempt %d): %v", attempt, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrRecipeNotFound
		}
		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[CATALOG] status %d (attempt %d): %s", resp.StatusCode, attempt, string(body))
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}

// GetOffersByBaseProductIDs fetches every available offer for the given
// base products in one query. Unpriced rows are dropped at this boundary.
func (c *Client) GetOffersByBaseProductIDs(ctx context.Context, ids []int) ([]domain.Offer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idList := make([]string, len(ids))
	for i, id := range ids {
		idList[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Add("base_ids", strings.Join(idList, ","))
	params.Add("min_price", "0")
	reqURL := fmt.Sprintf("%s/v1/offers?%s", c.baseURL, params.Encode())

	var payload struct {
		Offers []map[string]interface{} `json:"offers"`
	}
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	offers := normalizeOffers(payload.Offers)
	if c.debug {
		log.Printf("[CATALOG] %d offers for %d base products", len(offers), len(ids))
	}
	return offers, nil
}

// SearchOffersByName searches catalog offers by free-text description.
func (c *Client) SearchOffersByName(ctx context.Context, text string) ([]domain.Offer, error) {
	params := url.Values{}
	params.Add("q", text)
	params.Add("min_price", "0")
	reqURL := fmt.Sprintf("%s/v1/offers/search?%s", c.baseURL, params.Encode())

	var payload struct {
		Offers []map[string]interface{} `json:"offers"`
	}
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	return normalizeOffers(payload.Offers), nil
}

// GetRecipe fetches a recipe with its bill of materials.
func (c *Client) GetRecipe(ctx context.Context, recipeID int) (*domain.Recipe, error) {
	reqURL := fmt.Sprintf("%s/v1/recipes/%d", c.baseURL, recipeID)

	var payload struct {
		Recipe map[string]interface{} `json:"recipe"`
	}
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}
	if payload.Recipe == nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe := RecipeFromRow(payload.Recipe)
	return &recipe, nil
}

// GetMenu fetches a planned menu with its day/recipe schedule.
func (c *Client) GetMenu(ctx context.Context, menuID int) (*domain.Menu, error) {
	reqURL := fmt.Sprintf("%s/v1/menus/%d", c.baseURL, menuID)

	var payload struct {
		Menu map[string]interface{} `json:"menu"`
	}
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}
	if payload.Menu == nil {
		return nil, domain.ErrMenuNotFound
	}

	menu := MenuFromRow(payload.Menu)
	return &menu, nil
}

// SaveShoppingList persists a generated shopping list to the store.
func (c *Client) SaveShoppingList(ctx context.Context, list *domain.ShoppingList) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode shopping list: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/shopping-lists", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "menucost/1.0")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogUnavailable, resp.StatusCode, string(respBody))
	}

	if c.debug {
		log.Printf("[CATALOG] saved shopping list %s (%d items)", list.ID, list.TotalItems)
	}
	return nil
}

// Save implements domain.ShoppingListStore.
func (c *Client) Save(ctx context.Context, list *domain.ShoppingList) error {
	return c.SaveShoppingList(ctx, list)
}
