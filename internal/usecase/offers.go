package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/menucost/backend/internal/domain"
)

// offerLoader batch-fetches catalog offers by base-product id through a
// request-scoped price cache. Multi-ingredient runs must hit the catalog
// once per batch, never once per ingredient; the per-ingredient round trip
// is the legacy anti-pattern this replaces.
type offerLoader struct {
	cache    domain.CacheRepository
	catalog  domain.CatalogClient
	cacheTTL time.Duration
}

func newOfferLoader(cache domain.CacheRepository, catalog domain.CatalogClient, ttl time.Duration) *offerLoader {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &offerLoader{cache: cache, catalog: catalog, cacheTTL: ttl}
}

func offerCacheKey(baseProductID int) string {
	return fmt.Sprintf("offers:%d", baseProductID)
}

// OffersForIDs returns priced offers grouped by base-product id. Cached
// entries are reused; all misses go to the catalog in a single query. Ids
// with no offers map to an empty slice so callers can tell "queried, none
// found" from "never queried".
func (l *offerLoader) OffersForIDs(ctx context.Context, ids []int) (map[int][]domain.Offer, error) {
	result := make(map[int][]domain.Offer, len(ids))

	var misses []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true

		cached, err := l.cache.Get(ctx, offerCacheKey(id))
		if err == nil {
			if offers, ok := decodeCachedOffers(cached); ok {
				result[id] = offers
				continue
			}
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		return result, nil
	}

	offers, err := l.catalog.GetOffersByBaseProductIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	fetched := make(map[int][]domain.Offer, len(misses))
	for _, id := range misses {
		fetched[id] = []domain.Offer{}
	}
	for _, offer := range offers {
		if !offer.Priced() {
			continue
		}
		fetched[offer.BaseProductID] = append(fetched[offer.BaseProductID], offer)
	}

	for id, group := range fetched {
		result[id] = group
		// A failed cache write only costs a refetch next run.
		_ = l.cache.Set(ctx, offerCacheKey(id), group, l.cacheTTL)
	}

	return result, nil
}

// decodeCachedOffers rebuilds offers from the cache's JSON round-trip
// representation.
func decodeCachedOffers(value interface{}) ([]domain.Offer, bool) {
	if offers, ok := value.([]domain.Offer); ok {
		return offers, true
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var offers []domain.Offer
	if err := json.Unmarshal(raw, &offers); err != nil {
		return nil, false
	}
	return offers, true
}
