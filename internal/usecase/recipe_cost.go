package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/menucost/backend/internal/domain"
)

// RecipeCostConfig holds configuration for the recipe cost service
type RecipeCostConfig struct {
	CacheTTL time.Duration
	// Per-portion fallback estimates used when a recipe has no priceable
	// ingredients. A fully loaded recipe costing zero is a data-quality
	// defect, never a real price.
	FallbackProteinPerPortion float64
	FallbackDefaultPerPortion float64
	// SuspectCeiling is the per-portion sanity ceiling. Results above it
	// are flagged for review, not rewritten.
	SuspectCeiling float64
}

// proteinCategories are the recipe categories treated as protein dishes
// for fallback estimation.
var proteinCategories = []string{
	"prato principal",
	"proteina",
	"proteína",
	"guarnição com proteína",
	"guarnicao com proteina",
}

// RecipeCostService resolves and aggregates ingredient costs for whole
// recipes, scaled to a target meal quantity.
type RecipeCostService struct {
	recipes  domain.RecipeClient
	catalog  domain.CatalogClient
	loader   *offerLoader
	matcher  *ProductMatcher
	resolver *IngredientCostResolver

	fallbackProtein float64
	fallbackDefault float64
	suspectCeiling  float64
}

// NewRecipeCostService creates a recipe cost service with dependencies
func NewRecipeCostService(
	cache domain.CacheRepository,
	catalog domain.CatalogClient,
	recipes domain.RecipeClient,
	matcher *ProductMatcher,
	resolver *IngredientCostResolver,
	config RecipeCostConfig,
) *RecipeCostService {
	fallbackProtein := config.FallbackProteinPerPortion
	if fallbackProtein <= 0 {
		fallbackProtein = 4.50
	}
	fallbackDefault := config.FallbackDefaultPerPortion
	if fallbackDefault <= 0 {
		fallbackDefault = 2.20
	}
	ceiling := config.SuspectCeiling
	if ceiling <= 0 {
		ceiling = 12.00
	}

	return &RecipeCostService{
		recipes:         recipes,
		catalog:         catalog,
		loader:          newOfferLoader(cache, catalog, config.CacheTTL),
		matcher:         matcher,
		resolver:        resolver,
		fallbackProtein: fallbackProtein,
		fallbackDefault: fallbackDefault,
		suspectCeiling:  ceiling,
	}
}

// CalculateRecipeCost fetches a recipe and computes its cost at the target
// meal quantity.
func (s *RecipeCostService) CalculateRecipeCost(ctx context.Context, recipeID, mealQuantity int) (*domain.RecipeCost, error) {
	if recipeID <= 0 || mealQuantity <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	recipe, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	return s.CostRecipe(ctx, recipe, mealQuantity)
}

// CostRecipe computes the cost of an already-fetched recipe. Required
// quantities are scaled by mealQuantity/baseServings *before* resolution:
// package rounding is non-linear, so scaling the cost afterwards would
// overcount at small scale and undercount at large scale.
func (s *RecipeCostService) CostRecipe(ctx context.Context, recipe *domain.Recipe, mealQuantity int) (*domain.RecipeCost, error) {
	if recipe == nil || mealQuantity <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	baseServings := recipe.BaseServings
	if baseServings <= 0 {
		// Unscaled legacy recipe: treat the authored quantities as already
		// sized for the target.
		baseServings = mealQuantity
	}
	scale := float64(mealQuantity) / float64(baseServings)

	var ids []int
	for _, ing := range recipe.Ingredients {
		if ing.BaseProductID > 0 {
			ids = append(ids, ing.BaseProductID)
		}
	}
	offersByID, err := s.loader.OffersForIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &domain.RecipeCost{
		RecipeID:        recipe.ID,
		Name:            recipe.Name,
		Category:        recipe.Category,
		BaseServings:    baseServings,
		TargetServings:  mealQuantity,
		IngredientCount: len(recipe.Ingredients),
		GeneratedAt:     time.Now().UTC(),
	}

	pricedCount := 0
	for _, ing := range recipe.Ingredients {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		scaled := ing
		scaled.Quantity = ing.Quantity * scale

		candidates, err := s.candidatesFor(ctx, ing, offersByID)
		if err != nil {
			return nil, err
		}

		detail := s.resolver.ResolveCost(scaled, candidates, mealQuantity)
		result.Ingredients = append(result.Ingredients, detail)

		if detail.NonFood {
			continue
		}
		if detail.Violation != "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", ing.Name, detail.Violation))
			continue
		}
		if detail.Found && (detail.TotalCost > 0 || detail.ZeroCostExempt) {
			pricedCount++
		}
		result.TotalCost += detail.TotalCost
	}

	if len(recipe.Ingredients) == 0 || pricedCount == 0 {
		perPortion := s.fallbackDefault
		if isProteinCategory(recipe.Category) {
			perPortion = s.fallbackProtein
		}
		result.TotalCost = perPortion * float64(mealQuantity)
		result.EstimatedCost = true
		result.Warnings = append(result.Warnings,
			"no priceable ingredients; category-based estimate applied")
		log.Printf("[COST] recipe %d (%s): fallback estimate %.2f/portion", recipe.ID, recipe.Name, perPortion)
	}

	result.CostPerPortion = result.TotalCost / float64(mealQuantity)

	if result.CostPerPortion > s.suspectCeiling {
		result.CostSuspect = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("per-portion cost %.2f above ceiling %.2f; flagged for review",
				result.CostPerPortion, s.suspectCeiling))
	}

	return result, nil
}

// candidatesFor returns the candidate offers for one ingredient: direct
// base-product lookup when an id exists, fuzzy name matching otherwise.
func (s *RecipeCostService) candidatesFor(
	ctx context.Context,
	ing domain.IngredientRequirement,
	offersByID map[int][]domain.Offer,
) ([]domain.Offer, error) {
	if ing.BaseProductID > 0 {
		return offersByID[ing.BaseProductID], nil
	}

	// Exemptions never need a catalog hit.
	if isZeroCostExempt(ing.Name) || isNonFood(ing.Name) {
		return nil, nil
	}

	offers, err := s.catalog.SearchOffersByName(ctx, ing.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	scored := s.matcher.FindCandidates(ing.Name, offers)
	candidates := make([]domain.Offer, 0, len(scored))
	for _, sc := range scored {
		candidates = append(candidates, sc.Offer)
	}
	return candidates, nil
}

// isProteinCategory reports whether a recipe category counts as a protein
// dish for fallback estimation.
func isProteinCategory(category string) bool {
	lower := strings.ToLower(strings.TrimSpace(category))
	for _, c := range proteinCategories {
		if lower == c {
			return true
		}
	}
	return false
}
