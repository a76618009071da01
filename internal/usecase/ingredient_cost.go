package usecase

import (
	"log"
	"math"
	"strings"

	"github.com/menucost/backend/internal/domain"
)

// violationNotFound is recorded when no priced, unit-compatible offer
// exists for an ingredient. Distinct from a genuinely free ingredient.
const violationNotFound = "ingredient not found in market"

// zeroCostIngredients are recognized business exceptions that cost nothing
// regardless of catalog contents (tap water, table salt, basic seasoning).
var zeroCostIngredients = map[string]bool{
	"agua":                  true,
	"água":                  true,
	"agua natural":          true,
	"água natural":          true,
	"sal":                   true,
	"sal refinado":          true,
	"pimenta do reino":      true,
	"pimenta-do-reino":      true,
	"oregano":               true,
	"orégano":               true,
}

// nonFoodKeywords mark disposables and cleaning supplies that appear on
// legacy ingredient lists but must not enter meal cost aggregation.
var nonFoodKeywords = []string{
	"copo",
	"tampa",
	"guardanapo",
	"papel toalha",
	"papel filme",
	"filme pvc",
	"descartavel",
	"descartável",
	"detergente",
	"esponja",
	"luva",
	"touca",
	"saco de lixo",
}

// isZeroCostExempt reports whether the ingredient name is on the zero-cost
// exception list.
func isZeroCostExempt(name string) bool {
	return zeroCostIngredients[strings.ToLower(strings.TrimSpace(name))]
}

// isNonFood reports whether a name or offer description refers to a
// non-food product.
func isNonFood(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range nonFoodKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ResolverConfig holds configuration for the ingredient cost resolver
type ResolverConfig struct {
	PromoDiscount      float64
	EnableDebugLogging bool
}

// IngredientCostResolver selects the cheapest effective offer for one
// ingredient and computes its purchase quantity, cost and efficiency.
//
// The promotional discount (default 10%) is a selection heuristic only:
// offers are ranked by discounted effective cost, but the recorded
// TotalCost always uses the undiscounted package price.
type IngredientCostResolver struct {
	promoDiscount      float64
	enableDebugLogging bool
}

// NewIngredientCostResolver creates a new resolver with the given configuration
func NewIngredientCostResolver(config ResolverConfig) *IngredientCostResolver {
	discount := config.PromoDiscount
	if discount <= 0 || discount >= 1 {
		discount = 0.10
	}

	return &IngredientCostResolver{
		promoDiscount:      discount,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ResolveCost computes the cost result for one ingredient against its
// candidate offers, scaled quantities already applied by the caller.
func (r *IngredientCostResolver) ResolveCost(
	ingredient domain.IngredientRequirement,
	candidates []domain.Offer,
	mealQuantity int,
) domain.IngredientCost {
	result := domain.IngredientCost{
		IngredientName: ingredient.Name,
		QuantityNeeded: ingredient.Quantity,
		Unit:           ingredient.Unit,
	}

	if isNonFood(ingredient.Name) {
		result.NonFood = true
		result.Found = true
		return result
	}

	if isZeroCostExempt(ingredient.Name) {
		result.ZeroCostExempt = true
		result.Found = true
		return result
	}

	if ingredient.Quantity <= 0 {
		// Nothing needed; zero cost is correct, not a violation.
		result.Found = true
		return result
	}

	if len(candidates) == 0 {
		result.Violation = violationNotFound
		return result
	}

	bestEffective := -1.0
	for _, offer := range candidates {
		if !offer.Priced() {
			continue
		}

		needed, err := ConvertUnit(ingredient.Quantity, ingredient.Unit, offer.Unit)
		if err != nil {
			if r.enableDebugLogging {
				log.Printf("[COST] skipping offer %q: %v", offer.Description, err)
			}
			continue
		}

		packages := needed / offer.PackageSize
		if offer.WholePackageOnly {
			packages = math.Ceil(packages)
		}

		total := packages * offer.Price
		effective := total
		if offer.Promotion {
			effective = total * (1 - r.promoDiscount)
		}

		if bestEffective < 0 || effective < bestEffective {
			bestEffective = effective
			result.ProductDescription = offer.Description
			result.QuantityInOfferUnit = needed
			result.OfferUnit = offer.Unit
			result.PackageSize = offer.PackageSize
			result.PackagesNeeded = packages
			result.UnitPrice = offer.Price
			result.TotalCost = total
			result.Promotion = offer.Promotion
			result.FractionalAllowed = !offer.WholePackageOnly
			result.Efficiency = needed / offer.PackageSize
		}
	}

	if bestEffective < 0 {
		// Every candidate was unpriced or unit-incompatible.
		result.Violation = violationNotFound
		return result
	}

	// A matched disposable must never contribute to meal cost even when the
	// ingredient name alone did not give it away.
	if isNonFood(result.ProductDescription) {
		return domain.IngredientCost{
			IngredientName:     ingredient.Name,
			ProductDescription: result.ProductDescription,
			QuantityNeeded:     ingredient.Quantity,
			Unit:               ingredient.Unit,
			NonFood:            true,
			Found:              true,
		}
	}

	result.Found = true
	if mealQuantity > 0 {
		result.CostPerMeal = result.TotalCost / float64(mealQuantity)
	}

	return result
}
