package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/menucost/backend/internal/domain"
)

// PlannerConfig holds configuration for the purchase planner
type PlannerConfig struct {
	// Deadline bounds a whole-menu run; on expiry a flagged partial result
	// is returned instead of an unbounded hang.
	Deadline    time.Duration
	Parallelism int
	CacheTTL    time.Duration
}

// PurchasePlanner consolidates ingredient demand across every recipe of
// every menu day into one aggregated quantity per base product, optimizes
// packaging once against the whole-horizon total, and allocates the cost
// back to the contributing days and recipes.
type PurchasePlanner struct {
	recipes domain.RecipeClient
	catalog domain.CatalogClient
	loader  *offerLoader
	matcher *ProductMatcher

	deadline    time.Duration
	parallelism int
}

// NewPurchasePlanner creates a purchase planner with dependencies
func NewPurchasePlanner(
	cache domain.CacheRepository,
	catalog domain.CatalogClient,
	recipes domain.RecipeClient,
	matcher *ProductMatcher,
	config PlannerConfig,
) *PurchasePlanner {
	deadline := config.Deadline
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	parallelism := config.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	return &PurchasePlanner{
		recipes:     recipes,
		catalog:     catalog,
		loader:      newOfferLoader(cache, catalog, config.CacheTTL),
		matcher:     matcher,
		deadline:    deadline,
		parallelism: parallelism,
	}
}

// productDemand is the accumulated whole-horizon demand for one base
// product, with the (day, recipe) contributions that produced it.
type productDemand struct {
	baseProductID int
	name          string
	unit          string
	total         float64
	contributions []domain.DayAllocation
}

// Optimize runs the multi-day aggregation. Products without usable offers
// are listed as unresolved and skipped; the run still succeeds with partial
// data. A deadline expiry returns a result flagged Partial naming the
// products that were never started.
func (p *PurchasePlanner) Optimize(ctx context.Context, days []domain.MenuDay, totalMeals int) (*domain.PurchaseResult, error) {
	if len(days) == 0 || totalMeals <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	demands, order, unresolved, err := p.accumulateDemand(ctx, days)
	if err != nil {
		if ctx.Err() != nil {
			return p.expiredBeforeOptimize(demands, order, unresolved), nil
		}
		return nil, err
	}

	ids := make([]int, 0, len(order))
	for _, id := range order {
		ids = append(ids, id)
	}
	offersByID, err := p.loader.OffersForIDs(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			return p.expiredBeforeOptimize(demands, order, unresolved), nil
		}
		return nil, err
	}

	result := &domain.PurchaseResult{Unresolved: unresolved}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		naiveTotal float64
	)
	sem := make(chan struct{}, p.parallelism)

	for i, id := range order {
		// Cancellation is checked before the semaphore acquire: a two-way
		// select with both channels ready would pick at random and could
		// start products after expiry. The ones already in flight finish.
		select {
		case <-ctx.Done():
			result.Partial = true
		default:
			select {
			case <-ctx.Done():
				result.Partial = true
			case sem <- struct{}{}:
			}
		}
		if result.Partial {
			mu.Lock()
			for _, rest := range order[i:] {
				d := demands[rest]
				result.Unresolved = append(result.Unresolved, domain.UnresolvedProduct{
					BaseProductID: d.baseProductID,
					Name:          d.name,
					Quantity:      d.total,
					Unit:          d.unit,
					Reason:        "not started before deadline",
				})
			}
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(d *productDemand) {
			defer wg.Done()
			defer func() { <-sem }()

			plan, naive, unres := p.optimizeProduct(d, offersByID[d.baseProductID])

			mu.Lock()
			defer mu.Unlock()
			if unres != nil {
				result.Unresolved = append(result.Unresolved, *unres)
				return
			}
			result.Plans = append(result.Plans, *plan)
			naiveTotal += naive
		}(demands[id])
	}

	wg.Wait()

	p.summarize(result, totalMeals, naiveTotal)
	return result, nil
}

// expiredBeforeOptimize builds the flagged partial result for a deadline
// that expired while upstream data was still being fetched. Every demand
// gathered so far is reported unresolved; nothing was optimized.
func (p *PurchasePlanner) expiredBeforeOptimize(
	demands map[int]*productDemand,
	order []int,
	unresolved []domain.UnresolvedProduct,
) *domain.PurchaseResult {
	result := &domain.PurchaseResult{Unresolved: unresolved, Partial: true}
	for _, id := range order {
		d := demands[id]
		result.Unresolved = append(result.Unresolved, domain.UnresolvedProduct{
			BaseProductID: d.baseProductID,
			Name:          d.name,
			Quantity:      d.total,
			Unit:          d.unit,
			Reason:        "not started before deadline",
		})
	}
	log.Printf("[PLANNER] deadline expired during fetch; %d products unresolved", len(result.Unresolved))
	return result
}

// accumulateDemand walks every day, recipe and ingredient, scales required
// quantities to that day's meal count, and sums them per base product.
func (p *PurchasePlanner) accumulateDemand(ctx context.Context, days []domain.MenuDay) (map[int]*productDemand, []int, []domain.UnresolvedProduct, error) {
	demands := make(map[int]*productDemand)
	var order []int
	var unresolved []domain.UnresolvedProduct

	recipeCache := make(map[int]*domain.Recipe)
	nameIDs := make(map[string]int)

	for _, day := range days {
		for _, scheduled := range day.Recipes {
			if scheduled.MealsQuantity <= 0 {
				continue
			}

			recipe, ok := recipeCache[scheduled.RecipeID]
			if !ok {
				var err error
				recipe, err = p.recipes.GetRecipe(ctx, scheduled.RecipeID)
				if err != nil {
					return demands, order, unresolved, err
				}
				recipeCache[scheduled.RecipeID] = recipe
			}

			baseServings := recipe.BaseServings
			if baseServings <= 0 {
				baseServings = scheduled.MealsQuantity
			}
			scale := float64(scheduled.MealsQuantity) / float64(baseServings)

			for _, ing := range recipe.Ingredients {
				quantity := ing.Quantity * scale
				if quantity <= 0 {
					continue
				}
				if isZeroCostExempt(ing.Name) || isNonFood(ing.Name) {
					continue
				}

				id := ing.BaseProductID
				if id <= 0 {
					id = p.resolveBaseID(ctx, ing.Name, nameIDs)
				}
				if id <= 0 {
					unresolved = append(unresolved, domain.UnresolvedProduct{
						Name:     ing.Name,
						Quantity: quantity,
						Unit:     ing.Unit,
						Reason:   "no catalog match",
					})
					continue
				}

				demand, exists := demands[id]
				if !exists {
					demand = &productDemand{baseProductID: id, name: ing.Name, unit: ing.Unit}
					demands[id] = demand
					order = append(order, id)
				}

				converted, err := ConvertUnit(quantity, ing.Unit, demand.unit)
				if err != nil {
					unresolved = append(unresolved, domain.UnresolvedProduct{
						BaseProductID: id,
						Name:          ing.Name,
						Quantity:      quantity,
						Unit:          ing.Unit,
						Reason:        fmt.Sprintf("unit mismatch within aggregated demand: %v", err),
					})
					continue
				}

				demand.total += converted
				demand.contributions = append(demand.contributions, domain.DayAllocation{
					Date:     day.Date,
					RecipeID: recipe.ID,
					Quantity: converted,
				})
			}
		}
	}

	return demands, order, unresolved, nil
}

// resolveBaseID fuzzy-matches an ingredient without a base-product id to
// the catalog, memoized per run.
func (p *PurchasePlanner) resolveBaseID(ctx context.Context, name string, memo map[string]int) int {
	if id, ok := memo[name]; ok {
		return id
	}

	offers, err := p.catalog.SearchOffersByName(ctx, name)
	if err != nil {
		log.Printf("[PLANNER] search failed for %q: %v", name, err)
		memo[name] = 0
		return 0
	}

	candidates := p.matcher.FindCandidates(name, offers)
	id := 0
	if len(candidates) > 0 {
		id = candidates[0].Offer.BaseProductID
	}
	memo[name] = id
	return id
}

// optimizeProduct runs the packaging optimizer for one product's total
// demand and allocates the cost back to every contribution before the plan
// is published. It also prices the naive per-day purchase of the same
// demand for the savings comparison.
func (p *PurchasePlanner) optimizeProduct(d *productDemand, offers []domain.Offer) (*domain.PurchasePlan, float64, *domain.UnresolvedProduct) {
	options := packagingOptionsFor(d, offers)
	if len(options) == 0 {
		return nil, 0, &domain.UnresolvedProduct{
			BaseProductID: d.baseProductID,
			Name:          d.name,
			Quantity:      d.total,
			Unit:          d.unit,
			Reason:        "no priced offer with compatible unit",
		}
	}

	plan, err := OptimizePackaging(d.total, options)
	if err != nil {
		return nil, 0, &domain.UnresolvedProduct{
			BaseProductID: d.baseProductID,
			Name:          d.name,
			Quantity:      d.total,
			Unit:          d.unit,
			Reason:        err.Error(),
		}
	}

	plan.BaseProductID = d.baseProductID
	plan.ProductName = d.name

	// Proportional cost allocation; completed in full before the plan is
	// reported, never interleaved.
	allocations := make([]domain.DayAllocation, len(d.contributions))
	copy(allocations, d.contributions)
	for i := range allocations {
		allocations[i].AllocatedCost = allocations[i].Quantity / d.total * plan.TotalCost
	}
	plan.DailyDistribution = allocations

	// Naive comparison: each day buys its own share, ceiled to whole
	// packages of the reference option.
	ref, _ := ReferenceOption(options)
	naive := 0.0
	for _, c := range d.contributions {
		naive += math.Ceil(c.Quantity/ref.PackageSize) * ref.Price
	}

	return plan, naive, nil
}

// packagingOptionsFor converts every offer's package size into the
// demand's unit so the optimizer compares like with like. Offers whose
// unit cannot be converted are dropped.
func packagingOptionsFor(d *productDemand, offers []domain.Offer) []domain.Offer {
	var options []domain.Offer
	for _, offer := range offers {
		size, err := ConvertUnit(offer.PackageSize, offer.Unit, d.unit)
		if err != nil || size <= 0 {
			continue
		}
		opt := offer
		opt.PackageSize = size
		opt.Unit = d.unit
		options = append(options, opt)
	}
	return options
}

// summarize fills the horizon-level statistics, including the estimated
// savings over simulated per-day purchasing.
func (p *PurchasePlanner) summarize(result *domain.PurchaseResult, totalMeals int, naiveTotal float64) {
	s := &result.Summary
	for _, plan := range result.Plans {
		s.TotalCost += plan.TotalCost
		s.TotalSurplus += plan.Surplus
		if plan.Promotion {
			s.PromotionalItems++
		}
	}
	s.TotalProducts = len(result.Plans)
	s.CostPerMeal = s.TotalCost / float64(totalMeals)

	if naiveTotal > s.TotalCost {
		s.EstimatedSavings = naiveTotal - s.TotalCost
		s.SavingsPercentage = s.EstimatedSavings / naiveTotal * 100
	}

	s.TotalCost = round2(s.TotalCost)
	s.CostPerMeal = round2(s.CostPerMeal)
	s.TotalSurplus = round2(s.TotalSurplus)
	s.EstimatedSavings = round2(s.EstimatedSavings)
	s.SavingsPercentage = round2(s.SavingsPercentage)
}
