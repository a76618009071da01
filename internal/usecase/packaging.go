package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/menucost/backend/internal/domain"
)

// quantityEpsilon absorbs float noise when deciding whether demand remains.
const quantityEpsilon = 1e-9

// sortPackagingOptions orders options for greedy selection: promotional
// offers first, then ascending price-per-unit. Promotion takes priority
// over raw price-per-unit.
func sortPackagingOptions(options []domain.Offer) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Promotion != options[j].Promotion {
			return options[i].Promotion
		}
		ppuI := options[i].Price / options[i].PackageSize
		ppuJ := options[j].Price / options[j].PackageSize
		return ppuI < ppuJ
	})
}

// validPackagingOptions filters out unpriced or malformed options.
func validPackagingOptions(options []domain.Offer) []domain.Offer {
	valid := make([]domain.Offer, 0, len(options))
	for _, opt := range options {
		if opt.Priced() {
			valid = append(valid, opt)
		}
	}
	return valid
}

// ReferenceOption returns the option a naive single-package purchase would
// use: the head of the greedy ordering.
func ReferenceOption(options []domain.Offer) (domain.Offer, error) {
	valid := validPackagingOptions(options)
	if len(valid) == 0 {
		return domain.Offer{}, domain.ErrNoValidPackaging
	}
	sortPackagingOptions(valid)
	return valid[0], nil
}

// OptimizePackaging selects a combination of packages covering
// requiredQuantity, minimizing cost first and surplus second.
//
// The search is greedy (promotion-first, then cheapest-per-unit), not an
// exhaustive bin-pack: it never under-purchases, but it does not guarantee
// a globally cost-minimal packing. That trade-off is deliberate; whole
// menus are optimized inside a request deadline.
//
// Whole-package-only options with a remainder round up immediately,
// accepting extra surplus over bookkeeping complexity.
func OptimizePackaging(requiredQuantity float64, options []domain.Offer) (*domain.PurchasePlan, error) {
	if requiredQuantity <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	valid := validPackagingOptions(options)
	if len(valid) == 0 {
		return nil, domain.ErrNoValidPackaging
	}
	sortPackagingOptions(valid)

	remaining := requiredQuantity
	counts := make(map[int]int) // product id -> packages
	order := make([]domain.Offer, 0, len(valid))

	for _, opt := range valid {
		if remaining <= quantityEpsilon {
			break
		}

		count := int(math.Floor(remaining / opt.PackageSize))
		covered := float64(count) * opt.PackageSize
		if opt.WholePackageOnly && remaining-covered > quantityEpsilon {
			count++
		}
		if count == 0 {
			continue
		}

		if _, exists := counts[opt.ProductID]; !exists {
			order = append(order, opt)
		}
		counts[opt.ProductID] += count
		remaining -= float64(count) * opt.PackageSize
	}

	// Any shortfall left after the pass goes entirely to the most
	// cost-efficient option, ceiled to whole packages.
	if remaining > quantityEpsilon {
		best := valid[0]
		extra := int(math.Ceil(remaining / best.PackageSize))
		if _, exists := counts[best.ProductID]; !exists {
			order = append(order, best)
		}
		counts[best.ProductID] += extra
		remaining -= float64(extra) * best.PackageSize
	}

	plan := &domain.PurchasePlan{
		RequiredQuantity: requiredQuantity,
		Unit:             valid[0].Unit,
	}

	for _, opt := range order {
		sel := domain.PackSelection{Offer: opt, Packages: counts[opt.ProductID]}
		plan.Selections = append(plan.Selections, sel)
		plan.TotalQuantityBought += sel.Quantity()
		plan.TotalCost += sel.Cost()
		if opt.Promotion {
			plan.Promotion = true
		}
	}

	plan.Surplus = plan.TotalQuantityBought - requiredQuantity
	if plan.Surplus < 0 {
		plan.Surplus = 0
	}
	plan.SurplusPercent = plan.Surplus / requiredQuantity * 100
	if plan.TotalQuantityBought > 0 {
		plan.CostPerUnit = plan.TotalCost / plan.TotalQuantityBought
	}

	ref := valid[0]
	plan.PackagingInfo = fmt.Sprintf("%s: %g %s por embalagem a %.2f",
		ref.Description, ref.PackageSize, ref.Unit, ref.Price)

	return plan, nil
}
