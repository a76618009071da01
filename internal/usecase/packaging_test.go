package usecase

import (
	"errors"
	"testing"

	"github.com/menucost/backend/internal/domain"
)

func TestOptimizePackaging(t *testing.T) {
	t.Run("exact multiple needs no surplus", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Feijão 1kg", Unit: "G", PackageSize: 1000, Price: 10},
		}

		plan, err := OptimizePackaging(2000, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if len(plan.Selections) != 1 || plan.Selections[0].Packages != 2 {
			t.Fatalf("Selections = %+v, want one selection of 2 packages", plan.Selections)
		}
		if !almostEqual(plan.TotalCost, 20) {
			t.Errorf("TotalCost = %v, want 20", plan.TotalCost)
		}
		if !almostEqual(plan.Surplus, 0) {
			t.Errorf("Surplus = %v, want 0", plan.Surplus)
		}
	})

	t.Run("shortfall rounds up at the cheapest option", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Feijão 1kg", Unit: "G", PackageSize: 1000, Price: 10},
		}

		plan, err := OptimizePackaging(2500, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if plan.Selections[0].Packages != 3 {
			t.Errorf("Packages = %d, want 3", plan.Selections[0].Packages)
		}
		if !almostEqual(plan.TotalQuantityBought, 3000) {
			t.Errorf("TotalQuantityBought = %v, want 3000", plan.TotalQuantityBought)
		}
		if !almostEqual(plan.Surplus, 500) {
			t.Errorf("Surplus = %v, want 500", plan.Surplus)
		}
		if !almostEqual(plan.SurplusPercent, 20) {
			t.Errorf("SurplusPercent = %v, want 20", plan.SurplusPercent)
		}
	})

	t.Run("promotional option takes priority over price per unit", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Óleo 900ml", Unit: "ML", PackageSize: 900, Price: 7.2},
			{ProductID: 2, Description: "Óleo 900ml Promo", Unit: "ML", PackageSize: 900, Price: 7.5, Promotion: true},
		}

		plan, err := OptimizePackaging(1800, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if plan.Selections[0].Offer.ProductID != 2 {
			t.Errorf("first selection = product %d, want the promotional offer", plan.Selections[0].Offer.ProductID)
		}
		if !plan.Promotion {
			t.Errorf("Promotion = false, want true")
		}
	})

	t.Run("mixes package sizes greedily", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Arroz 5kg", Unit: "KG", PackageSize: 5, Price: 20},
			{ProductID: 2, Description: "Arroz 1kg", Unit: "KG", PackageSize: 1, Price: 5},
		}

		// 7 kg: one 5 kg package (4.00/kg) then two 1 kg packages.
		plan, err := OptimizePackaging(7, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if len(plan.Selections) != 2 {
			t.Fatalf("Selections = %+v, want two products", plan.Selections)
		}
		if plan.Selections[0].Offer.ProductID != 1 || plan.Selections[0].Packages != 1 {
			t.Errorf("first selection = %+v, want 1x 5kg", plan.Selections[0])
		}
		if plan.Selections[1].Offer.ProductID != 2 || plan.Selections[1].Packages != 2 {
			t.Errorf("second selection = %+v, want 2x 1kg", plan.Selections[1])
		}
		if !almostEqual(plan.TotalCost, 30) {
			t.Errorf("TotalCost = %v, want 30", plan.TotalCost)
		}
		if !almostEqual(plan.Surplus, 0) {
			t.Errorf("Surplus = %v, want 0", plan.Surplus)
		}
	})

	t.Run("whole package only rounds up immediately", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Farinha 1kg", Unit: "G", PackageSize: 1000, Price: 6, WholePackageOnly: true},
		}

		plan, err := OptimizePackaging(1500, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if plan.Selections[0].Packages != 2 {
			t.Errorf("Packages = %d, want 2", plan.Selections[0].Packages)
		}
		if !almostEqual(plan.Surplus, 500) {
			t.Errorf("Surplus = %v, want 500", plan.Surplus)
		}
	})

	t.Run("never under-purchases", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Açúcar 2kg", Unit: "KG", PackageSize: 2, Price: 9},
			{ProductID: 2, Description: "Açúcar 5kg", Unit: "KG", PackageSize: 5, Price: 21},
		}

		for _, required := range []float64{0.5, 1, 2.3, 4.999, 5, 7.77, 12} {
			plan, err := OptimizePackaging(required, options)
			if err != nil {
				t.Fatalf("OptimizePackaging(%v) error = %v", required, err)
			}
			if plan.TotalQuantityBought < required-quantityEpsilon {
				t.Errorf("required %v: bought %v, must cover demand", required, plan.TotalQuantityBought)
			}
			if plan.Surplus < 0 {
				t.Errorf("required %v: negative surplus %v", required, plan.Surplus)
			}
		}
	})

	t.Run("greedy fallback can pay more for a smaller demand", func(t *testing.T) {
		// Known trade-off of the floor-then-fallback greedy: it is not a
		// bin-pack. A demand of 9 takes zero 10 kg sacks and fills up with
		// nine 1 kg bags (13.50), while a demand of 10 gets the single
		// 10 kg sack (10.00). Cost is not monotonic in demand across
		// mixed-size option sets; it is within a single option (below).
		options := []domain.Offer{
			{ProductID: 1, Description: "Saco 10kg", Unit: "KG", PackageSize: 10, Price: 10},
			{ProductID: 2, Description: "Saco 1kg", Unit: "KG", PackageSize: 1, Price: 1.5},
		}

		nine, err := OptimizePackaging(9, options)
		if err != nil {
			t.Fatalf("OptimizePackaging(9) error = %v", err)
		}
		ten, err := OptimizePackaging(10, options)
		if err != nil {
			t.Fatalf("OptimizePackaging(10) error = %v", err)
		}

		if !almostEqual(nine.TotalCost, 13.5) {
			t.Errorf("cost(9) = %v, want 13.5", nine.TotalCost)
		}
		if !almostEqual(ten.TotalCost, 10) {
			t.Errorf("cost(10) = %v, want 10", ten.TotalCost)
		}
		if nine.TotalCost <= ten.TotalCost {
			t.Errorf("cost(9) = %v <= cost(10) = %v; the recorded trade-off no longer holds, revisit this test",
				nine.TotalCost, ten.TotalCost)
		}
	})

	t.Run("cost never decreases with demand for a single option", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Arroz 1kg", Unit: "KG", PackageSize: 1, Price: 2},
		}

		prev := 0.0
		for _, required := range []float64{0.5, 1, 1.5, 2, 3.2, 5, 9, 9.01} {
			plan, err := OptimizePackaging(required, options)
			if err != nil {
				t.Fatalf("OptimizePackaging(%v) error = %v", required, err)
			}
			if plan.TotalCost < prev-quantityEpsilon {
				t.Errorf("required %v: cost %v dropped below %v", required, plan.TotalCost, prev)
			}
			prev = plan.TotalCost
		}
	})

	t.Run("unpriced options are ignored", func(t *testing.T) {
		options := []domain.Offer{
			{ProductID: 1, Description: "Sem preço", Unit: "KG", PackageSize: 1, Price: 0},
			{ProductID: 2, Description: "Arroz 1kg", Unit: "KG", PackageSize: 1, Price: 5},
		}

		plan, err := OptimizePackaging(2, options)
		if err != nil {
			t.Fatalf("OptimizePackaging() error = %v", err)
		}
		if plan.Selections[0].Offer.ProductID != 2 {
			t.Errorf("selected product %d, want the priced one", plan.Selections[0].Offer.ProductID)
		}
	})

	t.Run("no valid options", func(t *testing.T) {
		_, err := OptimizePackaging(2, []domain.Offer{{PackageSize: 0, Price: 5}})
		if !errors.Is(err, domain.ErrNoValidPackaging) {
			t.Errorf("error = %v, want ErrNoValidPackaging", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := OptimizePackaging(0, []domain.Offer{{Unit: "KG", PackageSize: 1, Price: 5}})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestReferenceOption(t *testing.T) {
	options := []domain.Offer{
		{ProductID: 1, Unit: "KG", PackageSize: 1, Price: 5},
		{ProductID: 2, Unit: "KG", PackageSize: 5, Price: 20},
	}

	ref, err := ReferenceOption(options)
	if err != nil {
		t.Fatalf("ReferenceOption() error = %v", err)
	}
	if ref.ProductID != 2 {
		t.Errorf("reference = product %d, want the cheapest per unit", ref.ProductID)
	}

	_, err = ReferenceOption(nil)
	if !errors.Is(err, domain.ErrNoValidPackaging) {
		t.Errorf("error = %v, want ErrNoValidPackaging", err)
	}
}
