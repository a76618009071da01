package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/menucost/backend/internal/domain"
)

// ShoppingListRequest carries the parameters for generating a shopping
// list from a planned menu.
type ShoppingListRequest struct {
	MenuID          int
	ClientName      string
	BudgetPredicted float64
	ServingsPerDay  int
}

// ShoppingListService turns a menu's optimized purchase plan into a
// persisted shopping list with a budget verdict.
type ShoppingListService struct {
	recipes domain.RecipeClient
	planner *PurchasePlanner
	store   domain.ShoppingListStore
}

// NewShoppingListService creates a shopping list service with dependencies
func NewShoppingListService(
	recipes domain.RecipeClient,
	planner *PurchasePlanner,
	store domain.ShoppingListStore,
) *ShoppingListService {
	return &ShoppingListService{
		recipes: recipes,
		planner: planner,
		store:   store,
	}
}

// Generate builds, prices and persists the shopping list for one menu.
// Unresolved products become unpriced fallback entries (Optimized=false)
// so the list still names everything the kitchen needs.
func (s *ShoppingListService) Generate(ctx context.Context, req ShoppingListRequest) (*domain.ShoppingList, error) {
	if req.MenuID <= 0 || req.ServingsPerDay <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	menu, err := s.recipes.GetMenu(ctx, req.MenuID)
	if err != nil {
		return nil, err
	}
	if len(menu.Days) == 0 {
		return nil, domain.ErrMenuNotFound
	}

	days := make([]domain.MenuDay, len(menu.Days))
	copy(days, menu.Days)
	for i := range days {
		recipes := make([]domain.MenuRecipe, len(days[i].Recipes))
		copy(recipes, days[i].Recipes)
		for j := range recipes {
			if recipes[j].MealsQuantity <= 0 {
				recipes[j].MealsQuantity = req.ServingsPerDay
			}
		}
		days[i].Recipes = recipes
	}

	totalMeals := req.ServingsPerDay * len(days)
	result, err := s.planner.Optimize(ctx, days, totalMeals)
	if err != nil {
		return nil, err
	}

	list := &domain.ShoppingList{
		ID:                  uuid.NewString(),
		MenuID:              req.MenuID,
		ClientName:          req.ClientName,
		BudgetPredicted:     req.BudgetPredicted,
		OptimizationSummary: result.Summary,
		CreatedAt:           time.Now().UTC(),
	}

	for _, plan := range result.Plans {
		ref := plan.Selections[0].Offer
		list.Items = append(list.Items, domain.ShoppingListItem{
			ProductIDLegacy: ref.ProductIDLegacy,
			ProductName:     plan.ProductName,
			Category:        ref.Category,
			Quantity:        plan.TotalQuantityBought,
			Unit:            plan.Unit,
			UnitPrice:       round2(plan.CostPerUnit),
			TotalPrice:      round2(plan.TotalCost),
			Available:       true,
			Promotion:       plan.Promotion,
			Optimized:       true,
		})
		list.TotalCost += plan.TotalCost
	}

	for _, unres := range result.Unresolved {
		list.Items = append(list.Items, domain.ShoppingListItem{
			ProductName: unres.Name,
			Quantity:    unres.Quantity,
			Unit:        unres.Unit,
			Available:   false,
			Optimized:   false,
		})
	}

	list.TotalItems = len(list.Items)
	list.TotalCost = round2(list.TotalCost)

	list.BudgetStatus = domain.BudgetWithin
	if req.BudgetPredicted > 0 && list.TotalCost > req.BudgetPredicted {
		list.BudgetStatus = domain.BudgetOver
	}

	if err := s.store.Save(ctx, list); err != nil {
		return nil, err
	}

	log.Printf("[SHOPPING] list %s: %d items, total %.2f (%s)",
		list.ID, list.TotalItems, list.TotalCost, list.BudgetStatus)

	return list, nil
}
