package domain

import "time"

// IngredientCost is the computed outcome for one ingredient against its
// chosen catalog offer.
type IngredientCost struct {
	IngredientName      string  `json:"ingredientName"`
	ProductDescription  string  `json:"productDescription,omitempty"`
	QuantityNeeded      float64 `json:"quantityNeeded"` // in the ingredient's unit
	Unit                string  `json:"unit"`
	QuantityInOfferUnit float64 `json:"quantityInOfferUnit,omitempty"`
	OfferUnit           string  `json:"offerUnit,omitempty"`
	PackageSize         float64 `json:"packageSize,omitempty"`
	PackagesNeeded      float64 `json:"packagesNeeded"`
	UnitPrice           float64 `json:"unitPrice"` // price per package, undiscounted
	TotalCost           float64 `json:"totalCost"`
	CostPerMeal         float64 `json:"costPerMeal"`
	Promotion           bool    `json:"promotion"`
	FractionalAllowed   bool    `json:"fractionalAllowed"`
	// Efficiency is needed-quantity / package-size: near 1 means the
	// package matches the need, far below 1 means oversized packaging.
	Efficiency     float64 `json:"efficiency"`
	Found          bool    `json:"found"`
	ZeroCostExempt bool    `json:"zeroCostExempt,omitempty"`
	NonFood        bool    `json:"nonFood,omitempty"`
	Violation      string  `json:"violation,omitempty"`
}

// RecipeCost aggregates ingredient costs for one recipe at a target
// meal quantity.
type RecipeCost struct {
	RecipeID        int              `json:"recipeId"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	BaseServings    int              `json:"baseServings"`
	TargetServings  int              `json:"targetServings"`
	Ingredients     []IngredientCost `json:"ingredients"`
	IngredientCount int              `json:"ingredientCount"`
	TotalCost       float64          `json:"totalCost"`
	CostPerPortion  float64          `json:"costPerPortion"`
	EstimatedCost   bool             `json:"estimatedCost,omitempty"`
	// CostSuspect marks per-portion costs above the sanity ceiling for
	// review; the value itself is never rewritten.
	CostSuspect bool      `json:"costSuspect,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// PackSelection is one chosen package option and how many packages of it
// to buy.
type PackSelection struct {
	Offer    Offer `json:"offer"`
	Packages int   `json:"packages"`
}

// Quantity returns the total quantity this selection covers, in the
// offer's unit.
func (p PackSelection) Quantity() float64 {
	return float64(p.Packages) * p.Offer.PackageSize
}

// Cost returns the undiscounted cost of this selection.
func (p PackSelection) Cost() float64 {
	return float64(p.Packages) * p.Offer.Price
}

// DayAllocation is one (day, recipe) contribution to an aggregated
// product demand, with its proportional share of the purchase cost.
type DayAllocation struct {
	Date          string  `json:"date"`
	RecipeID      int     `json:"recipeId"`
	Quantity      float64 `json:"quantity"`
	AllocatedCost float64 `json:"allocatedCost"`
}

// PurchasePlan is the optimized purchase for one base product across the
// whole menu horizon. TotalQuantityBought >= RequiredQuantity always.
type PurchasePlan struct {
	BaseProductID       int             `json:"baseProductId"`
	ProductName         string          `json:"name"`
	Unit                string          `json:"unit"`
	RequiredQuantity    float64         `json:"totalNeeded"`
	Selections          []PackSelection `json:"packagesToBuy"`
	TotalQuantityBought float64         `json:"totalQuantityBought"`
	TotalCost           float64         `json:"totalCost"`
	CostPerUnit         float64         `json:"costPerUnit"`
	Surplus             float64         `json:"surplus"`
	SurplusPercent      float64         `json:"surplusPercentage"`
	Promotion           bool            `json:"promotion"`
	PackagingInfo       string          `json:"packagingInfo,omitempty"`
	DailyDistribution   []DayAllocation `json:"dailyDistribution"`
}

// UnresolvedProduct records demand that could not be priced; aggregation
// continues without it.
type UnresolvedProduct struct {
	BaseProductID int     `json:"baseProductId"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Reason        string  `json:"reason"`
}

// PurchaseSummary carries the horizon-level statistics of a purchase
// optimization run.
type PurchaseSummary struct {
	TotalCost         float64 `json:"totalCost"`
	CostPerMeal       float64 `json:"costPerMeal"`
	TotalProducts     int     `json:"totalProducts"`
	PromotionalItems  int     `json:"promotionalItems"`
	TotalSurplus      float64 `json:"totalSurplus"`
	EstimatedSavings  float64 `json:"estimatedSavings"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

// PurchaseResult is the (possibly partial) output of a multi-day purchase
// aggregation run.
type PurchaseResult struct {
	Plans      []PurchasePlan      `json:"optimizedPurchases"`
	Summary    PurchaseSummary     `json:"summary"`
	Unresolved []UnresolvedProduct `json:"unresolved,omitempty"`
	// Partial is set when the run hit its deadline; Unresolved then also
	// lists the products that were never started.
	Partial bool `json:"partial,omitempty"`
}

// ShoppingListItem is one consolidated product line of a persisted
// shopping list.
type ShoppingListItem struct {
	ProductIDLegacy string  `json:"productIdLegacy,omitempty"`
	ProductName     string  `json:"productName"`
	Category        string  `json:"category,omitempty"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`
	Available       bool    `json:"available"`
	Promotion       bool    `json:"promotion"`
	// Optimized distinguishes packaging-optimized entries from simple
	// fallback entries.
	Optimized bool `json:"optimized"`
}

// BudgetStatus values for a shopping list.
const (
	BudgetWithin = "within_budget"
	BudgetOver   = "over_budget"
)

// ShoppingList is the persisted purchasing artifact for one menu.
type ShoppingList struct {
	ID                  string             `json:"shoppingListId"`
	MenuID              int                `json:"menuId"`
	ClientName          string             `json:"clientName"`
	BudgetPredicted     float64            `json:"budgetPredicted"`
	TotalItems          int                `json:"totalItems"`
	TotalCost           float64            `json:"totalCost"`
	BudgetStatus        string             `json:"budgetStatus"`
	Items               []ShoppingListItem `json:"items"`
	OptimizationSummary PurchaseSummary    `json:"optimizationSummary"`
	CreatedAt           time.Time          `json:"createdAt"`
}
