package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucost/backend/internal/domain"
	"github.com/menucost/backend/internal/usecase"
)

// recipeCoster computes recipe costs at a target meal quantity.
type recipeCoster interface {
	CalculateRecipeCost(ctx context.Context, recipeID, mealQuantity int) (*domain.RecipeCost, error)
}

// listGenerator builds and persists shopping lists.
type listGenerator interface {
	Generate(ctx context.Context, req usecase.ShoppingListRequest) (*domain.ShoppingList, error)
}

// purchaseOptimizer runs whole-horizon purchase aggregation.
type purchaseOptimizer interface {
	Optimize(ctx context.Context, days []domain.MenuDay, totalMeals int) (*domain.PurchaseResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipeCost   recipeCoster
	shoppingList listGenerator
	purchases    purchaseOptimizer
}

// NewHandler creates a new HTTP handler
func NewHandler(recipeCost recipeCoster, shoppingList listGenerator, purchases purchaseOptimizer) *Handler {
	return &Handler{
		recipeCost:   recipeCost,
		shoppingList: shoppingList,
		purchases:    purchases,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "menucost-backend",
		"version": "1.0.0",
	})
}

// recipeCostRequest is the cost-calculation request body.
type recipeCostRequest struct {
	RecipeID     int `json:"recipeId" binding:"required"`
	MealQuantity int `json:"mealQuantity" binding:"required"`
}

// CalculateRecipeCost handles POST /cost/recipe.
// A result with warnings is still a success; only upstream failures and
// bad requests produce success=false.
func (h *Handler) CalculateRecipeCost(c *gin.Context) {
	var req recipeCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.recipeCost.CalculateRecipeCost(c.Request.Context(), req.RecipeID, req.MealQuantity)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"recipeId":        result.RecipeID,
			"name":            result.Name,
			"category":        result.Category,
			"baseServings":    result.BaseServings,
			"targetServings":  result.TargetServings,
			"ingredients":     result.Ingredients,
			"ingredientCount": result.IngredientCount,
			"totalCost":       result.TotalCost,
			"costPerPortion":  result.CostPerPortion,
			"warnings":        result.Warnings,
			"metadata": gin.H{
				"generatedAt":   result.GeneratedAt,
				"mealQuantity":  result.TargetServings,
				"estimatedCost": result.EstimatedCost,
				"fallbackUsed":  result.EstimatedCost,
				"costSuspect":   result.CostSuspect,
			},
		},
	})
}

// shoppingListRequest is the shopping-list generation request body.
type shoppingListRequest struct {
	MenuID          int     `json:"menuId" binding:"required"`
	ClientName      string  `json:"clientName"`
	BudgetPredicted float64 `json:"budgetPredicted"`
	ServingsPerDay  int     `json:"servingsPerDay" binding:"required"`
}

// GenerateShoppingList handles POST /shopping-list.
func (h *Handler) GenerateShoppingList(c *gin.Context) {
	var req shoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	list, err := h.shoppingList.Generate(c.Request.Context(), usecase.ShoppingListRequest{
		MenuID:          req.MenuID,
		ClientName:      req.ClientName,
		BudgetPredicted: req.BudgetPredicted,
		ServingsPerDay:  req.ServingsPerDay,
	})
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"shoppingListId":      list.ID,
		"totalItems":          list.TotalItems,
		"totalCost":           list.TotalCost,
		"budgetStatus":        list.BudgetStatus,
		"optimizationSummary": list.OptimizationSummary,
		"items":               list.Items,
	})
}

// purchaseRequest is the purchase-optimization request body.
type purchaseRequest struct {
	MenuDays   []domain.MenuDay `json:"menuDays" binding:"required"`
	TotalMeals int              `json:"totalMeals" binding:"required"`
}

// OptimizePurchases handles POST /purchase/optimize. Unresolved products
// and deadline-flagged partial runs are degraded successes, never errors.
func (h *Handler) OptimizePurchases(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.purchases.Optimize(c.Request.Context(), req.MenuDays, req.TotalMeals)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"optimizedPurchases": result.Plans,
		"summary":            result.Summary,
		"unresolved":         result.Unresolved,
		"partial":            result.Partial,
	})
}

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecipeNotFound), errors.Is(err, domain.ErrMenuNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
