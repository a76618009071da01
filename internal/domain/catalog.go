package domain

// Offer represents one purchasable SKU for a base product in the market
// catalog. Many offers (brands, package sizes) may share a BaseProductID.
type Offer struct {
	ProductID        int     `json:"productId"`
	ProductIDLegacy  string  `json:"productIdLegacy,omitempty"`
	BaseProductID    int     `json:"baseProductId"`
	Description      string  `json:"description"`
	Category         string  `json:"category,omitempty"`
	Unit             string  `json:"unit"`
	PackageSize      float64 `json:"packageSize"` // quantity per package, in Unit
	Price            float64 `json:"price"`       // price per package
	PurchasePrice    float64 `json:"purchasePrice,omitempty"`
	Promotion        bool    `json:"promotion"`
	WholePackageOnly bool    `json:"wholePackageOnly"`
	Available        bool    `json:"available"`
}

// Priced reports whether the offer can participate in cost calculations.
// Offers with price <= 0 or package size <= 0 are treated as unpriced.
func (o Offer) Priced() bool {
	return o.Price > 0 && o.PackageSize > 0
}

// IngredientRequirement is one line of a recipe's bill of materials,
// authored against the recipe's base serving count.
type IngredientRequirement struct {
	RecipeID      int     `json:"recipeId"`
	BaseProductID int     `json:"baseProductId,omitempty"` // 0 = unknown, resolve by name
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
}

// Recipe carries the metadata and bill of materials needed for costing.
type Recipe struct {
	ID           int                     `json:"id"`
	Name         string                  `json:"name"`
	Category     string                  `json:"category"`
	BaseServings int                     `json:"baseServings"`
	Ingredients  []IngredientRequirement `json:"ingredients"`
}

// MenuRecipe schedules one recipe on a menu day with its meal count.
type MenuRecipe struct {
	RecipeID      int `json:"recipeId"`
	MealsQuantity int `json:"mealsQuantity"`
}

// MenuDay is one day of a planned menu.
type MenuDay struct {
	Date    string       `json:"date"`
	Recipes []MenuRecipe `json:"recipes"`
}

// Menu is a multi-day meal plan for one client contract.
type Menu struct {
	ID         int       `json:"id"`
	ClientName string    `json:"clientName,omitempty"`
	Days       []MenuDay `json:"days"`
}
