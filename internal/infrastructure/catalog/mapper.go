package catalog

import (
	"strconv"
	"strings"

	"github.com/menucost/backend/internal/domain"
)

// The store serves rows synced from the legacy ERP alongside rows written
// by the new dashboard, so the same field arrives under either its
// Portuguese legacy name or its English name, and numeric/boolean values
// are not always typed consistently. Normalization happens here, once, at
// the boundary; the core only ever consumes the canonical domain shapes.

// OfferFromRow normalizes one raw catalog row into a domain Offer.
func OfferFromRow(row map[string]interface{}) domain.Offer {
	return domain.Offer{
		ProductID:        pickInt(row, "produto_id", "productId"),
		ProductIDLegacy:  pickString(row, "produto_id_legado", "productIdLegacy"),
		BaseProductID:    pickInt(row, "produto_base_id", "baseProductId"),
		Description:      pickString(row, "descricao", "description"),
		Category:         pickString(row, "categoria", "category"),
		Unit:             pickString(row, "unidade", "unit"),
		PackageSize:      pickFloat(row, "embalagem", "packageSize"),
		Price:            pickFloat(row, "preco", "price"),
		PurchasePrice:    pickFloat(row, "preco_compra", "purchasePrice"),
		Promotion:        pickBool(row, "promocao", "promotion"),
		WholePackageOnly: pickBool(row, "apenas_embalagem_inteira", "wholePackageOnly"),
		Available:        pickBool(row, "disponivel", "available"),
	}
}

// normalizeOffers converts raw rows, dropping unpriced ones.
func normalizeOffers(rows []map[string]interface{}) []domain.Offer {
	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer := OfferFromRow(row)
		if !offer.Priced() {
			continue
		}
		offers = append(offers, offer)
	}
	return offers
}

// IngredientFromRow normalizes one raw bill-of-materials row.
func IngredientFromRow(row map[string]interface{}) domain.IngredientRequirement {
	return domain.IngredientRequirement{
		RecipeID:      pickInt(row, "receita_id", "recipeId"),
		BaseProductID: pickInt(row, "produto_base_id", "baseProductId"),
		Name:          pickString(row, "nome", "name"),
		Quantity:      pickFloat(row, "quantidade", "quantity"),
		Unit:          pickString(row, "unidade", "unit"),
	}
}

// RecipeFromRow normalizes a raw recipe row including its ingredients.
func RecipeFromRow(row map[string]interface{}) domain.Recipe {
	recipe := domain.Recipe{
		ID:           pickInt(row, "receita_id", "id"),
		Name:         pickString(row, "nome", "name"),
		Category:     pickString(row, "categoria", "category"),
		BaseServings: pickInt(row, "porcoes_base", "baseServings"),
	}

	for _, item := range pickRows(row, "ingredientes", "ingredients") {
		ing := IngredientFromRow(item)
		if ing.RecipeID == 0 {
			ing.RecipeID = recipe.ID
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}

	return recipe
}

// MenuFromRow normalizes a raw menu row including its day schedule.
func MenuFromRow(row map[string]interface{}) domain.Menu {
	menu := domain.Menu{
		ID:         pickInt(row, "cardapio_id", "id"),
		ClientName: pickString(row, "cliente", "clientName"),
	}

	for _, dayRow := range pickRows(row, "dias", "days") {
		day := domain.MenuDay{
			Date: pickString(dayRow, "data", "date"),
		}
		for _, recipeRow := range pickRows(dayRow, "receitas", "recipes") {
			day.Recipes = append(day.Recipes, domain.MenuRecipe{
				RecipeID:      pickInt(recipeRow, "receita_id", "recipeId"),
				MealsQuantity: pickInt(recipeRow, "refeicoes", "mealsQuantity"),
			})
		}
		menu.Days = append(menu.Days, day)
	}

	return menu
}

// pickString returns the first non-empty string among the given keys.
func pickString(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := row[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// pickFloat returns the first numeric value among the given keys. Legacy
// rows sometimes carry numbers as strings with comma decimal separators.
func pickFloat(row map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := row[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// pickInt returns the first integer value among the given keys.
func pickInt(row map[string]interface{}, keys ...string) int {
	return int(pickFloat(row, keys...))
}

// pickBool returns the first boolean among the given keys. Legacy rows
// use 0/1 integers and "S"/"N" flags.
func pickBool(row map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		switch v := row[key].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			upper := strings.ToUpper(strings.TrimSpace(v))
			if upper == "S" || upper == "SIM" || upper == "TRUE" || upper == "1" {
				return true
			}
			if upper == "N" || upper == "NAO" || upper == "NÃO" || upper == "FALSE" || upper == "0" {
				return false
			}
		}
	}
	return false
}

// pickRows returns the first list-of-objects value among the given keys.
func pickRows(row map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, key := range keys {
		list, ok := row[key].([]interface{})
		if !ok {
			continue
		}
		rows := make([]map[string]interface{}, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				rows = append(rows, m)
			}
		}
		return rows
	}
	return nil
}
