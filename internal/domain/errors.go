package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownUnit is returned when a unit of measure is not recognized
	ErrUnknownUnit = errors.New("unknown unit of measure")

	// ErrIncompatibleUnits is returned when converting across unit families
	ErrIncompatibleUnits = errors.New("incompatible unit families")

	// ErrIngredientUnresolved is returned when no priced catalog offer
	// exists for an ingredient; callers record it as a violation and continue
	ErrIngredientUnresolved = errors.New("ingredient not found in market")

	// ErrNoValidPackaging is returned when every packaging option for a
	// product is unpriced or malformed
	ErrNoValidPackaging = errors.New("no valid packaging options")

	// ErrRecipeNotFound is returned when a recipe id does not exist upstream
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrMenuNotFound is returned when a menu id does not exist upstream
	ErrMenuNotFound = errors.New("menu not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog service request fails
	ErrCatalogUnavailable = errors.New("catalog service request failed")
)
