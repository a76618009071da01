package main

import (
	"fmt"
	"log"
	"os"

	"github.com/menucost/backend/config"
	httpDelivery "github.com/menucost/backend/internal/delivery/http"
	"github.com/menucost/backend/internal/infrastructure/cache"
	"github.com/menucost/backend/internal/infrastructure/catalog"
	"github.com/menucost/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MenuCost Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	priceCache := cache.NewMemoryCache()

	catalogClient := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}

	if cfg.Catalog.APIKey != "" {
		log.Printf("Catalog store configured: %s", cfg.Catalog.BaseURL)
	} else {
		log.Printf("WARNING: catalog store %s has no API key - authenticated endpoints will fail", cfg.Catalog.BaseURL)
	}

	// Initialize usecase layer
	matcher := usecase.NewProductMatcher(usecase.MatcherConfig{
		MinScore:           cfg.Matching.MinScore,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	resolver := usecase.NewIngredientCostResolver(usecase.ResolverConfig{
		PromoDiscount:      cfg.Optimizer.PromoDiscount,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	recipeCostService := usecase.NewRecipeCostService(
		priceCache,
		catalogClient,
		catalogClient,
		matcher,
		resolver,
		usecase.RecipeCostConfig{
			CacheTTL:                  cfg.Cache.TTL,
			FallbackProteinPerPortion: cfg.Costing.FallbackProteinPerPortion,
			FallbackDefaultPerPortion: cfg.Costing.FallbackDefaultPerPortion,
			SuspectCeiling:            cfg.Costing.SuspectCeiling,
		},
	)

	planner := usecase.NewPurchasePlanner(
		priceCache,
		catalogClient,
		catalogClient,
		matcher,
		usecase.PlannerConfig{
			Deadline:    cfg.Optimizer.Deadline,
			Parallelism: cfg.Optimizer.Parallelism,
			CacheTTL:    cfg.Cache.TTL,
		},
	)

	shoppingListService := usecase.NewShoppingListService(catalogClient, planner, catalogClient)

	log.Printf("Matching: min_score=%.0f | Optimizer: deadline=%s, parallelism=%d",
		cfg.Matching.MinScore, cfg.Optimizer.Deadline, cfg.Optimizer.Parallelism)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recipeCostService, shoppingListService, planner)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
