package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	Optimizer OptimizerConfig
	Costing   CostingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the hosted catalog/recipe store configuration
type CatalogConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds price-cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds product matcher configuration
type MatchingConfig struct {
	MinScore           float64 `mapstructure:"min_score"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// OptimizerConfig holds purchase-optimization configuration
type OptimizerConfig struct {
	Deadline      time.Duration `mapstructure:"deadline"`
	Parallelism   int           `mapstructure:"parallelism"`
	PromoDiscount float64       `mapstructure:"promo_discount"`
}

// CostingConfig holds recipe-costing policy configuration
type CostingConfig struct {
	FallbackProteinPerPortion float64 `mapstructure:"fallback_protein_per_portion"`
	FallbackDefaultPerPortion float64 `mapstructure:"fallback_default_per_portion"`
	SuspectCeiling            float64 `mapstructure:"suspect_ceiling"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/menucost/")

	// Environment variable settings
	v.SetEnvPrefix("MENUCOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://store.menucost.app")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "15m")

	// Matching defaults
	v.SetDefault("matching.min_score", 30)

	// Optimizer defaults
	v.SetDefault("optimizer.deadline", "30s")
	v.SetDefault("optimizer.parallelism", 4)
	v.SetDefault("optimizer.promo_discount", 0.10)

	// Costing defaults
	v.SetDefault("costing.fallback_protein_per_portion", 4.50)
	v.SetDefault("costing.fallback_default_per_portion", 2.20)
	v.SetDefault("costing.suspect_ceiling", 12.00)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set MENUCOST_CATALOG_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Optimizer.Parallelism < 1 {
		return fmt.Errorf("optimizer parallelism must be >= 1, got: %d", config.Optimizer.Parallelism)
	}

	if config.Optimizer.PromoDiscount < 0 || config.Optimizer.PromoDiscount >= 1 {
		return fmt.Errorf("promo discount must be in [0, 1), got: %f", config.Optimizer.PromoDiscount)
	}

	return nil
}
