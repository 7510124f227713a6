// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	// Local overrides first; absence is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SEARCH_PAGE_SIZE or UPSTREAM_LISTING_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "search-gateway"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8085
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	if cfg.Search.PageSize == 0 {
		cfg.Search.PageSize = 20
	}
	if cfg.Search.DebounceMs == 0 {
		cfg.Search.DebounceMs = 500
	}
	if cfg.Search.MaxVisiblePages == 0 {
		cfg.Search.MaxVisiblePages = 5
	}
	if cfg.Search.MergePolicy == "" {
		cfg.Search.MergePolicy = "overwrite"
	}
	if cfg.Search.FacetMode == "" {
		cfg.Search.FacetMode = "multi"
	}
	if cfg.Search.SessionTTLMinutes == 0 {
		cfg.Search.SessionTTLMinutes = 30
	}

	if cfg.Upstream.Listing.TimeoutMs == 0 {
		cfg.Upstream.Listing.TimeoutMs = 10000
	}
	if cfg.Upstream.Listing.MaxRetries == 0 {
		cfg.Upstream.Listing.MaxRetries = 2
	}
	if cfg.Upstream.Parser.TimeoutMs == 0 {
		cfg.Upstream.Parser.TimeoutMs = 15000
	}
	if cfg.Upstream.Parser.MaxRetries == 0 {
		cfg.Upstream.Parser.MaxRetries = 2
	}

	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}
	if cfg.Database.Redis.LocationCacheTTL == 0 {
		cfg.Database.Redis.LocationCacheTTL = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Search.PageSize < 1 || cfg.Search.PageSize > 100 {
		return fmt.Errorf("search.page_size must be within 1..100, got %d", cfg.Search.PageSize)
	}
	if cfg.Search.MaxVisiblePages < 1 {
		return fmt.Errorf("search.max_visible_pages must be positive, got %d", cfg.Search.MaxVisiblePages)
	}
	switch cfg.Search.MergePolicy {
	case "overwrite", "overlay":
	default:
		return fmt.Errorf("search.merge_policy must be overwrite or overlay, got %q", cfg.Search.MergePolicy)
	}
	switch cfg.Search.FacetMode {
	case "single", "multi":
	default:
		return fmt.Errorf("search.facet_mode must be single or multi, got %q", cfg.Search.FacetMode)
	}
	if cfg.Upstream.Listing.BaseURL == "" {
		return fmt.Errorf("upstream.listing.base_url is required")
	}
	if cfg.Upstream.Parser.BaseURL == "" {
		return fmt.Errorf("upstream.parser.base_url is required")
	}
	return nil
}
