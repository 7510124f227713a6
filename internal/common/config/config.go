// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Search   SearchConfig   `mapstructure:"search"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// SearchConfig holds the controller tunables. Two UI variants exist upstream
// (single-select facets with overwrite merges, multi-select with overlay
// merges); both are reachable from here rather than hard-coded.
type SearchConfig struct {
	PageSize          int    `mapstructure:"page_size"`           // 20 or 24
	DebounceMs        int    `mapstructure:"debounce_ms"`         // free-text settle delay
	MaxVisiblePages   int    `mapstructure:"max_visible_pages"`   // pagination window width
	MergePolicy       string `mapstructure:"merge_policy"`        // overwrite | overlay
	FacetMode         string `mapstructure:"facet_mode"`          // single | multi
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes"` // idle eviction
}

func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

func (s SearchConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

type UpstreamConfig struct {
	Listing EndpointConfig `mapstructure:"listing"`
	Parser  EndpointConfig `mapstructure:"parser"`
}

// EndpointConfig holds the settings for one upstream collaborator.
type EndpointConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	TimeoutMs  int    `mapstructure:"timeout_ms"`
	MaxRetries int    `mapstructure:"max_retries"`
}

func (e EndpointConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL for the cached location facet options, minutes.
	LocationCacheTTL int `mapstructure:"location_cache_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
