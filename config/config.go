package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ShopConfig describes one tracked storefront. APIBaseURL only applies to
// the steam shop, whose catalog comes from a JSON API beside the store.
type ShopConfig struct {
	Name         string `yaml:"name"`
	BaseURL      string `yaml:"base_url"`
	APIBaseURL   string `yaml:"api_base_url"`
	RefreshLimit int    `yaml:"refresh_limit"`
}

// DiscoveryConfig controls the listing discovery jobs.
type DiscoveryConfig struct {
	MaxLinks   int `yaml:"max_links"`
	DelayMinMs int `yaml:"delay_min_ms"`
	DelayMaxMs int `yaml:"delay_max_ms"`
}

// RefreshConfig controls the price refresh jobs.
type RefreshConfig struct {
	BatchSize  int `yaml:"batch_size"`
	DelayMinMs int `yaml:"delay_min_ms"`
	DelayMaxMs int `yaml:"delay_max_ms"`
}

// SteamImportConfig controls the catalog importer's pacing and caps.
type SteamImportConfig struct {
	MaxGames      int `yaml:"max_games"`
	DetailDelayMs int `yaml:"detail_delay_ms"`
	PauseEvery    int `yaml:"pause_every"`
	PauseMs       int `yaml:"pause_ms"`
}

// LoggingConfig mirrors logging.Config for the yaml file.
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config holds application configuration.
type Config struct {
	DBPath      string            `yaml:"db_path"`
	UserAgent   string            `yaml:"user_agent"`
	Logging     LoggingConfig     `yaml:"logging"`
	Shops       []ShopConfig      `yaml:"shops"`
	Discovery   DiscoveryConfig   `yaml:"discovery"`
	Refresh     RefreshConfig     `yaml:"refresh"`
	SteamImport SteamImportConfig `yaml:"steam_import"`
}

// DefaultConfig returns configuration with default values, including the
// known resale shops.
func DefaultConfig() *Config {
	return &Config{
		DBPath:    "gamedeals.db",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		Logging:   LoggingConfig{Format: "text", Level: "info"},
		Shops: []ShopConfig{
			{Name: "steampay", BaseURL: "https://steampay.com", RefreshLimit: 1000},
			{Name: "steamkey", BaseURL: "https://steamkey.com", RefreshLimit: 1000},
			{Name: "steambuy", BaseURL: "https://steambuy.com", RefreshLimit: 1000},
			{Name: "igm", BaseURL: "https://igm.gg", RefreshLimit: 1000},
			{Name: "steam", BaseURL: "https://store.steampowered.com", RefreshLimit: 1500},
		},
		Discovery: DiscoveryConfig{
			MaxLinks:   200,
			DelayMinMs: 1000,
			DelayMaxMs: 2000,
		},
		Refresh: RefreshConfig{
			BatchSize:  50,
			DelayMinMs: 1000,
			DelayMaxMs: 2000,
		},
		SteamImport: SteamImportConfig{
			MaxGames:      100,
			DetailDelayMs: 2000,
			PauseEvery:    30,
			PauseMs:       10000,
		},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gamedeals.yaml",
		".gamedeals.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamedeals", "config.yaml"),
			filepath.Join(home, ".config", "gamedeals", "config.yml"),
			filepath.Join(home, ".gamedeals.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEDEALS_CONFIG > search paths > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEDEALS_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if dbPath := os.Getenv("GAMEDEALS_DB"); dbPath != "" {
		c.DBPath = dbPath
	}
	if ua := os.Getenv("GAMEDEALS_USER_AGENT"); ua != "" {
		c.UserAgent = ua
	}
}

// GetDBPath returns the database path, applying defaults.
func (c *Config) GetDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return "gamedeals.db"
}

// Shop returns the config block for a shop by name, or nil.
func (c *Config) Shop(name string) *ShopConfig {
	for i := range c.Shops {
		if c.Shops[i].Name == name {
			return &c.Shops[i]
		}
	}
	return nil
}
