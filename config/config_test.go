package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gamedeals.db", cfg.DBPath)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Shops, 5)
	for _, shop := range cfg.Shops {
		want := 1000
		if shop.Name == "steam" {
			want = 1500
		}
		assert.Equal(t, want, shop.RefreshLimit, shop.Name)
	}
	assert.Equal(t, 200, cfg.Discovery.MaxLinks)
	assert.Equal(t, 50, cfg.Refresh.BatchSize)
	assert.Equal(t, 100, cfg.SteamImport.MaxGames)
	assert.Equal(t, 30, cfg.SteamImport.PauseEvery)
	assert.NotEmpty(t, cfg.UserAgent)
}

func TestConfig_GetDBPath(t *testing.T) {
	tests := []struct {
		name     string
		dbPath   string
		expected string
	}{
		{"returns configured path", "custom.db", "custom.db"},
		{"returns default when empty", "", "gamedeals.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBPath: tt.dbPath}
			assert.Equal(t, tt.expected, cfg.GetDBPath())
		})
	}
}

func TestConfig_Shop(t *testing.T) {
	cfg := DefaultConfig()

	shop := cfg.Shop("steampay")
	require.NotNil(t, shop)
	assert.Equal(t, "https://steampay.com", shop.BaseURL)

	assert.Nil(t, cfg.Shop("gog"))
}

func TestConfig_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
db_path: /custom/path.db
user_agent: test-agent
shops:
  - name: steampay
    base_url: https://mirror.example
    refresh_limit: 10
discovery:
  max_links: 25
  delay_min_ms: 10
  delay_max_ms: 20
refresh:
  batch_size: 5
steam_import:
  max_games: 3
logging:
  format: json
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0644) // #nosec G306
	require.NoError(t, err)

	cfg := DefaultConfig()
	err = cfg.loadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.DBPath)
	assert.Equal(t, "test-agent", cfg.UserAgent)
	require.Len(t, cfg.Shops, 1)
	assert.Equal(t, "https://mirror.example", cfg.Shops[0].BaseURL)
	assert.Equal(t, 10, cfg.Shops[0].RefreshLimit)
	assert.Equal(t, 25, cfg.Discovery.MaxLinks)
	assert.Equal(t, 5, cfg.Refresh.BatchSize)
	assert.Equal(t, 3, cfg.SteamImport.MaxGames)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_LoadFromFile_NotFound(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.loadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestConfig_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("invalid: yaml: content:"), 0644) // #nosec G306
	require.NoError(t, err)

	cfg := DefaultConfig()
	err = cfg.loadFromFile(configPath)
	assert.Error(t, err)
}

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	// Save and restore env
	origDB := os.Getenv("GAMEDEALS_DB")
	origUA := os.Getenv("GAMEDEALS_USER_AGENT")
	defer func() {
		_ = os.Setenv("GAMEDEALS_DB", origDB)
		_ = os.Setenv("GAMEDEALS_USER_AGENT", origUA)
	}()

	_ = os.Setenv("GAMEDEALS_DB", "/env/db.db")
	_ = os.Setenv("GAMEDEALS_USER_AGENT", "env-agent")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/env/db.db", cfg.DBPath)
	assert.Equal(t, "env-agent", cfg.UserAgent)
}

func TestLoad_WithEnvConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("db_path: from_file.db"), 0644) // #nosec G306
	require.NoError(t, err)

	// Save and restore env
	origConfig := os.Getenv("GAMEDEALS_CONFIG")
	origDB := os.Getenv("GAMEDEALS_DB")
	defer func() {
		_ = os.Setenv("GAMEDEALS_CONFIG", origConfig)
		_ = os.Setenv("GAMEDEALS_DB", origDB)
	}()

	_ = os.Setenv("GAMEDEALS_CONFIG", configPath)
	_ = os.Unsetenv("GAMEDEALS_DB")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_file.db", cfg.DBPath)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	// Save and restore env
	origConfig := os.Getenv("GAMEDEALS_CONFIG")
	origDB := os.Getenv("GAMEDEALS_DB")
	defer func() {
		_ = os.Setenv("GAMEDEALS_CONFIG", origConfig)
		_ = os.Setenv("GAMEDEALS_DB", origDB)
	}()

	_ = os.Unsetenv("GAMEDEALS_CONFIG")
	_ = os.Unsetenv("GAMEDEALS_DB")

	// Change to temp dir where no config exists
	origDir, _ := os.Getwd()
	tmpDir := t.TempDir()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(origDir) }()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gamedeals.db", cfg.DBPath)
}
