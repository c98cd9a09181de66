package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "prospect.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentQueries)
	assert.Equal(t, 5, cfg.Pipeline.MaxResults)
	assert.Equal(t, 24, cfg.Pipeline.CacheTTLHours)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "apify~google-search-scraper", cfg.Apify.SearchActor)
	assert.Equal(t, "apify~web-scraper", cfg.Apify.WebScraperActor)
	assert.Equal(t, "compass~crawler-google-places", cfg.Apify.MapsActor)
	assert.Equal(t, "muhammad_usama~Apify-Sales-Navifgator", cfg.Apify.SalesNavActor)
	assert.Equal(t, "muhammad_usama~Apify-Sales-Navigator", cfg.Apify.SalesNavFallback)
	assert.Equal(t, 3, cfg.Apify.PollIntervalSecs)
	assert.Equal(t, 10, cfg.Apify.MaxCrawlPages)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Groq.Model)
	assert.Equal(t, "groq", cfg.Prospect.Provider)
	assert.InDelta(t, 0.1, cfg.Prospect.Temperature, 0.001)
	assert.Equal(t, 1500, cfg.Prospect.MaxTokens)
	assert.Equal(t, 100, cfg.Prospect.EmployeeMin)
	assert.Equal(t, 5000, cfg.Prospect.EmployeeMax)
	assert.InDelta(t, 0.5, cfg.Prospect.RevenueMinM, 0.001)
	assert.InDelta(t, 50.0, cfg.Prospect.RevenueMaxM, 0.001)
	assert.Equal(t, 1, cfg.SalesNav.Page)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/prospects
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent_queries: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/prospects", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Batch.MaxConcurrentQueries)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Pipeline.MaxResults)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PROSPECT_STORE_DRIVER", "postgres")
	t.Setenv("PROSPECT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("PROSPECT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

// validDefaults returns a Config with the values validation expects.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Batch.MaxConcurrentQueries = 5
	cfg.Server.Port = 8080
	cfg.Apify.Token = "apify_api_token"
	cfg.Groq.Key = "gsk_key"
	cfg.Prospect.Provider = "groq"
	cfg.Prospect.EmployeeMin = 100
	cfg.Prospect.EmployeeMax = 5000
	cfg.Prospect.RevenueMinM = 0.5
	cfg.Prospect.RevenueMaxM = 50
	return cfg
}

func TestValidatePipeline(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("pipeline"))

	cfg.Apify.Token = ""
	err := cfg.Validate("pipeline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apify.token is required")
}

func TestValidatePipelinePostgresNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("pipeline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/prospects"
	assert.NoError(t, cfg.Validate("pipeline"))
}

func TestValidateProspect(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("prospect"))

	cfg.Groq.Key = ""
	err := cfg.Validate("prospect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq.key is required")

	cfg.Prospect.Provider = "anthropic"
	err = cfg.Validate("prospect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")

	cfg.Anthropic.Key = "sk-ant-key"
	assert.NoError(t, cfg.Validate("prospect"))
}

func TestValidateProspectRanges(t *testing.T) {
	cfg := validDefaults()
	cfg.Prospect.EmployeeMax = 50
	err := cfg.Validate("prospect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee range is invalid")

	cfg = validDefaults()
	cfg.Prospect.RevenueMinM = 0
	err = cfg.Validate("prospect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revenue range is invalid")
}

func TestValidateServe(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrentQueries = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_queries must be between 1 and 50")

	cfg.Batch.MaxConcurrentQueries = 51
	err = cfg.Validate("serve")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrentQueries = 50
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
