package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Apify     ApifyConfig     `yaml:"apify" mapstructure:"apify"`
	Groq      GroqConfig      `yaml:"groq" mapstructure:"groq"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	SerpAPI   SerpAPIConfig   `yaml:"serpapi" mapstructure:"serpapi"`
	Prospect  ProspectConfig  `yaml:"prospect" mapstructure:"prospect"`
	SalesNav  SalesNavConfig  `yaml:"salesnav" mapstructure:"salesnav"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// ApifyConfig holds Apify platform credentials and actor identifiers.
type ApifyConfig struct {
	Token            string `yaml:"token" mapstructure:"token"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	SearchActor      string `yaml:"search_actor" mapstructure:"search_actor"`
	WebScraperActor  string `yaml:"web_scraper_actor" mapstructure:"web_scraper_actor"`
	MapsActor        string `yaml:"maps_actor" mapstructure:"maps_actor"`
	SalesNavActor    string `yaml:"salesnav_actor" mapstructure:"salesnav_actor"`
	SalesNavFallback string `yaml:"salesnav_fallback_actor" mapstructure:"salesnav_fallback_actor"`

	SearchTimeoutSecs   int `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	ScrapeTimeoutSecs   int `yaml:"scrape_timeout_secs" mapstructure:"scrape_timeout_secs"`
	MapsTimeoutSecs     int `yaml:"maps_timeout_secs" mapstructure:"maps_timeout_secs"`
	SalesNavTimeoutSecs int `yaml:"salesnav_timeout_secs" mapstructure:"salesnav_timeout_secs"`
	PollIntervalSecs    int `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	MaxCrawlPages       int `yaml:"max_crawl_pages" mapstructure:"max_crawl_pages"`
}

// GroqConfig holds Groq API settings.
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SerpAPIConfig holds SerpAPI settings for contact discovery.
type SerpAPIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ProspectConfig configures candidate generation and validation.
type ProspectConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	EmployeeMin int     `yaml:"employee_min" mapstructure:"employee_min"`
	EmployeeMax int     `yaml:"employee_max" mapstructure:"employee_max"`
	RevenueMinM float64 `yaml:"revenue_min_m" mapstructure:"revenue_min_m"`
	RevenueMaxM float64 `yaml:"revenue_max_m" mapstructure:"revenue_max_m"`
}

// SalesNavConfig holds Sales Navigator actor inputs.
type SalesNavConfig struct {
	CookiesJSON  string `yaml:"cookies_json" mapstructure:"cookies_json"`
	CookieString string `yaml:"cookie_string" mapstructure:"cookie_string"`
	SearchURL    string `yaml:"search_url" mapstructure:"search_url"`
	Page         int    `yaml:"page" mapstructure:"page"`
}

// PipelineConfig configures the lead pipeline.
type PipelineConfig struct {
	MaxResults       int `yaml:"max_results" mapstructure:"max_results"`
	CacheTTLHours    int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	SearchMaxResults int `yaml:"search_max_results" mapstructure:"search_max_results"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentQueries int `yaml:"max_concurrent_queries" mapstructure:"max_concurrent_queries"`
}

// ExportConfig configures lead exports.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "prospect.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_queries", 5)
	v.SetDefault("pipeline.max_results", 5)
	v.SetDefault("pipeline.cache_ttl_hours", 24)
	v.SetDefault("pipeline.search_max_results", 10)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.format", "json")
	v.SetDefault("apify.base_url", "https://api.apify.com")
	v.SetDefault("apify.search_actor", "apify~google-search-scraper")
	v.SetDefault("apify.web_scraper_actor", "apify~web-scraper")
	v.SetDefault("apify.maps_actor", "compass~crawler-google-places")
	v.SetDefault("apify.salesnav_actor", "muhammad_usama~Apify-Sales-Navifgator")
	v.SetDefault("apify.salesnav_fallback_actor", "muhammad_usama~Apify-Sales-Navigator")
	v.SetDefault("apify.search_timeout_secs", 120)
	v.SetDefault("apify.scrape_timeout_secs", 300)
	v.SetDefault("apify.maps_timeout_secs", 180)
	v.SetDefault("apify.salesnav_timeout_secs", 300)
	v.SetDefault("apify.poll_interval_secs", 3)
	v.SetDefault("apify.max_crawl_pages", 10)
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.1-8b-instant")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("prospect.provider", "groq")
	v.SetDefault("prospect.temperature", 0.1)
	v.SetDefault("prospect.max_tokens", 1500)
	v.SetDefault("prospect.employee_min", 100)
	v.SetDefault("prospect.employee_max", 5000)
	v.SetDefault("prospect.revenue_min_m", 0.5)
	v.SetDefault("prospect.revenue_max_m", 50)
	v.SetDefault("salesnav.page", 1)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode.
// Modes: "pipeline" (run/batch), "prospect", "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	checkCommon := func() {
		if c.Batch.MaxConcurrentQueries < 1 || c.Batch.MaxConcurrentQueries > 50 {
			problems = append(problems, "batch.max_concurrent_queries must be between 1 and 50")
		}
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	}

	switch mode {
	case "pipeline":
		checkCommon()
		if c.Apify.Token == "" {
			problems = append(problems, "apify.token is required")
		}
	case "prospect":
		if c.Prospect.Provider == "anthropic" {
			if c.Anthropic.Key == "" {
				problems = append(problems, "anthropic.key is required")
			}
		} else if c.Groq.Key == "" {
			problems = append(problems, "groq.key is required")
		}
		if c.Prospect.EmployeeMin <= 0 || c.Prospect.EmployeeMax < c.Prospect.EmployeeMin {
			problems = append(problems, "prospect employee range is invalid")
		}
		if c.Prospect.RevenueMinM <= 0 || c.Prospect.RevenueMaxM < c.Prospect.RevenueMinM {
			problems = append(problems, "prospect revenue range is invalid")
		}
	case "serve":
		checkCommon()
		if c.Apify.Token == "" {
			problems = append(problems, "apify.token is required")
		}
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
