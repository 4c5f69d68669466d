package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         App         `mapstructure:"app"`
	Server      Server      `mapstructure:"server"`
	Fetch       Fetch       `mapstructure:"fetch"`
	AI          AI          `mapstructure:"ai"`
	Store       Store       `mapstructure:"store"`
	Aggregation Aggregation `mapstructure:"aggregation"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Server holds HTTP server configuration
type Server struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORS         CORS          `mapstructure:"cors"`
}

// CORS holds CORS middleware configuration
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Outlet describes one configured news source.
// Kind is "newsapi" (JSON top-headlines endpoint) or "rss".
type Outlet struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
	URL  string `mapstructure:"url"` // Feed URL for rss outlets; overrides the API base for newsapi
}

// Fetch holds news-fetch configuration
type Fetch struct {
	NewsAPIKey     string        `mapstructure:"newsapi_key"`
	NewsAPIBaseURL string        `mapstructure:"newsapi_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	PageSize       int           `mapstructure:"page_size"`
	RateLimit      time.Duration `mapstructure:"rate_limit"` // Minimum interval between calls per outlet
	UserAgent      string        `mapstructure:"user_agent"`
	Outlets        []Outlet      `mapstructure:"outlets"`
}

// AI holds text-synthesis service configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int32         `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
}

// Store holds persistence configuration
type Store struct {
	Directory string `mapstructure:"directory"`
}

// Aggregation holds clustering and synthesis tuning
type Aggregation struct {
	MinSources        int           `mapstructure:"min_sources"`        // Preferred minimum articles per cluster (2 or 3)
	MaxStories        int           `mapstructure:"max_stories"`        // Target story count per run
	EnrichTimeout     time.Duration `mapstructure:"enrich_timeout"`     // Run-level budget for LLM enrichment
	BackfillBatchSize int           `mapstructure:"backfill_batch_size"`
}

var globalConfig *Config

// Load loads the configuration from .env, config file, environment
// variables and defaults, in that order of increasing precedence.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".newslens")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".newslens-data")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.cors.enabled", true)
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})

	// Fetch defaults
	viper.SetDefault("fetch.newsapi_base_url", "https://newsapi.org/v2")
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.max_concurrency", 10)
	viper.SetDefault("fetch.page_size", 10)
	viper.SetDefault("fetch.rate_limit", "1s")
	viper.SetDefault("fetch.user_agent", "newslens/1.0")

	// AI defaults
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.timeout", "30s")
	viper.SetDefault("ai.gemini.max_tokens", 4000)
	viper.SetDefault("ai.gemini.temperature", 0.7)

	// Store defaults
	viper.SetDefault("store.directory", ".newslens-data")

	// Aggregation defaults
	viper.SetDefault("aggregation.min_sources", 2)
	viper.SetDefault("aggregation.max_stories", 10)
	viper.SetDefault("aggregation.enrich_timeout", "60s")
	viper.SetDefault("aggregation.backfill_batch_size", 5)
}

func bindEnvironmentVariables() {
	// Support the bare key names alongside the NEWSLENS_-style derived ones.
	_ = viper.BindEnv("fetch.newsapi_key", "NEWS_API_KEY", "NEWSAPI_KEY")
	_ = viper.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY", "GOOGLE_AI_API_KEY")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Fetch.MaxConcurrency <= 0 {
		return fmt.Errorf("fetch.max_concurrency must be positive, got %d", config.Fetch.MaxConcurrency)
	}
	if config.Aggregation.MinSources < 1 {
		return fmt.Errorf("aggregation.min_sources must be at least 1, got %d", config.Aggregation.MinSources)
	}
	for i, outlet := range config.Fetch.Outlets {
		if outlet.ID == "" {
			return fmt.Errorf("outlet %d is missing an id", i)
		}
		if outlet.Kind != "newsapi" && outlet.Kind != "rss" {
			return fmt.Errorf("outlet %q has unknown kind %q", outlet.ID, outlet.Kind)
		}
		if outlet.Kind == "rss" && outlet.URL == "" {
			return fmt.Errorf("rss outlet %q is missing a url", outlet.ID)
		}
	}
	return nil
}
