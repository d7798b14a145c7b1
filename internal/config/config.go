package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the stock analyzer.
type Config struct {
	// Record file read by single-ticker searches and, without a quotes
	// endpoint, by batch fetches
	SourcePath   string `mapstructure:"source_path"`
	MaxLineBytes int    `mapstructure:"max_line_bytes"`

	// HTTP record endpoint used by batch fetches when set
	QuotesBaseURL   string  `mapstructure:"quotes_base_url"`
	QuotesAPIKey    string  `mapstructure:"quotes_api_key"`
	RateLimit       float64 `mapstructure:"rate_limit"`
	RateBurst       int     `mapstructure:"rate_burst"`
	FetchRetryCount int     `mapstructure:"fetch_retry_count"`

	// Batch deadline, raced against the combined fetches
	MultiDeadline time.Duration `mapstructure:"multi_deadline"`
	Workers       int           `mapstructure:"workers"`

	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
//
// When path is empty, config.yaml is looked up in the working directory and
// in $HOME/.stockanalyzer; a missing file is not an error.
//
// Recognised environment variables:
//   - SOURCE_PATH (default StockPrices_small.csv)
//   - MAX_LINE_BYTES
//   - QUOTES_BASE_URL, QUOTES_API_KEY
//   - RATE_LIMIT, RATE_BURST, FETCH_RETRY_COUNT
//   - MULTI_DEADLINE (e.g. 2s)
//   - WORKERS
//   - LOG_LEVEL, LOG_FORMAT
//   - METRICS_ADDR
func Load(path string) (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.SetDefault("source_path", "StockPrices_small.csv")
	v.SetDefault("max_line_bytes", 1<<20)
	v.SetDefault("quotes_base_url", "")
	v.SetDefault("quotes_api_key", "")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_burst", 1)
	v.SetDefault("fetch_retry_count", 0)
	v.SetDefault("multi_deadline", "2s")
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "pretty")
	v.SetDefault("metrics_addr", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.stockanalyzer")

		// Read config file (ignore if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.SourcePath == "" {
		problems = append(problems, "SOURCE_PATH is empty")
	}
	if c.MultiDeadline <= 0 {
		problems = append(problems, "MULTI_DEADLINE must be positive")
	}
	if c.Workers <= 0 {
		problems = append(problems, "WORKERS must be positive")
	}
	if c.MaxLineBytes <= 0 {
		problems = append(problems, "MAX_LINE_BYTES must be positive")
	}
	if c.RateLimit < 0 {
		problems = append(problems, "RATE_LIMIT must not be negative")
	}
	if c.FetchRetryCount < 0 {
		problems = append(problems, "FETCH_RETRY_COUNT must not be negative")
	}
	if c.QuotesBaseURL != "" && c.QuotesAPIKey == "" {
		problems = append(problems, "QUOTES_API_KEY is required with QUOTES_BASE_URL")
	}
	switch c.LogFormat {
	case "json", "pretty":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q is not json or pretty", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}
