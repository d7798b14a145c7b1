package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"SourcePath", cfg.SourcePath, "StockPrices_small.csv"},
		{"MaxLineBytes", cfg.MaxLineBytes, 1 << 20},
		{"QuotesBaseURL", cfg.QuotesBaseURL, ""},
		{"RateLimit", cfg.RateLimit, 0.0},
		{"RateBurst", cfg.RateBurst, 1},
		{"FetchRetryCount", cfg.FetchRetryCount, 0},
		{"MultiDeadline", cfg.MultiDeadline, 2 * time.Second},
		{"Workers", cfg.Workers, 4},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "pretty"},
		{"MetricsAddr", cfg.MetricsAddr, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	envVars := map[string]string{
		"SOURCE_PATH":       "/data/prices.csv",
		"QUOTES_BASE_URL":   "https://quotes.example.com/query",
		"QUOTES_API_KEY":    "test_key",
		"RATE_LIMIT":        "2.5",
		"RATE_BURST":        "3",
		"FETCH_RETRY_COUNT": "1",
		"MULTI_DEADLINE":    "750ms",
		"WORKERS":           "8",
		"LOG_LEVEL":         "debug",
		"LOG_FORMAT":        "json",
		"METRICS_ADDR":      ":9090",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/prices.csv", cfg.SourcePath)
	assert.Equal(t, "https://quotes.example.com/query", cfg.QuotesBaseURL)
	assert.Equal(t, "test_key", cfg.QuotesAPIKey)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Equal(t, 1, cfg.FetchRetryCount)
	assert.Equal(t, 750*time.Millisecond, cfg.MultiDeadline)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockanalyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_path: from-file.csv\nmulti_deadline: 5s\nworkers: 2\n"), 0o600))

	t.Setenv("WORKERS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file.csv", cfg.SourcePath)
	assert.Equal(t, 5*time.Second, cfg.MultiDeadline)
	assert.Equal(t, 6, cfg.Workers, "environment overrides the file")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    map[string]string
		wantErrText string
	}{
		{
			name:        "zero deadline",
			setupEnv:    map[string]string{"MULTI_DEADLINE": "0s"},
			wantErrText: "MULTI_DEADLINE",
		},
		{
			name:        "no workers",
			setupEnv:    map[string]string{"WORKERS": "0"},
			wantErrText: "WORKERS",
		},
		{
			name:        "endpoint without key",
			setupEnv:    map[string]string{"QUOTES_BASE_URL": "https://quotes.example.com"},
			wantErrText: "QUOTES_API_KEY",
		},
		{
			name:        "unknown log format",
			setupEnv:    map[string]string{"LOG_FORMAT": "xml"},
			wantErrText: "LOG_FORMAT",
		},
		{
			name:        "negative retries",
			setupEnv:    map[string]string{"FETCH_RETRY_COUNT": "-1"},
			wantErrText: "FETCH_RETRY_COUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.setupEnv {
				t.Setenv(key, value)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantErrText)
		})
	}
}
