package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultConfig decodes the registered defaults without touching files or env
func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)

	var c Config
	require.NoError(t, v.Unmarshal(&c))
	return &c
}

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATABASE_URL", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ats.DefaultSettings(), cfg.EngineSettings())
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	isolate(t)
	t.Setenv("ATSSCORE_SCORING_THRESHOLD", "80")
	t.Setenv("ATSSCORE_BATCH_CONCURRENCY", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Scoring.Threshold)
	assert.Equal(t, 80, cfg.GetInterviewThreshold())
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoadConfigFrom(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `scoring:
  weights:
    keywordMatch: 0.5
    structure: 0.2
    formatting: 0.2
    readability: 0.1
  coverLetter:
    threshold: 60
database:
  enabled: true
  url: postgres://localhost/ats
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Scoring.Weights.KeywordMatch)
	assert.Equal(t, 60, cfg.GetCoverLetterThreshold())
	assert.Equal(t, 70, cfg.GetInterviewThreshold())
	assert.Equal(t, "postgres://localhost/ats", cfg.Database.URL)
}

func TestLoadConfigFromRejectsBadWeights(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  weights:\n    keywordMatch: 0.9\n"), 0600))

	_, err := LoadConfigFrom(path)
	assert.ErrorContains(t, err, "must sum to 1")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Scoring.Threshold = 120 },
			wantErr: "threshold",
		},
		{
			name:    "unknown oversize policy",
			mutate:  func(c *Config) { c.Scoring.OversizePolicy = "drop" },
			wantErr: "oversize",
		},
		{
			name:    "batch concurrency",
			mutate:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: "batch concurrency",
		},
		{
			name:    "database without url",
			mutate:  func(c *Config) { c.Database.Enabled = true },
			wantErr: "database URL is required",
		},
		{
			name:    "unsupported default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig(t)
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("ATSSCORE_SERVER_APIKEYS", " key-a, ,key-b ")
	t.Setenv("DATABASE_URL", "postgres://fallback/ats")

	c := defaultConfig(t)
	c.App.LogLevel = "debug"
	c.applyFallbacks()

	assert.Equal(t, []string{"key-a", "key-b"}, c.Server.APIKeys)
	assert.Equal(t, "postgres://fallback/ats", c.Database.URL)
	assert.True(t, c.Observability.ConsoleOutput)
	assert.Contains(t, c.Observability.ServiceInstance, "atsscore-")
}

func TestConfigNewEngine(t *testing.T) {
	c := defaultConfig(t)

	engine, err := c.NewEngine()
	require.NoError(t, err)
	assert.Equal(t, c.EngineSettings(), engine.Settings())

	c.Scoring.BankFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = c.NewEngine()
	assert.ErrorContains(t, err, "keyword bank file not found")
}
