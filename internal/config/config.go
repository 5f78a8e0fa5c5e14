package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (ATSSCORE_SERVER_APIKEYS, ATSSCORE_DATABASE_URL, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Batch         BatchConfig         `mapstructure:"batch"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ScoringConfig holds the resume scoring configuration. Cover letter and
// interview scoring inherit the global threshold unless they override it.
type ScoringConfig struct {
	Weights        WeightsConfig `mapstructure:"weights"`
	Threshold      int           `mapstructure:"threshold"`
	MaxKeywords    int           `mapstructure:"maxKeywords"`
	MaxInputBytes  int           `mapstructure:"maxInputBytes"`
	OversizePolicy string        `mapstructure:"oversizePolicy"` // truncate or reject
	BankFile       string        `mapstructure:"bankFile"`       // optional keyword bank (yaml/json)

	CoverLetter CoverLetterScoringConfig `mapstructure:"coverLetter"`
	Interview   InterviewScoringConfig   `mapstructure:"interview"`
}

// WeightsConfig holds resume category weights; they must sum to 1
type WeightsConfig struct {
	KeywordMatch float64 `mapstructure:"keywordMatch"`
	Structure    float64 `mapstructure:"structure"`
	Formatting   float64 `mapstructure:"formatting"`
	Readability  float64 `mapstructure:"readability"`
}

// CoverLetterScoringConfig holds cover letter overrides
type CoverLetterScoringConfig struct {
	Weights   CoverLetterWeightsConfig `mapstructure:"weights"`
	Threshold *int                     `mapstructure:"threshold"`
}

// CoverLetterWeightsConfig holds cover letter category weights
type CoverLetterWeightsConfig struct {
	KeywordMatch    float64 `mapstructure:"keywordMatch"`
	Structure       float64 `mapstructure:"structure"`
	Personalization float64 `mapstructure:"personalization"`
	Readability     float64 `mapstructure:"readability"`
}

// InterviewScoringConfig holds interview answer overrides
type InterviewScoringConfig struct {
	Weights   InterviewWeightsConfig `mapstructure:"weights"`
	Threshold *int                   `mapstructure:"threshold"`
}

// InterviewWeightsConfig holds interview answer category weights
type InterviewWeightsConfig struct {
	Star        float64 `mapstructure:"star"`
	Relevance   float64 `mapstructure:"relevance"`
	Specificity float64 `mapstructure:"specificity"`
	Delivery    float64 `mapstructure:"delivery"`
}

// BatchConfig holds batch scoring configuration
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"` // Parallel scoring workers
	MaxItems    int `mapstructure:"maxItems"`    // Largest accepted batch
}

// DatabaseConfig holds score history persistence configuration
type DatabaseConfig struct {
	Enabled        bool                 `mapstructure:"enabled"`
	URL            string               `mapstructure:"url"`
	MaxConns       int32                `mapstructure:"maxConns"`
	ConnectTimeout time.Duration        `mapstructure:"connectTimeout"`
	QueryTimeout   time.Duration        `mapstructure:"queryTimeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	MaxRequestBytes int64         `mapstructure:"maxRequestBytes"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`

	// Hot reload of the keyword bank file
	BankWatcher BankWatcherConfig `mapstructure:"bankWatcher"`

	// API key rotation from Vault
	KeyRotation KeyRotationConfig `mapstructure:"keyRotation"`
}

// BankWatcherConfig holds configuration for keyword bank file watching
type BankWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`       // Enable file watching
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // Debounce delay for file change events
}

// KeyRotationConfig holds configuration for Vault-based API key rotation
type KeyRotationConfig struct {
	Enabled      bool          `mapstructure:"enabled"`      // Enable Vault polling
	PollInterval time.Duration `mapstructure:"pollInterval"` // Polling interval for the API key secret
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	ScoringOperations ScoringMetricsConfig        `mapstructure:"scoringOperations"`
	BusinessMetrics   BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure    InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// ScoringMetricsConfig holds scoring operation metrics configuration
type ScoringMetricsConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TrackDuration          bool `mapstructure:"trackDuration"`
	TrackScoreDistribution bool `mapstructure:"trackScoreDistribution"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	TrackRateLimits  bool `mapstructure:"trackRateLimits"`
	TrackBankReloads bool `mapstructure:"trackBankReloads"`
	TrackStoreWrites bool `mapstructure:"trackStoreWrites"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	StoreCheckTimeout time.Duration `mapstructure:"storeCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("ATSSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'ATSSCORE'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/atsscore/")
	v.AddConfigPath("$HOME/.atsscore")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/atsscore/, $HOME/.atsscore, .")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	return finishLoading(v, configFileUsed)
}

// LoadConfigFrom loads configuration from an explicit file path.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ATSSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	log.Printf("[CONFIG] Successfully loaded config file: %s", path)

	return finishLoading(v, path)
}

func finishLoading(v *viper.Viper, configFileUsed string) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.EngineSettings().Validate(); err != nil {
		return fmt.Errorf("scoring configuration error: %w", err)
	}

	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch concurrency must be positive")
	}
	if c.Batch.MaxItems <= 0 {
		return fmt.Errorf("batch maxItems must be positive")
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("database URL is required when the database is enabled (set ATSSCORE_DATABASE_URL)")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.MaxRequestBytes <= 0 {
		return fmt.Errorf("server maxRequestBytes must be positive")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}
