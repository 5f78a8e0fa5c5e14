package server

import (
	"sync/atomic"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	atsErrors "github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/observability"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/scoring"

	"github.com/go-playground/validator/v10"
)

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Scoring operations and the engine behind them
	Service *scoring.Service

	// Timeout configurations
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *atsErrors.Logger

	om       *observability.ObservabilityManager
	validate *validator.Validate

	// API keys are replaced wholesale on rotation
	apiKeys atomic.Pointer[map[string]bool]

	bankWatcher *BankWatcher
	keyWatcher  *KeyWatcher
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host            string
	Port            string
	Version         string
	APIKeys         []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxRequestSize  int64
	RateLimit       *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct. om may
// be nil when observability is not initialized.
func NewServer(appCfg *config.Config, cfg ServerConfig, svc *scoring.Service, om *observability.ObservabilityManager, logger *atsErrors.Logger) *Server {
	if logger == nil {
		logger = atsErrors.Discard()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	s := &Server{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Version:         cfg.Version,
		AppConfig:       appCfg,
		Service:         svc,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: shutdownTimeout,
		MaxRequestSize:  cfg.MaxRequestSize,
		RateLimit:       cfg.RateLimit,
		RateLimiter:     rateLimiter,
		Logger:          logger,
		om:              om,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. Empty keys are ignored; an
// empty set disables authentication.
func (s *Server) SetAPIKeys(keys []string) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}
	s.apiKeys.Store(&apiKeyMap)
}

func (s *Server) currentAPIKeys() map[string]bool {
	if keys := s.apiKeys.Load(); keys != nil {
		return *keys
	}
	return nil
}
