package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"

	"go.opentelemetry.io/otel/attribute"
)

// Handler returns the fully wired HTTP handler
func (s *Server) Handler() http.Handler {
	return s.om.HTTPMiddleware()(s.setupRoutes())
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := s.setupHTTPServer()

	if err := s.startBankWatcher(); err != nil {
		return err
	}

	vaultClient, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		s.stopWatchers()
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	var secrets VaultSecretReader
	if vaultClient != nil {
		secrets = vaultClient
	}
	if err := s.startKeyWatcher(secrets); err != nil {
		s.stopWatchers()
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startBankWatcher hot-reloads the keyword bank when its file changes
func (s *Server) startBankWatcher() error {
	watchCfg := s.AppConfig.Server.BankWatcher
	bankFile := s.AppConfig.Scoring.BankFile
	if !watchCfg.Enabled || bankFile == "" {
		return nil
	}

	watcher, err := NewBankWatcher(bankFile, watchCfg.DebounceDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		if err := s.Service.ReloadBank(ctx, bankFile); err != nil {
			s.Logger.LogError(err, "Keyword bank reload failed, keeping current bank", "file", bankFile)
		}
	}, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create keyword bank watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start keyword bank watcher: %w", err)
	}
	s.bankWatcher = watcher
	return nil
}

// startKeyWatcher rotates API keys from Vault when a new secret version appears
func (s *Server) startKeyWatcher(client VaultSecretReader) error {
	rotation := s.AppConfig.Server.KeyRotation
	path := s.AppConfig.Vault.Secrets.APIKeys
	if !rotation.Enabled {
		return nil
	}
	if client == nil || path == "" {
		s.Logger.Warn("API key rotation enabled but Vault or its API key path is not configured, skipping")
		return nil
	}
	watcher := NewKeyWatcher(client, path, rotation.PollInterval, 0, func(keys []string) {
		s.SetAPIKeys(keys)
		s.om.GetMetrics().RecordBusinessMetric(context.Background(), "api_keys_rotated", true, s.om,
			attribute.Int("keys.count", len(keys)))
	}, s.Logger)

	// Apply the current version now; later versions arrive on the poll interval.
	if _, err := watcher.Poll(); err != nil {
		s.Logger.LogError(err, "Initial API key read from Vault failed")
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start API key watcher: %w", err)
	}
	s.keyWatcher = watcher
	return nil
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.stopWatchers()
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	s.stopWatchers()
	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) stopWatchers() {
	if s.bankWatcher != nil {
		if err := s.bankWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop keyword bank watcher")
		}
	}
	if s.keyWatcher != nil {
		if err := s.keyWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop API key watcher")
		}
	}
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
