package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/observability"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/scoring"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/server"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for ATS scoring",
	Long: `Start an HTTP server that provides REST API endpoints for ATS scoring.

Available endpoints:
- POST /score: Score a resume against a job description
- POST /score/batch: Score several resumes against one job description
- POST /keywords: Extract the keywords of a job description
- POST /cover-letter: Score a cover letter
- POST /interview: Score a behavioral interview answer
- GET /scores, GET /scores/{id}: Saved score history
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().Bool("watch-bank", false, "Reload the keyword bank file when it changes (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("watch-bank") {
		cfg.Server.BankWatcher.Enabled, _ = cmd.Flags().GetBool("watch-bank")
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	engine, err := cfg.NewEngine()
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to build scoring engine", err)
	}
	st, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := scoring.NewService(engine, st, cfg.Batch, om, logger)

	serverCfg := server.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Version:         Version,
		APIKeys:         cfg.Server.APIKeys,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxRequestSize:  cfg.Server.MaxRequestBytes,
		RateLimit:       &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, svc, om, logger).Start(ctx)
}
