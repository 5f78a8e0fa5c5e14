package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	atsErrors "github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/store"

	"github.com/go-playground/validator/v10"
)

const maxListLimit = 500

// requestError is a request that could not be decoded
type requestError struct {
	status  int
	title   string
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// getHealthCheckTimeout returns the configured store health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	timeout := s.AppConfig.Observability.HealthCheck.StoreCheckTimeout
	if timeout <= 0 {
		timeout = s.AppConfig.Observability.HealthCheck.Timeout
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return timeout
}

// healthHandler reports the engine, the score store and its circuit breaker
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "atsscore",
		"version": s.Version,
	}

	engine := s.Service.Engine()
	response["engine"] = map[string]any{
		"available":   engine != nil,
		"maxKeywords": engine.Settings().MaxKeywords,
		"threshold":   engine.Settings().Threshold,
	}

	storeStatus := s.checkStoreHealth(r.Context())
	response["store"] = storeStatus

	if healthy, ok := storeStatus["healthy"].(bool); ok && !healthy {
		response["status"] = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// checkStoreHealth pings the score store with the configured timeout
func (s *Server) checkStoreHealth(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, s.getHealthCheckTimeout())
	defer cancel()

	status := map[string]any{
		"healthy":        true,
		"database":       s.AppConfig.Database.Enabled,
		"circuitBreaker": store.BreakerStats(s.Service.Store()),
	}
	if err := s.Service.Store().Ping(ctx); err != nil {
		status["healthy"] = false
		status["error"] = err.Error()
	}
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "atsscore",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys_configured":    len(s.currentAPIKeys()),
		},
		"scoring": s.Service.Stats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.bankWatcher != nil {
		response["bank_watcher"] = map[string]any{
			"running": s.bankWatcher.IsRunning(),
			"file":    s.bankWatcher.File(),
		}
	}
	if s.keyWatcher != nil {
		response["key_rotation"] = s.keyWatcher.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// getScoreHandler returns one saved score
func (s *Server) getScoreHandler(w http.ResponseWriter, r *http.Request) {
	stored, err := s.Service.GetScore(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// listScoresHandler returns the most recent saved scores
func (s *Server) listScoresHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxListLimit {
			writeErrorResponse(w, "Invalid limit",
				fmt.Sprintf("limit must be an integer between 0 and %d", maxListLimit), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := s.Service.ListScores(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return &requestError{
			status:  http.StatusUnsupportedMediaType,
			title:   "Unsupported media type",
			message: "content-type must be application/json",
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return &requestError{
				status:  http.StatusRequestEntityTooLarge,
				title:   "Request too large",
				message: fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit),
			}
		}
		return &requestError{
			status:  http.StatusBadRequest,
			title:   "Invalid request body",
			message: fmt.Sprintf("failed to read request body: %v", err),
		}
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return &requestError{
			status:  http.StatusBadRequest,
			title:   "Invalid request body",
			message: fmt.Sprintf("failed to parse JSON: %v", err),
		}
	}

	return nil
}

// writeRequestError writes the response for a request that failed to decode
func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeErrorResponse(w, reqErr.title, reqErr.message, reqErr.status)
		return
	}
	writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
}

// writeServiceError maps scoring and storage errors onto HTTP statuses
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := atsErrors.AsAppError(err)
	if !ok {
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path)
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	switch {
	case appErr.Code == atsErrors.ErrCodeInputTooLarge:
		writeErrorResponse(w, "Input too large", appErr.Error(), http.StatusRequestEntityTooLarge)
	case appErr.Type == atsErrors.ErrorTypeValidation:
		writeErrorResponse(w, "Invalid input", appErr.Error(), http.StatusBadRequest)
	case appErr.Code == atsErrors.ErrCodeNotFound:
		writeErrorResponse(w, "Not found", appErr.Message, http.StatusNotFound)
	case appErr.Code == atsErrors.ErrCodeStoreUnavailable:
		writeErrorResponse(w, "Store unavailable", appErr.Message, http.StatusServiceUnavailable)
	default:
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path)
		writeErrorResponse(w, "Internal error", appErr.Message, http.StatusInternalServerError)
	}
}

// validationMessage turns validator field errors into one readable line
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
