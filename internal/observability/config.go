package observability

import (
	"net/http"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultServiceName = "atsscore"
	defaultEndpoint    = "/metrics"
)

// GetObservabilityConfig maps the observability section onto the manager
// configuration. version fills in a missing service version.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    defaultServiceName,
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(nil),
		}
	}

	section := cfg.Observability
	obs := ObservabilityConfig{
		ServiceName:    section.ServiceName,
		ServiceVersion: section.ServiceVersion,
		Enabled:        section.Enabled,
		ConsoleOutput:  section.ConsoleOutput,
		PrettyPrint:    section.Console.PrettyPrint,
		SampleRate:     clampSampleRate(section.SampleRate),
		Prometheus:     GetPrometheusConfig(cfg),
	}
	if obs.ServiceName == "" {
		obs.ServiceName = defaultServiceName
	}
	if obs.ServiceVersion == "" {
		obs.ServiceVersion = version
	}
	if obs.Prometheus.Endpoint == "" {
		obs.Prometheus.Endpoint = defaultEndpoint
	}
	return obs
}

func clampSampleRate(rate float64) float64 {
	return min(max(rate, 0), 1)
}

// statusRecorder remembers the status written by a scoring handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// ObservabilityMiddleware opens one span per scoring route, named after the
// matched pattern so /scores/{id} lookups share a span name. Server errors
// mark the span failed; client errors do not.
func ObservabilityMiddleware(om *ObservabilityManager) func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		if om == nil || !om.config.Enabled {
			return next
		}

		tracer := om.Tracer("atsscore.http")
		return func(w http.ResponseWriter, r *http.Request) {
			route := r.Pattern
			if route == "" {
				route = r.Method + " " + r.URL.Path
			}

			ctx, span := tracer.Start(r.Context(), route, oteltrace.WithSpanKind(oteltrace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int64("http.request_content_length", r.ContentLength),
				attribute.Bool("auth.api_key_present", r.Header.Get("X-API-Key") != "" || r.Header.Get("Authorization") != ""),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next(rec, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}
		}
	}
}
