package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig holds configuration for observability
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds all custom metrics for the scoring service
type Metrics struct {
	// Scoring operation metrics
	ScoringDuration   metric.Float64Histogram
	ScoringRequests   metric.Int64Counter
	ScoringErrors     metric.Int64Counter
	ScoreDistribution metric.Int64Histogram

	// Business metrics
	ResumesScored      metric.Int64Counter
	CoverLettersScored metric.Int64Counter
	AnswersScored      metric.Int64Counter
	KeywordExtractions metric.Int64Counter
	InputSize          metric.Int64Histogram

	// Infrastructure metrics
	BankReloads     metric.Int64Counter
	StoreWrites     metric.Int64Counter
	APIKeyRotations metric.Int64Counter
	RateLimitHits   metric.Int64Counter
}

// ObservabilityManager manages OpenTelemetry setup
type ObservabilityManager struct {
	config           ObservabilityConfig
	fullConfig       *config.Config // Store full config for access to nested settings
	resource         *resource.Resource
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.Server
}

// NewObservabilityManager creates a new observability manager
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	if !obsConfig.Enabled {
		return &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}, nil
	}

	om := &ObservabilityManager{
		config:        obsConfig,
		fullConfig:    fullConfig,
		shutdownFuncs: make([]func(context.Context) error, 0),
	}

	if err := om.initResource(); err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

// initResource creates the OpenTelemetry resource shared by traces and metrics
func (om *ObservabilityManager) initResource() error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.getServiceInstanceID()),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	om.resource = res
	return nil
}

// initTracing sets up OpenTelemetry tracing
func (om *ObservabilityManager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	if om.config.ConsoleOutput {
		opts := []stdouttrace.Option{}
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	} else if om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled {
		exporter, err = om.createOTLPExporter()
	} else {
		exporter = &noOpSpanExporter{}
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)

	return nil
}

// initMetrics sets up OpenTelemetry metrics
func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	meterProviderOptions := []sdkmetric.Option{
		sdkmetric.WithResource(om.resource),
	}
	for _, reader := range readers {
		meterProviderOptions = append(meterProviderOptions, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(meterProviderOptions...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.initCustomMetrics()
}

// setupMetricReaders sets up all metric readers based on configuration
func (om *ObservabilityManager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if err := om.setupConsoleReader(&readers); err != nil {
		return nil, err
	}

	if err := om.setupOTLPReader(&readers); err != nil {
		return nil, err
	}

	if err := om.setupPrometheusReader(&readers); err != nil {
		return nil, err
	}

	// If no readers configured, use manual reader as fallback
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	return readers, nil
}

// setupConsoleReader sets up console metric reader if enabled
func (om *ObservabilityManager) setupConsoleReader(readers *[]sdkmetric.Reader) error {
	if !om.config.ConsoleOutput {
		return nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create console metric exporter: %w", err)
	}

	interval := om.getMetricsCollectionInterval()
	*readers = append(*readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	return nil
}

// setupOTLPReader sets up OTLP metric reader if enabled
func (om *ObservabilityManager) setupOTLPReader(readers *[]sdkmetric.Reader) error {
	if om.fullConfig == nil || !om.fullConfig.Observability.OTLP.Enabled {
		return nil
	}

	otlpReader, err := om.createOTLPMetricsReader()
	if err != nil {
		return fmt.Errorf("failed to create OTLP metrics reader: %w", err)
	}
	if otlpReader != nil {
		*readers = append(*readers, otlpReader)
	}
	return nil
}

// setupPrometheusReader sets up Prometheus metric reader if enabled
func (om *ObservabilityManager) setupPrometheusReader(readers *[]sdkmetric.Reader) error {
	if !om.config.Prometheus.Enabled {
		return nil
	}

	prometheusReader, prometheusMux, err := SetupPrometheusExporter(om.config.Prometheus)
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	if prometheusReader != nil {
		*readers = append(*readers, prometheusReader)

		server, err := StartPrometheusServer(prometheusMux, om.config.Prometheus.Port)
		if err != nil {
			return fmt.Errorf("failed to start Prometheus server: %w", err)
		}
		om.prometheusServer = server
		om.shutdownFuncs = append(om.shutdownFuncs, server.Shutdown)
	}
	return nil
}

// initCustomMetrics creates all custom metrics for the scoring service
func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}

	if err := om.createScoringMetrics(meter); err != nil {
		return err
	}

	if err := om.createBusinessMetrics(meter); err != nil {
		return err
	}

	return om.createInfrastructureMetrics(meter)
}

// createScoringMetrics creates scoring operation metrics
func (om *ObservabilityManager) createScoringMetrics(meter metric.Meter) error {
	var err error

	om.metrics.ScoringDuration, err = meter.Float64Histogram(
		"atsscore_scoring_duration_seconds",
		metric.WithDescription("Time spent scoring a document"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring duration metric: %w", err)
	}

	om.metrics.ScoringRequests, err = meter.Int64Counter(
		"atsscore_scoring_requests_total",
		metric.WithDescription("Total number of scoring operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring request count metric: %w", err)
	}

	om.metrics.ScoringErrors, err = meter.Int64Counter(
		"atsscore_scoring_errors_total",
		metric.WithDescription("Total number of failed scoring operations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring error count metric: %w", err)
	}

	om.metrics.ScoreDistribution, err = meter.Int64Histogram(
		"atsscore_overall_score",
		metric.WithDescription("Distribution of overall scores"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create score distribution metric: %w", err)
	}

	return nil
}

// createBusinessMetrics creates business-related metrics
func (om *ObservabilityManager) createBusinessMetrics(meter metric.Meter) error {
	var err error

	om.metrics.ResumesScored, err = meter.Int64Counter(
		"atsscore_resumes_scored_total",
		metric.WithDescription("Total number of resumes scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes scored metric: %w", err)
	}

	om.metrics.CoverLettersScored, err = meter.Int64Counter(
		"atsscore_cover_letters_scored_total",
		metric.WithDescription("Total number of cover letters scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create cover letters scored metric: %w", err)
	}

	om.metrics.AnswersScored, err = meter.Int64Counter(
		"atsscore_interview_answers_scored_total",
		metric.WithDescription("Total number of interview answers scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create interview answers scored metric: %w", err)
	}

	om.metrics.KeywordExtractions, err = meter.Int64Counter(
		"atsscore_keyword_extractions_total",
		metric.WithDescription("Total number of job descriptions reduced to keywords"),
	)
	if err != nil {
		return fmt.Errorf("failed to create keyword extractions metric: %w", err)
	}

	om.metrics.InputSize, err = meter.Int64Histogram(
		"atsscore_input_bytes",
		metric.WithDescription("Size of scored documents"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create input size metric: %w", err)
	}

	return nil
}

// createInfrastructureMetrics creates reload, storage and rate limit metrics
func (om *ObservabilityManager) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	om.metrics.BankReloads, err = meter.Int64Counter(
		"atsscore_keyword_bank_reloads_total",
		metric.WithDescription("Total number of keyword bank reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create bank reload metric: %w", err)
	}

	om.metrics.StoreWrites, err = meter.Int64Counter(
		"atsscore_store_writes_total",
		metric.WithDescription("Total number of score records written"),
	)
	if err != nil {
		return fmt.Errorf("failed to create store write metric: %w", err)
	}

	om.metrics.APIKeyRotations, err = meter.Int64Counter(
		"atsscore_api_key_rotations_total",
		metric.WithDescription("Total number of API key rotations picked up from Vault"),
	)
	if err != nil {
		return fmt.Errorf("failed to create API key rotation metric: %w", err)
	}

	om.metrics.RateLimitHits, err = meter.Int64Counter(
		"atsscore_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// GetMetrics returns the metrics instance
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om == nil || om.metrics == nil {
		return &Metrics{} // Return empty metrics if not initialized
	}
	return om.metrics
}

// HTTPMiddleware returns HTTP middleware with OpenTelemetry instrumentation
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if om == nil || !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown gracefully shuts down all observability components
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ScoringResult holds the outcome of a scoring operation
type ScoringResult struct {
	Error      error
	Overall    int
	InputBytes int
}

// TrackScoringOperation instruments a scoring operation with tracing and metrics
func (m *Metrics) TrackScoringOperation(ctx context.Context, operation string, fn func(context.Context) *ScoringResult, om *ObservabilityManager) error {
	if m.ScoringDuration == nil {
		// Metrics not initialized, just run the function
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := om.Tracer("atsscore.scoring")
	ctx, span := tracer.Start(ctx, "scoring."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.isScoringMetricsEnabled(om) {
		m.recordScoringMetrics(ctx, operation, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

func (m *Metrics) isScoringMetricsEnabled(om *ObservabilityManager) bool {
	if om == nil || om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.ScoringOperations.Enabled
}

func (m *Metrics) recordScoringMetrics(ctx context.Context, operation string, duration float64, result *ScoringResult, om *ObservabilityManager, span oteltrace.Span) {
	var err error
	if result != nil {
		err = result.Error
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opts := metric.WithAttributes(attrs...)

	scoring := config.ScoringMetricsConfig{Enabled: true, TrackDuration: true, TrackScoreDistribution: true}
	if om != nil && om.fullConfig != nil {
		scoring = om.fullConfig.Observability.CustomMetrics.ScoringOperations
	}

	if scoring.TrackDuration {
		m.ScoringDuration.Record(ctx, duration, opts)
	}
	m.ScoringRequests.Add(ctx, 1, opts)
	if err != nil {
		m.ScoringErrors.Add(ctx, 1, opts)
	}

	if result != nil && err == nil {
		if scoring.TrackScoreDistribution {
			m.ScoreDistribution.Record(ctx, int64(result.Overall), metric.WithAttributes(attribute.String("operation", operation)))
		}
		span.SetAttributes(
			attribute.Int("score.overall", result.Overall),
			attribute.Int("input.bytes", result.InputBytes),
		)
	}

	span.SetAttributes(attrs...)
}

// RecordBusinessMetric records business-specific metrics
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	m.recordMetricByType(ctx, metricType, attrs, om)
}

// RecordInputSize records the size of a scored document
func (m *Metrics) RecordInputSize(ctx context.Context, operation string, size int, om *ObservabilityManager) {
	if m.InputSize == nil {
		return
	}
	if om != nil && om.fullConfig != nil {
		business := om.fullConfig.Observability.CustomMetrics.BusinessMetrics
		if !business.Enabled || !business.TrackContentSizes {
			return
		}
	}
	m.InputSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String("operation", operation)))
}

// recordMetricByType records the appropriate metric based on the metric type
func (m *Metrics) recordMetricByType(ctx context.Context, metricType string, attrs []attribute.KeyValue, om *ObservabilityManager) {
	switch metricType {
	case "resume_scored":
		addIfSet(ctx, m.ResumesScored, attrs)
	case "cover_letter_scored":
		addIfSet(ctx, m.CoverLettersScored, attrs)
	case "interview_answer_scored":
		addIfSet(ctx, m.AnswersScored, attrs)
	case "keywords_extracted":
		addIfSet(ctx, m.KeywordExtractions, attrs)
	case "rate_limit_hit":
		if m.infrastructureEnabled(om, func(c config.InfrastructureMetricsConfig) bool { return c.TrackRateLimits }) {
			addIfSet(ctx, m.RateLimitHits, attrs)
		}
	case "bank_reloaded":
		if m.infrastructureEnabled(om, func(c config.InfrastructureMetricsConfig) bool { return c.TrackBankReloads }) {
			addIfSet(ctx, m.BankReloads, attrs)
		}
	case "store_write":
		if m.infrastructureEnabled(om, func(c config.InfrastructureMetricsConfig) bool { return c.TrackStoreWrites }) {
			addIfSet(ctx, m.StoreWrites, attrs)
		}
	case "api_keys_rotated":
		if m.infrastructureEnabled(om, func(c config.InfrastructureMetricsConfig) bool { return true }) {
			addIfSet(ctx, m.APIKeyRotations, attrs)
		}
	}
}

func (m *Metrics) infrastructureEnabled(om *ObservabilityManager, track func(config.InfrastructureMetricsConfig) bool) bool {
	if om == nil || om.fullConfig == nil {
		return true
	}
	infra := om.fullConfig.Observability.CustomMetrics.Infrastructure
	return infra.Enabled && track(infra)
}

func addIfSet(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// No-op exporters for when console output is disabled
type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// createOTLPExporter creates an OTLP HTTP trace exporter
func (om *ObservabilityManager) createOTLPExporter() (trace.SpanExporter, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}

	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return exporter, nil
}

// createOTLPMetricsReader creates an OTLP HTTP metrics reader
func (om *ObservabilityManager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	if om.fullConfig == nil {
		return nil, fmt.Errorf("config not available for OTLP configuration")
	}

	otlpConfig := om.fullConfig.Observability.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	interval := om.getMetricsCollectionInterval()
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

// getServiceInstanceID returns the service instance ID from config or generates one
func (om *ObservabilityManager) getServiceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return om.config.ServiceName + "-1"
}

// getMetricsCollectionInterval returns the configured metrics collection interval
func (om *ObservabilityManager) getMetricsCollectionInterval() time.Duration {
	if om.fullConfig != nil && om.fullConfig.Observability.Metrics.CollectionInterval > 0 {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}
