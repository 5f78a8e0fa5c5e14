package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Scoring Configuration - resume defaults
	v.SetDefault("scoring.weights.keywordMatch", 0.40)
	v.SetDefault("scoring.weights.structure", 0.25)
	v.SetDefault("scoring.weights.formatting", 0.20)
	v.SetDefault("scoring.weights.readability", 0.15)
	v.SetDefault("scoring.threshold", 70)
	v.SetDefault("scoring.maxKeywords", 25)
	v.SetDefault("scoring.maxInputBytes", 512*1024)
	v.SetDefault("scoring.oversizePolicy", "truncate") // truncate, reject
	v.SetDefault("scoring.bankFile", "")

	// Scoring Configuration - cover letter defaults
	v.SetDefault("scoring.coverLetter.weights.keywordMatch", 0.35)
	v.SetDefault("scoring.coverLetter.weights.structure", 0.25)
	v.SetDefault("scoring.coverLetter.weights.personalization", 0.20)
	v.SetDefault("scoring.coverLetter.weights.readability", 0.20)

	// Scoring Configuration - interview answer defaults
	v.SetDefault("scoring.interview.weights.star", 0.40)
	v.SetDefault("scoring.interview.weights.relevance", 0.20)
	v.SetDefault("scoring.interview.weights.specificity", 0.20)
	v.SetDefault("scoring.interview.weights.delivery", 0.20)

	// Batch Configuration
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.maxItems", 50)

	// Database Configuration
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.connectTimeout", 10*time.Second)
	v.SetDefault("database.queryTimeout", 5*time.Second)
	v.SetDefault("database.circuitBreaker.enabled", true)
	v.SetDefault("database.circuitBreaker.maxRequests", 3)
	v.SetDefault("database.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("database.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("database.circuitBreaker.minRequests", 3)
	v.SetDefault("database.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 30*time.Second)
	v.SetDefault("server.maxRequestBytes", 2*1024*1024) // 2MB
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)
	// Keyword bank watcher defaults
	v.SetDefault("server.bankWatcher.enabled", true)
	v.SetDefault("server.bankWatcher.debounceDelay", time.Second)
	// API key rotation defaults
	v.SetDefault("server.keyRotation.enabled", false)
	v.SetDefault("server.keyRotation.pollInterval", 5*time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.database", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "atsscore")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.scoringOperations.enabled", true)
	v.SetDefault("observability.customMetrics.scoringOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.scoringOperations.trackScoreDistribution", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackBankReloads", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackStoreWrites", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.storeCheckTimeout", 5*time.Second)
}
