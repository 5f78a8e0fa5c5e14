package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyDatabaseFallbacks()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("ATSSCORE_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitKeys(apiKeysEnv)
		}
	}
}

// applyDatabaseFallbacks honours the conventional DATABASE_URL variable
func (c *Config) applyDatabaseFallbacks() {
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// splitKeys parses a comma-separated key list, dropping blanks
func splitKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"ATSSCORE_SERVER_APIKEYS",
		"ATSSCORE_SERVER_PORT",
		"ATSSCORE_SERVER_HOST",
		"ATSSCORE_APP_LOGLEVEL",
		"ATSSCORE_SCORING_THRESHOLD",
		"ATSSCORE_SCORING_BANKFILE",
		"ATSSCORE_DATABASE_ENABLED",
		"ATSSCORE_DATABASE_URL",
		"ATSSCORE_VAULT_ENABLED",
		"DATABASE_URL",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitiveEnv(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	w := c.Scoring.Weights
	log.Printf("[CONFIG] Scoring Weights: keywords=%.2f structure=%.2f formatting=%.2f readability=%.2f",
		w.KeywordMatch, w.Structure, w.Formatting, w.Readability)
	log.Printf("[CONFIG] Scoring Threshold: %d", c.Scoring.Threshold)
	if c.Scoring.BankFile != "" {
		log.Printf("[CONFIG] Keyword Bank: %s", c.Scoring.BankFile)
	} else {
		log.Println("[CONFIG] Keyword Bank: built-in")
	}
	log.Printf("[CONFIG] Batch Concurrency: %d", c.Batch.Concurrency)
	log.Printf("[CONFIG] Database Enabled: %t", c.Database.Enabled)
	if c.Database.URL != "" {
		log.Println("[CONFIG] Database URL: ***CONFIGURED***")
	}
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] API Keys: %d configured", len(c.Server.APIKeys))
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}

func isSensitiveEnv(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "url")
}
