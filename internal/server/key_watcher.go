package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/config"
	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"
)

// apiKeysField is the secret field holding the comma-separated API keys
const apiKeysField = "keys"

// VaultSecretReader reads versioned secrets from Vault
type VaultSecretReader interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// KeyWatcher polls the API key secret in Vault and hands every new version
// to onRotate.
type KeyWatcher struct {
	mu sync.RWMutex

	client       VaultSecretReader
	secretPath   string
	pollInterval time.Duration
	onRotate     func(keys []string)
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	rotations   int
	lastError   string
}

// NewKeyWatcher creates a KeyWatcher. lastVersion is the secret version the
// server started with; only newer versions are applied.
func NewKeyWatcher(client VaultSecretReader, secretPath string, pollInterval time.Duration, lastVersion int64, onRotate func([]string), logger *errors.Logger) *KeyWatcher {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &KeyWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onRotate:     onRotate,
		logger:       logger,
		lastVersion:  lastVersion,
	}
}

// Start begins polling Vault
func (kw *KeyWatcher) Start() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if kw.running {
		return fmt.Errorf("key watcher is already running")
	}
	kw.stopChan = make(chan struct{})
	kw.running = true
	go kw.pollLoop(kw.stopChan)
	kw.logger.Info("API key watcher started", "secret_path", kw.secretPath, "poll_interval", kw.pollInterval)
	return nil
}

// Stop stops polling
func (kw *KeyWatcher) Stop() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()
	if !kw.running {
		return nil
	}
	close(kw.stopChan)
	kw.running = false
	kw.logger.Info("API key watcher stopped")
	return nil
}

func (kw *KeyWatcher) pollLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(kw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := kw.Poll(); err != nil {
				kw.logger.LogError(err, "Failed to check Vault for API key updates")
			}
		case <-stop:
			return
		}
	}
}

// Poll reads the secret once and rotates the keys when its version is
// newer than the last one applied. A version with no usable keys is
// refused so that a bad write cannot lock every client out.
func (kw *KeyWatcher) Poll() (bool, error) {
	secret, err := kw.client.GetSecretV2(kw.secretPath)
	if err != nil {
		kw.recordError(err)
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		err := fmt.Errorf("secret not found at path: %s", kw.secretPath)
		kw.recordError(err)
		return false, err
	}

	kw.mu.Lock()
	if secret.Version <= kw.lastVersion {
		kw.mu.Unlock()
		return false, nil
	}
	kw.mu.Unlock()

	raw, err := secret.StringField(apiKeysField)
	if err != nil {
		kw.recordError(err)
		return false, fmt.Errorf("secret %s: %w", kw.secretPath, err)
	}
	keys := parseAPIKeys(raw)
	if len(keys) == 0 {
		err := fmt.Errorf("secret %s version %d holds no API keys", kw.secretPath, secret.Version)
		kw.recordError(err)
		return false, err
	}

	kw.onRotate(keys)

	kw.mu.Lock()
	kw.lastVersion = secret.Version
	kw.rotations++
	kw.lastError = ""
	kw.mu.Unlock()

	kw.logger.Info("API keys rotated from Vault", "version", secret.Version, "keys", len(keys))
	return true, nil
}

func (kw *KeyWatcher) recordError(err error) {
	kw.mu.Lock()
	kw.lastError = err.Error()
	kw.mu.Unlock()
}

// Status returns the current status of the watcher for stats reporting
func (kw *KeyWatcher) Status() map[string]any {
	kw.mu.RLock()
	defer kw.mu.RUnlock()
	status := map[string]any{
		"running":       kw.running,
		"poll_interval": kw.pollInterval.String(),
		"secret_path":   kw.secretPath,
		"last_version":  kw.lastVersion,
		"rotations":     kw.rotations,
	}
	if kw.lastError != "" {
		status["last_error"] = kw.lastError
	}
	return status
}

func parseAPIKeys(raw string) []string {
	var keys []string
	for key := range strings.SplitSeq(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
