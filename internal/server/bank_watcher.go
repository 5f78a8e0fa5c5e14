package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// BankWatcher watches the keyword bank file and calls reloadCallback once
// a burst of changes has settled.
type BankWatcher struct {
	mu sync.RWMutex

	file        string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running bool
}

// NewBankWatcher creates a watcher for the keyword bank at file
func NewBankWatcher(file string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*BankWatcher, error) {
	if file == "" {
		return nil, fmt.Errorf("keyword bank file is required")
	}
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	if logger == nil {
		logger = errors.Discard()
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve keyword bank path %s: %w", file, err)
	}

	return &BankWatcher{
		file:           absPath,
		debounceDelay:  debounceDelay,
		reloadChan:     make(chan struct{}, 1),
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the bank file
func (bw *BankWatcher) Start() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.running {
		return fmt.Errorf("keyword bank watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if stat, err := os.Stat(bw.file); err == nil {
		bw.lastModTime = stat.ModTime()
	}

	// Editors and config management replace files with a rename, which
	// drops a watch on the file itself, so the directory is watched.
	dir := filepath.Dir(bw.file)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			bw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	bw.fsWatcher = watcher
	bw.stopChan = make(chan struct{})

	bw.running = true
	go bw.watchLoop(watcher, bw.stopChan)

	bw.logger.Info("Keyword bank watcher started",
		"file", bw.file,
		"debounce_delay", bw.debounceDelay)
	return nil
}

// Stop stops the watcher
func (bw *BankWatcher) Stop() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if !bw.running {
		return nil
	}

	close(bw.stopChan)
	if bw.debounceTimer != nil {
		bw.debounceTimer.Stop()
	}
	bw.running = false

	if err := bw.fsWatcher.Close(); err != nil {
		bw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	bw.logger.Info("Keyword bank watcher stopped")
	return nil
}

func (bw *BankWatcher) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if bw.shouldProcessEvent(event) {
				bw.scheduleReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			bw.logger.LogError(err, "File watcher error")

		case <-bw.reloadChan:
			if bw.hasFileChanged() {
				bw.logger.Info("Keyword bank changed, triggering reload", "file", bw.file)
				bw.reloadCallback()
			}

		case <-stop:
			return
		}
	}
}

// shouldProcessEvent reports whether event touches the bank file
func (bw *BankWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != bw.file {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged reports a newer modification time than the last reload.
// A deleted file is not a change: the current bank stays in place.
func (bw *BankWatcher) hasFileChanged() bool {
	stat, err := os.Stat(bw.file)
	if err != nil {
		return false
	}

	bw.mu.Lock()
	defer bw.mu.Unlock()
	if stat.ModTime().After(bw.lastModTime) {
		bw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// scheduleReload schedules a debounced reload
func (bw *BankWatcher) scheduleReload() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.debounceTimer != nil {
		bw.debounceTimer.Stop()
	}

	bw.debounceTimer = time.AfterFunc(bw.debounceDelay, func() {
		select {
		case bw.reloadChan <- struct{}{}:
		default:
			// reload already pending
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (bw *BankWatcher) IsRunning() bool {
	bw.mu.RLock()
	defer bw.mu.RUnlock()
	return bw.running
}

// File returns the watched keyword bank path
func (bw *BankWatcher) File() string {
	return bw.file
}
