package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewBankWatcherRequiresFile(t *testing.T) {
	_, err := NewBankWatcher("", time.Second, func() {}, nil)
	assert.Error(t, err)
}

func TestBankWatcherShouldProcessEvent(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "technical: [go]\n")
	bw, err := NewBankWatcher(path, time.Second, func() {}, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to bank", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"bank replaced", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"bank renamed", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bw.shouldProcessEvent(tt.event))
		})
	}
}

func TestBankWatcherHasFileChanged(t *testing.T) {
	path := writeBank(t, t.TempDir(), "technical: [go]\n")
	bw, err := NewBankWatcher(path, time.Second, func() {}, nil)
	require.NoError(t, err)

	assert.True(t, bw.hasFileChanged(), "zero last modification time")
	assert.False(t, bw.hasFileChanged(), "unchanged since last check")

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, bw.hasFileChanged())

	require.NoError(t, os.Remove(path))
	assert.False(t, bw.hasFileChanged(), "deleted file keeps the current bank")
}

func TestBankWatcherReloadsOnWrite(t *testing.T) {
	path := writeBank(t, t.TempDir(), "technical: [go]\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	reloaded := make(chan struct{}, 1)
	bw, err := NewBankWatcher(path, 20*time.Millisecond, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, bw.Start())
	defer func() { _ = bw.Stop() }()

	assert.True(t, bw.IsRunning())
	assert.Error(t, bw.Start(), "already running")

	require.NoError(t, os.WriteFile(path, []byte("technical: [go, rust]\n"), 0o644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback not called")
	}

	require.NoError(t, bw.Stop())
	assert.False(t, bw.IsRunning())
	require.NoError(t, bw.Stop(), "stopping twice is a no-op")
}

func TestBankWatcherRestart(t *testing.T) {
	path := writeBank(t, t.TempDir(), "technical: [go]\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	reloaded := make(chan struct{}, 1)
	bw, err := NewBankWatcher(path, 20*time.Millisecond, func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)

	require.NoError(t, bw.Start())
	require.NoError(t, bw.Stop())

	require.NoError(t, bw.Start(), "a stopped watcher can start again")
	defer func() { _ = bw.Stop() }()
	assert.True(t, bw.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte("technical: [go, rust]\n"), 0o644))
	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback not called after restart")
	}

	require.NotPanics(t, func() { require.NoError(t, bw.Stop()) })
	assert.False(t, bw.IsRunning())
}
