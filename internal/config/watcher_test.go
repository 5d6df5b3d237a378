package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watcherConfigEnabled = `
audit:
  enabled: true
`

const watcherConfigDisabled = `
audit:
  enabled: false
`

const watcherConfigInvalid = `
logging:
  level: verbose
`

// writeTestConfig writes a config file for watcher tests.
func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	watcher, err := NewWatcher(configPath, func(*Config) {})
	require.NoError(t, err)
	require.NotNil(t, watcher)

	assert.Equal(t, configPath, watcher.path)
	assert.NotNil(t, watcher.callback)
	assert.Equal(t, 100*time.Millisecond, watcher.debounceDelay)
}

func TestWatcher_StartLoadsInitialConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	watcher, err := NewWatcher(configPath, func(*Config) {},
		WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	cfg := watcher.GetLastConfig()
	require.NotNil(t, cfg)
	assert.True(t, cfg.Audit.Enabled)
}

func TestWatcher_StartFailsOnMissingFile(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "absent.yaml")

	watcher, err := NewWatcher(configPath, func(*Config) {})
	require.NoError(t, err)

	assert.Error(t, watcher.Start(context.Background()))
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	changed := make(chan *Config, 1)
	watcher, err := NewWatcher(configPath,
		func(cfg *Config) {
			select {
			case changed <- cfg:
			default:
			}
		},
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	writeTestConfig(t, configPath, watcherConfigDisabled)

	select {
	case cfg := <-changed:
		assert.False(t, cfg.Audit.Enabled)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config change callback")
	}

	last := watcher.GetLastConfig()
	require.NotNil(t, last)
	assert.False(t, last.Audit.Enabled)
}

func TestWatcher_InvalidReloadKeepsLastConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	var callbacks, errCallbacks atomic.Int32
	errSeen := make(chan struct{}, 1)

	watcher, err := NewWatcher(configPath,
		func(*Config) { callbacks.Add(1) },
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(error) {
			errCallbacks.Add(1)
			select {
			case errSeen <- struct{}{}:
			default:
			}
		}),
	)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	writeTestConfig(t, configPath, watcherConfigInvalid)

	select {
	case <-errSeen:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error callback")
	}

	assert.Equal(t, int32(0), callbacks.Load())
	last := watcher.GetLastConfig()
	require.NotNil(t, last)
	assert.True(t, last.Audit.Enabled)
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	var called atomic.Bool
	watcher, err := NewWatcher(configPath, func(*Config) { called.Store(true) })
	require.NoError(t, err)

	writeTestConfig(t, configPath, watcherConfigDisabled)
	require.NoError(t, watcher.ForceReload())

	assert.True(t, called.Load())
	last := watcher.GetLastConfig()
	require.NotNil(t, last)
	assert.False(t, last.Audit.Enabled)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "netaudit.yaml")
	writeTestConfig(t, configPath, watcherConfigEnabled)

	watcher, err := NewWatcher(configPath, func(*Config) {})
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	require.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}
