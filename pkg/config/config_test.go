package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/typeaid/internal/utils"
	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "data/", cfg.Vocab.DataDir)
	assert.Equal(t, vocab.DefaultCapacity, cfg.Vocab.TierCapacity)
	assert.Equal(t, 3, cfg.Suggest.DefaultLimit)
	assert.True(t, cfg.Server.WatchConfig)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, vocab.DefaultFiles, cfg.Vocab.Files.Map())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[vocab]
data_dir = "/srv/tiers"
tier_capacity = 250

[vocab.files]
chat_slang = "chat.txt"

[suggest]
default_limit = 2

[server]
watch_config = false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/tiers", cfg.Vocab.DataDir)
	assert.Equal(t, 250, cfg.Vocab.TierCapacity)
	assert.Equal(t, "chat.txt", cfg.Vocab.Files.ChatSlang)
	assert.Equal(t, vocab.DefaultFiles[vocab.Fillers], cfg.Vocab.Files.Fillers)
	assert.Equal(t, 2, cfg.Suggest.DefaultLimit)
	assert.False(t, cfg.Server.WatchConfig)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigNormalizes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		capacity int
		limit    int
	}{
		{"limit above max", "[suggest]\ndefault_limit = 7\n", vocab.DefaultCapacity, 3},
		{"negative limit", "[suggest]\ndefault_limit = -1\n", vocab.DefaultCapacity, 3},
		{"zero capacity", "[vocab]\ntier_capacity = 0\n", vocab.DefaultCapacity, 3},
		{"valid values", "[vocab]\ntier_capacity = 10\n[suggest]\ndefault_limit = 1\n", 10, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, t.TempDir(), tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.capacity, cfg.Vocab.TierCapacity)
			assert.Equal(t, tc.limit, cfg.Suggest.DefaultLimit)
		})
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[vocab]
data_dir = "/opt/words"

[vocab.files]
fillers = "um.txt"

[suggest]
default_limit = "three"

[server]
watch_config = false

[log]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/words", cfg.Vocab.DataDir)
	assert.Equal(t, "um.txt", cfg.Vocab.Files.Fillers)
	assert.Equal(t, 3, cfg.Suggest.DefaultLimit)
	assert.False(t, cfg.Server.WatchConfig)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigUnparseable(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), "[vocab\ndata_dir = \n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.True(t, utils.FileExists(path))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[suggest]\ndefault_limit = 1\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 1, cfg.Suggest.DefaultLimit)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	limit, watch := 2, false
	require.NoError(t, cfg.Update(path, &limit, &watch))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Suggest.DefaultLimit)
	assert.False(t, reloaded.Server.WatchConfig)

	limit = 9
	require.NoError(t, cfg.Update(path, &limit, nil))
	assert.Equal(t, 3, cfg.Suggest.DefaultLimit)
	assert.False(t, cfg.Server.WatchConfig)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[suggest]\ndefault_limit = 3\n")

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(c *Config) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// The watcher starts asynchronously, so keep writing until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var got *Config
	for i := 0; got == nil; i++ {
		select {
		case c := <-changes:
			got = c
		case <-tick.C:
			writeConfig(t, dir, fmt.Sprintf("[suggest]\ndefault_limit = 1\n# write %d\n", i))
		case <-deadline:
			t.Fatal("no config reload observed")
		}
	}
	assert.Equal(t, 1, got.Suggest.DefaultLimit)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[suggest]\ndefault_limit = 3\n")

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	called := make(chan struct{}, 1)
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644)
	}()
	require.NoError(t, Watch(ctx, path, 10*time.Millisecond, func(*Config) { called <- struct{}{} }))
	assert.Empty(t, called)
}
