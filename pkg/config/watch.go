package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a changed config is reloaded.
// Editors and SaveConfig write a temp file and rename it, which fires
// several events in a row.
const DefaultDebounce = 200 * time.Millisecond

// Watch reloads the config at configPath whenever it changes and passes the
// result to onChange. It blocks until ctx is done. The parent directory is
// watched rather than the file, so rename-over writes are seen too.
func Watch(ctx context.Context, configPath string, debounce time.Duration, onChange func(*Config)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("watch config: resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch config: add %s: %w", filepath.Dir(absPath), err)
	}
	log.Debugf("Watching config file: %s", absPath)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config watcher error: %v", err)

		case <-fire:
			cfg, err := LoadConfig(absPath)
			if err != nil {
				log.Warnf("Failed to reload config from %s: %v", absPath, err)
				continue
			}
			log.Debugf("Reloaded config from %s", absPath)
			onChange(cfg)
		}
	}
}
