package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events a single save produces
// (truncate then write, or create then rename) into one reload.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the config at path whenever it changes on disk and passes
// each successfully loaded Config to onChange. It blocks until ctx is
// cancelled.
//
// The parent directory is watched rather than the file itself, so saves that
// replace the file (write a temp file, rename it over path) keep triggering
// reloads. A reload that fails to parse or validate is logged and skipped;
// onChange is not called and the caller keeps its previous config.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	target := filepath.Clean(path)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	slog.Info("config: watching for changes", "path", target)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// Remove and Rename leave nothing to read; the Create that
			// follows a replace will schedule the reload.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload = time.After(reloadDelay)
			}

		case <-reload:
			reload = nil
			cfg, err := Load(target)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", target, "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", target,
				"drift_mode", cfg.Thresholds.DriftMode,
				"sustained_run_minimum", cfg.Thresholds.SustainedRunMinimum)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
