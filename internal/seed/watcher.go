package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/habitus/internal/checksum"
	"github.com/starford/habitus/internal/models"
)

const debounce = 200 * time.Millisecond

// ApplyFunc receives the records of a changed seed file.
type ApplyFunc func(records []models.Habit) error

// Watch watches the seed file at path and calls apply whenever its content
// changes, until ctx is cancelled. The parent directory is watched so that
// editors which replace the file by rename are picked up. Writes that leave
// the content checksum unchanged are ignored.
func Watch(ctx context.Context, path string, logger *slog.Logger, apply ApplyFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var last string
	if data, readErr := os.ReadFile(abs); readErr == nil {
		last = checksum.Sum(data)
	}

	logger.Info("seed watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("seed watcher: stopped")
			return nil

		case <-fire:
			data, readErr := os.ReadFile(abs)
			if readErr != nil {
				logger.Warn("seed watcher: read failed", slog.String("path", abs), slog.String("error", readErr.Error()))
				continue
			}
			if checksum.Equal(data, last) {
				logger.Debug("seed watcher: content unchanged", slog.String("path", abs))
				continue
			}
			records, parseErr := Parse(data)
			if parseErr != nil {
				logger.Warn("seed watcher: parse failed", slog.String("path", abs), slog.String("error", parseErr.Error()))
				continue
			}
			if applyErr := apply(records); applyErr != nil {
				logger.Warn("seed watcher: apply failed", slog.String("path", abs), slog.String("error", applyErr.Error()))
				continue
			}
			last = checksum.Sum(data)
			logger.Info("seed watcher: reloaded", slog.String("path", abs), slog.Int("habits", len(records)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("seed watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
