package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// pollFallback bounds how stale the wait can get when the directory
// watch misses an event (or cannot be established at all).
const pollFallback = 250 * time.Millisecond

// awaitFile blocks until the capture file exists, the timeout passes, or
// the context is cancelled. The capture process creates the file, so at
// startup it routinely does not exist yet.
func awaitFile(ctx context.Context, path string, timeout time.Duration, log zerolog.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat log file: %w", err)
	}

	log.Info().Msg("waiting for log file...")

	// Watch the parent directory for the create event; stat on a short
	// ticker covers a missing directory and lost events.
	var events <-chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(path)); err == nil {
			events = watcher.Events
		}
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollFallback)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline.C:
			return fmt.Errorf("log file %s did not appear within %v", path, timeout)
		case ev := <-events:
			if ev.Op.Has(fsnotify.Create) && filepath.Clean(ev.Name) == filepath.Clean(path) {
				return nil
			}
		case <-ticker.C:
			if _, err := os.Stat(path); err == nil {
				return nil
			}
		}
	}
}
