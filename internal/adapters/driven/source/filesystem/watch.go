package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before Watch signals.
const DefaultDebounce = 500 * time.Millisecond

// Watch reports changes to the file at uri. Bursts of events (editors often
// write, rename and chmod in quick succession) collapse into one signal once
// the file has been quiet for debounce. The channel closes when ctx is done.
//
// The parent directory is watched rather than the file itself, so atomic
// saves that replace the file by rename are still seen.
func Watch(ctx context.Context, uri string, debounce time.Duration) (<-chan time.Time, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(ResolvePath(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, uri, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	changes := make(chan time.Time, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isChange(event, target) {
					continue
				}
				logger.Debug("watch: %s %s", event.Op, event.Name)
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", target, err)

			case at := <-fire:
				fire = nil
				select {
				case changes <- at:
				default:
					// A signal is already pending; the receiver will re-read the file anyway.
				}
			}
		}
	}()

	return changes, nil
}

// isChange reports whether event touches target with new content.
// Removals and permission changes are ignored: there is nothing to re-read.
func isChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
