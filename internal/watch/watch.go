// Package watch turns raw file-system notifications into a disciplined
// re-run trigger: changes are debounced, at most one re-run is queued while
// a run is in flight, and an in-flight run is never cancelled. A change
// observed mid-run coalesces into the single pending slot, so a burst of
// saves produces one follow-up run, not one per event.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vk/pipewright/internal/ctxlog"
)

// DefaultDebounce is the quiet period required after the last event before
// a run fires.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a watch session.
type Options struct {
	// Paths are the files or directories to watch. Directories are
	// watched recursively.
	Paths []string
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
}

// Run watches the configured paths and invokes fn after each debounced
// change burst. It blocks until ctx is cancelled. fn failures are logged
// and do not stop the watch session; the next change triggers fn again.
func Run(ctx context.Context, opts Options, fn func(context.Context) error) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	for _, path := range opts.Paths {
		if err := addRecursive(watcher, path); err != nil {
			return errors.Wrapf(err, "failed to watch %q", path)
		}
	}
	logger.Info("👀 Watching for changes...", "paths", opts.Paths)

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	// kick has capacity one: it is the single re-run slot.
	kick := make(chan struct{}, 1)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !relevant(event) {
					continue
				}
				// Newly created directories need their own watch.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addRecursive(watcher, event.Name)
					}
				}
				logger.Debug("Change observed.", "path", event.Name, "op", event.Op.String())
				select {
				case kick <- struct{}{}:
				default:
					// A run is already pending; the change coalesces.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("File watcher error.", "error", err)
			}
		}
	})

	group.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-kick:
			}

			// Wait for the burst to settle before running.
			timer := time.NewTimer(debounce)
		settle:
			for {
				select {
				case <-gctx.Done():
					timer.Stop()
					return nil
				case <-kick:
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(debounce)
				case <-timer.C:
					break settle
				}
			}

			if err := fn(gctx); err != nil {
				logger.Error("Watched run failed; still watching.", "error", err)
			}
		}
	})

	return group.Wait()
}

// relevant filters out event types that never change file content.
func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

// addRecursive watches a path, descending into directories.
func addRecursive(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(path)
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
