package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"dotsync.dev/dotsync/internal/runtime"
)

// WatchOptions contains options for the watch command
type WatchOptions struct {
	// Debounce is how long the tree must be quiet before a sync starts
	Debounce time.Duration
	// Interval triggers a sync when nothing changed locally, to pick up remote changes
	Interval time.Duration
	// AfterSync is called after every sync attempt with its error, if any
	AfterSync func(error)
}

// Validate checks that the timings can drive the watch loop
func (o WatchOptions) Validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", o.Interval)
	}
	if o.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", o.Debounce)
	}
	return nil
}

// WatchAction syncs once, then again whenever the working tree changes or the
// interval elapses. Syncs never overlap: they run on the watch loop itself.
// A failed sync is logged and the loop continues. Returns when the context is done.
func WatchAction(ctx *runtime.Context, opts WatchOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	splog := ctx.Splog
	root := ctx.Repo.Path()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	runSync := func(reason string) {
		splog.Debug("sync triggered by %s", reason)
		_, err := SyncAction(ctx, SyncOptions{})
		if err != nil {
			splog.Error("sync failed: %v", err)
		}
		if opts.AfterSync != nil {
			opts.AfterSync(err)
		}
	}

	splog.Info("Watching %s", root)
	runSync("startup")
	drain(watcher)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Context.Done():
			splog.Debug("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnoredPath(root, event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						splog.Warn("cannot watch %s: %v", event.Name, err)
					}
				}
			}
			splog.Debug("change: %s", event)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(opts.Debounce)
			fire = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			splog.Warn("file watcher: %v", err)

		case <-fire:
			fire = nil
			runSync("local changes")
			drain(watcher)
			ticker.Reset(opts.Interval)

		case <-ticker.C:
			runSync("interval")
			drain(watcher)
		}
	}
}

// watchTree adds dir and every directory below it, skipping git metadata.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isIgnoredPath reports whether path is inside the .git directory of root
func isIgnoredPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return first == ".git"
}

// drain discards events queued while a sync was writing to the tree
func drain(watcher *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
