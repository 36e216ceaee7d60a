// This file implements a file system watcher for incremental library scanning.
// It uses OS-level file system events to detect changed book files and hands
// them, debounced, to a callback.

package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vrsandeep/mango-meta/internal/config"
	"github.com/vrsandeep/mango-meta/internal/formats"
)

// Watcher watches a library directory for added, modified or removed book
// files.
type Watcher struct {
	root          string
	onChange      func(paths []string)
	log           *zap.Logger
	watcher       *fsnotify.Watcher
	changedPaths  map[string]bool
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcher creates a watcher for cfg.Library.Path. onChange receives the
// sorted paths of the supported files that changed once no further event
// arrived for cfg.Watch.Debounce. Removed files are included.
func NewWatcher(cfg *config.Config, log *zap.Logger, onChange func(paths []string)) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	delay := cfg.Watch.Debounce
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Watcher{
		root:          cfg.Library.Path,
		onChange:      onChange,
		log:           log.Named("watcher"),
		changedPaths:  make(map[string]bool),
		debounceDelay: delay,
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the library directory. The watcher stops when ctx
// is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	// Only watch directories (files are watched via their parent directory)
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	w.log.Info("File watcher started", zap.String("root", w.root))

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher. Pending changes are dropped.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", zap.Error(err))

		case <-ctx.Done():
			w.Stop()
			return

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Ignore Chmod events (these are often triggered by opening folders, reading files, etc.)
	if event.Op == fsnotify.Chmod {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	info, err := os.Stat(event.Name)
	isDir := err == nil && info.IsDir()

	// New directories are watched too. Files may already have landed in them
	// before the watch was added, so they are picked up by walking.
	if event.Has(fsnotify.Create) && isDir {
		var found []string
		filepath.WalkDir(event.Name, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if addErr := w.watcher.Add(path); addErr != nil {
					w.log.Warn("Failed to watch directory", zap.String("path", path), zap.Error(addErr))
				}
				return nil
			}
			if formats.IsSupported(path) {
				found = append(found, path)
			}
			return nil
		})
		w.markChanged(found...)
		return
	}

	if !isDir && formats.IsSupported(event.Name) {
		w.markChanged(event.Name)
	}
}

// markChanged records paths and resets the debounce timer.
func (w *Watcher) markChanged(paths ...string) {
	if len(paths) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.changedPaths[p] = true
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.flush)
}

func (w *Watcher) flush() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	w.mu.Lock()
	if len(w.changedPaths) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.changedPaths))
	for path := range w.changedPaths {
		paths = append(paths, path)
	}
	w.changedPaths = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(paths)
	w.log.Info("File watcher detected changes", zap.Int("paths", len(paths)))
	if w.onChange != nil {
		w.onChange(paths)
	}
}
