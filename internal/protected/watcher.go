package protected

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ignite/crm-retention/internal/pkg/logger"
)

// DefaultDebounce collapses the burst of events an editor or export job
// produces when it rewrites the list.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc refreshes the protected set, see Reloader.Reload.
type ReloadFunc func(ctx context.Context) (int, error)

// FileWatcher reloads the protected list whenever its local file is written
// or replaced.
type FileWatcher struct {
	path     string
	reload   ReloadFunc
	debounce time.Duration
}

// NewFileWatcher watches path. A non-positive debounce uses DefaultDebounce.
func NewFileWatcher(path string, reload ReloadFunc, debounce time.Duration) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{path: filepath.Clean(path), reload: reload, debounce: debounce}
}

// Run watches until ctx is cancelled. The parent directory is watched rather
// than the file so that atomic replaces (write temp, rename over) are seen.
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching protected list", "path", w.path, "debounce", w.debounce.String())

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("protected list watcher error", "error", err)

		case <-pending:
			pending = nil
			if _, err := w.reload(ctx); err != nil {
				logger.Warn("protected list reload after change failed", "path", w.path, "error", err)
			}
		}
	}
}
