// Package watch feeds images dropped into a directory to a handler.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

// DefaultSettle is how long a file must go without writes before it is
// handed over. Cameras and copy tools write images in several chunks.
const DefaultSettle = 300 * time.Millisecond

// Watcher reports new image files in one directory, not recursively.
type Watcher struct {
	dir    string
	settle time.Duration
	logger *slog.Logger
}

// New creates a Watcher for dir. A settle of 0 uses DefaultSettle.
func New(dir string, settle time.Duration, logger *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{dir: dir, settle: settle, logger: logger}
}

// Watch calls handle with the path of every supported image created in the
// directory, once the file has settled. handle runs on the watching
// goroutine, one file at a time. Watch blocks until ctx is done and then
// returns nil.
func (w *Watcher) Watch(ctx context.Context, handle func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching directory", "dir", w.dir, "settle", w.settle)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !imaging.IsSupported(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()

		case <-ticker.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) >= w.settle {
					delete(pending, path)
					handle(path)
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", "error", err)
		}
	}
}
