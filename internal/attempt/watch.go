package attempt

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the attempt file and invokes onChange whenever it is
// written, replaced, or removed, until ctx is cancelled. The callback
// receives ErrNoAttempt when the file disappears. This backs
// `opsim status --follow`.
func Watch(ctx context.Context, store Store, onChange func(a *Attempt, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Saves go through a temp file + rename, so watch the parent directory
	// rather than the file itself.
	path := store.Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				onChange(store.Load())
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}
