package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 100 * time.Millisecond

// Watch calls onChange after the workspace file changes, coalescing bursts of
// events. The parent directory is watched because saves replace the file by
// rename. Watch blocks until ctx is done.
func (r *Repository) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create workspace watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(r.workspacePath)
	if err := os.MkdirAll(dir, workspaceDirMode); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.workspacePath || event.Op == fsnotify.Chmod {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch workspace file: %w", err)
		}
	}
}
