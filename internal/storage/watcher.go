package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is invoked after the store file changes on disk.
type ChangeCallback func()

// Watch starts an fsnotify watcher on the directory containing the
// store file and invokes cb when the file (or its WAL sidecar) is
// written, until ctx is cancelled.
//
// Writes from this process fire events too; callers use the callback
// to tell views to refresh, which is harmless when the change was our
// own. Concurrent external writers are not reconciled — last writer
// wins — the callback only surfaces that the blob moved underneath us.
func Watch(ctx context.Context, storePath string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(storePath)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("store", abs))

	base := filepath.Base(abs)

	// debounceTimer coalesces the bursts of events SQLite produces for
	// a single logical write.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: store changed", slog.String("store", base))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if name != base && !strings.HasPrefix(name, base+"-") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
