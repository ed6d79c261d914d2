package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Debounce is how long the watcher waits for a burst of file events to
// settle before reporting one change.
var Debounce = 150 * time.Millisecond

// Watch reports changes of the settings file at path. The directory is
// watched rather than the file so editors that replace the file on save
// are still seen. The returned channel holds at most one pending change
// and is closed once ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger) (<-chan struct{}, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	changed := make(chan struct{}, 1)

	debounce := time.NewTimer(Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	go func() {
		defer close(changed)
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				log.Debug("settings file event", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				debounce.Reset(Debounce)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("settings watcher error", zap.Error(err))

			case <-debounce.C:
				select {
				case changed <- struct{}{}:
				default:
				}

			case <-ctx.Done():
				debounce.Stop()
				return
			}
		}
	}()

	log.Info("watching settings file", zap.String("path", abs))
	return changed, nil
}
