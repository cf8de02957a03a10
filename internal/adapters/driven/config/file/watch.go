package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// Watch reloads the store whenever the config file changes on disk and
// then calls onChange. It blocks until ctx is done.
//
// The directory is watched rather than the file, so editors that save by
// renaming a temporary file over config.toml are picked up too.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.filePath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.isConfigEvent(event) {
				continue
			}
			if err := s.Load(); err != nil {
				logger.Warn("reloading config: %v", err)
				continue
			}
			logger.Debug("config reloaded from %s", s.filePath)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

func (s *ConfigStore) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
