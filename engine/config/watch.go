package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding path, so that editors
// replacing the file are seen too.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}
	return &Watcher{path: abs, fsnotify: fsWatch}, nil
}

// Run calls fn with every successfully reloaded config until ctx is done.
// Invalid files are logged and skipped; the previous config stays in effect.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) error {
	defer w.fsnotify.Close()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				core.LogWarn("config reload skipped: %s", err)
				continue
			}
			core.LogDebug("config reloaded from %s", w.path)
			fn(cfg)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			core.LogError(err.Error())

		case <-ctx.Done():
			return nil
		}
	}
}

// Watch is NewWatcher followed by Run.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := NewWatcher(path)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}
