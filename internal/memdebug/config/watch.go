package config

import (
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads Options from a configuration file whenever it changes
// on disk, for `memdebug-run --watch-config`. Grounded directly on
// internal/runtime/vfs/watch_fsnotify.go's FSNotifyWatcher, narrowed to a
// single file and a parse callback instead of a generic event channel.
type Watcher struct {
	w *fsnotify.Watcher
}

// WatchFile starts watching path and invokes onChange with the freshly
// parsed Options every time the file is written, or with a non-nil error
// if the file becomes unreadable or fails to parse. The initial contents
// are parsed and delivered synchronously before WatchFile returns.
func WatchFile(path string, onChange func(Options, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		w.Close()

		return nil, err
	}

	load := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			onChange(Options{}, err)

			return
		}

		opt, err := Parse(string(data))
		onChange(opt, err)
	}

	load()

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					load()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return &Watcher{w: w}, nil
}

// Close stops watching and releases the underlying OS resources.
func (w *Watcher) Close() error { return w.w.Close() }
