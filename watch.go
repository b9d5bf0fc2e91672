package scriptrt

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a project root for source and manifest changes, calling
// onChange after a quiet period — the same fsnotify-driven debounce
// pattern the teacher framework's coffer.go uses to invalidate cached
// assets, applied here to trigger a rebuild instead.
type Watcher struct {
	w    *fsnotify.Watcher
	done chan struct{}
}

// Watch watches every directory under root, calling onChange (at most once
// per debounce window) whenever a ".ts", ".js" file, or a file literally
// named "config.yml", is created, written, renamed, or removed.
func Watch(root string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.Add(p)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{w: fw, done: make(chan struct{})}
	go w.loop(debounce, onChange)
	return w, nil
}

func (w *Watcher) loop(debounce time.Duration, onChange func()) {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case e, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !relevant(e.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			onChange()
		case _, ok := <-w.w.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func relevant(name string) bool {
	base := filepath.Base(name)
	if base == "config.yml" {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".js":
		return true
	default:
		return false
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.w.Close()
}
