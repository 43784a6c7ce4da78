package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports shader files that changed on disk. Events are delivered
// on a channel so the GL thread can recompile between frames.
type Watcher struct {
	w       *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	log     *zap.Logger
}

// NewWatcher watches dir (not recursively).
func NewWatcher(dir string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		w:       fw,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		log:     log,
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			// Editors often replace files, which shows up as create or rename.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.ToSlash(event.Name)
			select {
			case w.changes <- name:
			default:
				w.log.Debug("shader change dropped", zap.String("file", name))
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Changes delivers changed file paths with forward slashes.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Pending drains the changes seen so far without blocking. Repeated events
// for one file are collapsed.
func (w *Watcher) Pending() []string {
	var out []string
	seen := make(map[string]bool)
	for {
		select {
		case name := <-w.changes:
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		default:
			return out
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.w.Close()
}
