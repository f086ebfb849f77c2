// Package watch wraps github.com/fsnotify/fsnotify (already a teacher
// dependency, previously exercised only by the actor-runtime VFS layer's
// own watcher) to re-run the driver's pipeline whenever a crate's source
// files or orizon.toml change. This is driver-level convenience, not
// part of the single-threaded-per-compilation core (spec §5); each
// re-run spins a fresh internal/driver.CompilationContext. Grounded on
// the teacher's internal/runtime/vfs.FSNotifyWatcher event-translation
// loop, generalized here to name the one event kind the build driver
// cares about: "something changed, recompile."
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to watched paths on its Changes channel.
type Watcher struct {
	w       *fsnotify.Watcher
	changes chan string
	errs    chan error
	done    chan struct{}
}

// New creates a Watcher with no paths registered yet; call Add for each
// path (crate root directory, or orizon.toml directly) to watch.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		w:       w,
		changes: make(chan string, 64),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}

	go watcher.loop()

	return watcher, nil
}

// Add registers path for change notification.
func (w *Watcher) Add(path string) error { return w.w.Add(path) }

// Changes yields the path of each file that was written, created, or
// renamed. Chmod-only events are dropped since they never change a
// source file's compiled meaning.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Errors surfaces fsnotify's own internal errors (e.g. a removed watch
// root).
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.w.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				select {
				case w.changes <- ev.Name:
				default:
				}
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}

			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
