// Package watch is the event translator: it turns a raw fsnotify event
// stream into the canonical Item enqueues the dispatcher fans out, relying
// on fsnotify's own recursive-watch support to keep subdirectory watches
// current as the tree changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/logging"
)

// Translator watches a single source tree and emits Items on Items().
// translate is called once per event and yields zero or one Item;
// translation never itself does I/O beyond the os.Lstat needed to classify
// create targets as file or directory.
type Translator struct {
	root string
	w    *fsnotify.Watcher
	out  chan item.Item
}

// New creates a Translator rooted at root. The caller must call Start to
// register the recursive watch before reading Items().
func New(root string) (*Translator, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	return &Translator{root: root, w: w, out: make(chan item.Item, 1024)}, nil
}

// Items returns the channel of translated items. Closed when Run returns.
func (t *Translator) Items() <-chan item.Item { return t.out }

// Start registers the recursive watch on the source root. Returns once the
// initial watch tree is fully registered, satisfying the startup barrier
// the supervisor waits on before releasing workers.
func (t *Translator) Start() error {
	if err := t.w.AddWith(t.root + "/..."); err != nil {
		return fmt.Errorf("watch: add recursive watch on %s: %w", t.root, err)
	}
	return nil
}

// Run consumes fsnotify events until ctx is cancelled or the watcher's
// Events channel closes, translating each into zero or one Item. Symlinks
// are never followed; only directories are eligible for the recursive
// create/moved-to treatment.
func (t *Translator) Run(ctx context.Context) error {
	defer close(t.out)
	log := logging.GetLogger(ctx)
	for {
		select {
		case <-ctx.Done():
			return t.w.Close()
		case ev, ok := <-t.w.Events:
			if !ok {
				return nil
			}
			it, ok := translate(ev)
			if !ok {
				continue
			}
			select {
			case t.out <- it:
			case <-ctx.Done():
				return t.w.Close()
			}
		case err, ok := <-t.w.Errors:
			if !ok {
				continue
			}
			logging.WithError(log, err, "watch error")
		}
	}
}

// translate maps one fsnotify event to zero or one Item, per the
// event-kind table: Create (which fsnotify also raises for the
// moved-to side of a rename) enqueues the new directory itself
// recursively when it targets a directory; a Create of a file, and every
// other op — Write, Remove, Rename (move-from/move-self) and Chmod —
// collapses uniformly to "enqueue the event's parent directory
// non-recursively".
func translate(ev fsnotify.Event) (item.Item, bool) {
	if ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
		return item.New(ev.Name, true), true
	}
	return item.New(filepath.Dir(ev.Name), false), true
}

func isDir(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return false
	}
	return fi.IsDir()
}
