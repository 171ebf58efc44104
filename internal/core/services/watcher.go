package services

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/conversate-labs/conversate/internal/core/domain"
	"github.com/conversate-labs/conversate/internal/core/ports/driving"
	"github.com/conversate-labs/conversate/internal/logger"
)

// Watcher invalidates cached index handles when a domain's documents
// change on disk. The next query then re-runs the freshness check and
// picks up the changes. It never triggers builds itself.
type Watcher struct {
	layout  domain.Layout
	manager driving.IndexManager
	fsw     *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a watcher over the given domains' document
// directories. The directories must exist before watching starts.
func NewWatcher(layout domain.Layout, manager driving.IndexManager, domains []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	for _, dom := range domains {
		if err := fsw.Add(layout.DomainDir(dom)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", layout.DomainDir(dom), err)
		}
	}

	w := &Watcher{
		layout:  layout,
		manager: manager,
		fsw:     fsw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error: %v", err)
		}
	}
}

// handle invalidates the owning domain for document changes. Internal
// bookkeeping files change during imports and builds and are ignored.
// Changes that leave the index fresh are also ignored: a build writes
// a sample document before indexing it, and that write must not drop
// the handle the build is about to produce.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if domain.IsInternalFile(event.Name) {
		return
	}

	dom := filepath.Base(filepath.Dir(event.Name))
	stale, err := needsRebuild(w.layout, dom)
	if err == nil && !stale {
		return
	}

	logger.Debug("document change in %s: %s %s", dom, event.Op, event.Name)
	w.manager.Invalidate(dom)
}

// Close stops watching and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
