package aliasstore

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Invalidator drops a memoized alias index so the next lookup rebuilds it.
// *entity.IndexProvider satisfies it.
type Invalidator interface {
	Invalidate(domain entity.Domain)
}

// Watcher invalidates per-domain indices when a dictionary file is rewritten.
// It watches the parent directories rather than the files themselves, so
// editors and config-management tools that replace files atomically still
// trigger an event.
type Watcher struct {
	fsw         *fsnotify.Watcher
	invalidator Invalidator
	logger      logging.Logger
	targets     map[string]entity.Domain
}

// NewWatcher registers the parent directory of every dictionary path. Call
// Start to begin dispatching events and Close to release the inotify handle.
func NewWatcher(paths map[entity.Domain]string, inv Invalidator, log logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "creating dictionary watcher")
	}

	w := &Watcher{
		fsw:         fsw,
		invalidator: inv,
		logger:      log,
		targets:     make(map[string]entity.Domain, len(paths)),
	}

	dirs := make(map[string]struct{}, len(paths))
	for domain, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "resolving dictionary path "+path)
		}
		w.targets[abs] = domain
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "watching dictionary directory "+dir)
		}
	}

	return w, nil
}

// Start launches the event loop. It returns immediately; the loop exits when
// Close is called.
func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) run() {
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
			w.logger.Warn("Dictionary watcher error", logging.Err(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	domain, ok := w.targets[abs]
	if !ok {
		return
	}

	w.invalidator.Invalidate(domain)
	w.logger.Info("Alias dictionary changed, index invalidated",
		logging.String("domain", domain.String()),
		logging.String("path", abs),
		logging.String("op", event.Op.String()),
	)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

//Personal.AI order the ending
