package pipeline

import (
	"context"
	"path/filepath"
	"sync"

	"cordex/internal/errors"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Invalidator drops cached state for a path
type Invalidator interface {
	Invalidate(path string)
}

// Watcher invalidates the cache when the source file is written, created, removed or renamed.
// It watches the parent directory so editors that replace the file are seen too.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	target  Invalidator
	path    string
	logger  *zap.Logger
	events  chan fsnotify.Event
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for path that invalidates target
func NewWatcher(path string, target Invalidator, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve watch path")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	return &Watcher{
		watcher: w,
		target:  target,
		path:    abs,
		logger:  logger.Named("watcher"),
		doneCh:  make(chan struct{}),
	}, nil
}

// Events returns a channel that receives every event that caused an invalidation.
// It must be requested before Start.
func (w *Watcher) Events() <-chan fsnotify.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.events == nil {
		w.events = make(chan fsnotify.Event, 16)
	}
	return w.events
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	w.running = true
	w.logger.Info("watching data file", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Close stops the watcher and waits for its goroutine
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		<-w.doneCh
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("data file changed", zap.String("op", event.Op.String()))
	w.target.Invalidate(w.path)

	w.mu.Lock()
	events := w.events
	w.mu.Unlock()
	if events != nil {
		select {
		case events <- event:
		default:
		}
	}
}
