package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/texture"
)

// DefaultDebounce coalesces bursts such as a file copy or an editor save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changes to the image files of one directory. Bursts of
// events are collapsed into a single notification on Changed.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *zap.Logger

	changed chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool

	pending   bool
	lastEvent time.Time
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a watcher for dir. Nothing is observed until Start.
func New(dir string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		changed:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changed receives one value per settled burst of changes. Unread
// notifications do not queue up.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching in a background goroutine. It returns immediately;
// calling it again is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watch: start %s: watcher closed", w.dir)
	}
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}
	w.running = true
	w.log.Debug("watching directory", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Close stops the event loop, waits for it to exit and releases the
// underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("watch: close: %w", err)
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.String("dir", w.dir), zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !relevant(event) {
		return
	}
	w.log.Debug("file event",
		zap.String("path", event.Name),
		zap.Stringer("op", event.Op))
	w.pending = true
	w.lastEvent = time.Now()
}

func (w *Watcher) flush(now time.Time) {
	if !w.pending || now.Sub(w.lastEvent) < w.debounce {
		return
	}
	w.pending = false
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if len(base) > 0 && base[0] == '.' {
		return false
	}
	return texture.IsSupportedExt(filepath.Ext(base))
}
