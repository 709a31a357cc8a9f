package signatures

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher holds the current Store and swaps in a freshly loaded one when
// the database file changes. Scans take a snapshot with Current, so a
// reload never affects a scan in progress.
type Watcher struct {
	loader  *Loader
	logger  *zap.Logger
	current atomic.Pointer[Store]
	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	onReload func(*Store)
}

// NewWatcher loads the database and starts watching its directory.
// onReload, when set, is called after each swap.
func NewWatcher(loader *Loader, logger *zap.Logger, onReload func(*Store)) (*Watcher, error) {
	w := &Watcher{
		loader:   loader,
		logger:   logger,
		done:     make(chan struct{}),
		onReload: onReload,
	}
	w.current.Store(loader.Load())

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, editors often replace the file rather than write it
	if err := fsw.Add(filepath.Dir(loader.Path())); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", loader.Path(), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Current returns the latest loaded store
func (w *Watcher) Current() *Store {
	return w.current.Load()
}

// Reload loads the database now and swaps it in
func (w *Watcher) Reload() *Store {
	store := w.loader.Load()
	w.current.Store(store)

	hashes, patterns, names := store.Stats()
	w.logger.Info("Signature database reloaded",
		zap.Int("hashes", hashes),
		zap.Int("patterns", patterns),
		zap.Int("names", names),
	)

	if w.onReload != nil {
		w.onReload(store)
	}
	return store
}

// Close stops watching
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.loader.Path())
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.Reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Signature watcher error", zap.Error(err))
		}
	}
}
