// Package watcher turns file system events on lint inputs into debounced change batches.
package watcher

import (
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"tokenlint/internal/shared/observability"
)

// DefaultIgnore matches editor swap and backup files.
var DefaultIgnore = []string{"*.swp", "*.swx", "*~", ".#*", "*.tmp", ".tokenlint-*"}

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	ignore    []glob.Glob
	onChange  func([]string)

	callbackMu sync.Mutex

	// files are watched individually; dirs accept any non-ignored file below them.
	files map[string]bool
	dirs  map[string]bool

	hashes    map[string][sha256.Size]byte
	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(debounce time.Duration, ignore []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	compiled := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		ignore:    compiled,
		onChange:  onChange,
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		hashes:    make(map[string][sha256.Size]byte),
		pending:   make(map[string]time.Time),
	}, nil
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// Watch starts watching the given files and directories. Files are watched through their parent
// directory so atomic replace-by-rename saves are still seen.
func (w *Watcher) Watch(paths []string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.watchRecursive(abs); err != nil {
				return err
			}
			continue
		}
		w.files[abs] = true
		w.seedHash(abs)
		if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			w.dirs[path] = true
			return w.fsWatcher.Add(path)
		}
		if w.tracked(path) {
			w.seedHash(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			name := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create == fsnotify.Create && w.underWatchedDir(name) {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if err := w.watchRecursive(name); err != nil {
						slog.Warn("failed to watch new directory", "path", name, "error", err)
					}
					continue
				}
			}

			if !w.tracked(name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleChange(name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		if w.contentChanged(path) {
			paths = append(paths, path)
		}
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		sort.Strings(paths)
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

// contentChanged updates the stored hash. Caller holds pendingMu.
func (w *Watcher) contentChanged(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		_, known := w.hashes[path]
		delete(w.hashes, path)
		return known || os.IsNotExist(err)
	}
	sum := sha256.Sum256(data)
	if prev, ok := w.hashes[path]; ok && prev == sum {
		return false
	}
	w.hashes[path] = sum
	return true
}

func (w *Watcher) seedHash(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	w.pendingMu.Lock()
	w.hashes[path] = sha256.Sum256(data)
	w.pendingMu.Unlock()
}

func (w *Watcher) tracked(path string) bool {
	if w.files[path] {
		return true
	}
	if w.ignored(path) {
		return false
	}
	return w.underWatchedDir(path)
}

func (w *Watcher) underWatchedDir(path string) bool {
	return w.dirs[filepath.Dir(path)]
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.ignore {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
