package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/san-kum/seqsim/internal/fixture"
)

const DefaultDebounce = 100 * time.Millisecond

// Reload is the result of re-reading the watched fixture. Err is set when
// the file no longer decodes or validates.
type Reload struct {
	Path    string
	Fixture *fixture.Fixture
	Err     error
}

// Watcher reloads a fixture file after it settles. Its directory is watched
// so editors that replace the file by rename are seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	scripts  map[string]bool
	debounce time.Duration
	reloads  chan Reload
	log      *slog.Logger
}

func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fs:       fs,
		path:     abs,
		scripts:  make(map[string]bool),
		debounce: debounce,
		reloads:  make(chan Reload, 1),
		log:      slog.New(slog.DiscardHandler),
	}, nil
}

func (w *Watcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.log = l
	}
}

// AddScripts also reloads when a .tengo file in dir changes.
func (w *Watcher) AddScripts(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fs.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.scripts[abs] = true
	return nil
}

// Reloads is closed when Run returns.
func (w *Watcher) Reloads() <-chan Reload { return w.reloads }

// Run delivers reloads until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.reloads)
	defer w.fs.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			r := w.reload()
			select {
			case w.reloads <- r:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == w.path {
		return true
	}
	return w.scripts[filepath.Dir(name)] && strings.EqualFold(filepath.Ext(name), ".tengo")
}

func (w *Watcher) reload() Reload {
	fx, err := fixture.Load(w.path)
	if err != nil {
		w.log.Warn("reload failed", "file", w.path, "err", err)
		return Reload{Path: w.path, Err: err}
	}
	w.log.Info("reloaded", "file", w.path, "sequence", fx.Data.Name)
	return Reload{Path: w.path, Fixture: fx}
}
