package simconfig

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/model"
)

// debounceWindow coalesces the burst of write events most editors and
// docker bind-mounts generate for a single save, matching the teacher's
// internal/ingest/watcher.go debounce pattern.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads a YAML config file on change and hands each successful
// reload to OnReload. Reload errors are logged and the previous
// configuration is kept — a bad edit never crashes a running simulation.
type Watcher struct {
	path     string
	log      zerolog.Logger
	OnReload func(*model.SystemConfig)

	mu    sync.Mutex
	timer *time.Timer
	fsw   *fsnotify.Watcher
	done  chan struct{}
}

// NewWatcher constructs a Watcher for path. Call Start to begin watching.
func NewWatcher(path string, log zerolog.Logger) *Watcher {
	return &Watcher{path: path, log: log.With().Str("component", "simconfig-watcher").Logger()}
}

// Start begins watching the config file itself for changes. The watch is on
// the file path, not its directory, so a save that replaces the file by
// rename is not observed.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})
	if err := fsw.Add(w.path); err != nil {
		_ = fsw.Close()
		return err
	}
	go w.loop()
	return nil
}

// Stop stops watching and releases the underlying inotify/kqueue handle.
func (w *Watcher) Stop() {
	if w.fsw != nil {
		close(w.done)
		_ = w.fsw.Close()
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous configuration")
		return
	}
	w.log.Info().Str("path", w.path).Msg("config reloaded")
	if w.OnReload != nil {
		w.OnReload(cfg)
	}
}
