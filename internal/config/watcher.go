package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/warpdl/warphud/pkg/logger"
)

// debounce absorbs the burst of events editors produce for one save.
const debounce = 100 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk and hands
// each valid result to a callback. Invalid edits are logged and the last
// good config stays in effect.
type Watcher struct {
	fs       afero.Fs
	dir      string
	log      logger.Logger
	onReload func(*Config)

	w    *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWatcher watches dir, which is created if missing. The directory is
// watched rather than the file so that creates and atomic renames are seen.
func NewWatcher(fs afero.Fs, dir string, l logger.Logger, onReload func(*Config)) (*Watcher, error) {
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting config watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	cw := &Watcher{
		fs:       fs,
		dir:      dir,
		log:      l,
		onReload: onReload,
		w:        w,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

func (cw *Watcher) loop() {
	defer close(cw.done)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	target := filepath.Clean(Path(cw.dir))
	for {
		select {
		case <-cw.stop:
			timer.Stop()
			return
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			cw.reload()
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.log.Warning("config: watcher: %v", err)
		}
	}
}

func (cw *Watcher) reload() {
	cfg, err := Load(cw.fs, cw.dir)
	if err != nil {
		cw.log.Warning("config: keeping previous config: %v", err)
		return
	}
	cw.log.Info("config: reloaded %s", Path(cw.dir))
	cw.onReload(cfg)
}

func (cw *Watcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.stop)
		err = cw.w.Close()
		<-cw.done
	})
	return err
}
