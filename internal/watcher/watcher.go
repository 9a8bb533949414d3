// Package watcher watches the emojikit configuration file and reloads
// picker settings when it changes, with debouncing so editor write bursts
// trigger a single reload.
package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadHandler handles a debounced settings-file change.
type ReloadHandler func(path string) error

// SettingsWatcher watches one configuration file for changes.
type SettingsWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	path      string
	handlers  []ReloadHandler
	mutex     sync.RWMutex
}

// Debouncer folds rapid changes into one notification.
type Debouncer struct {
	delay   time.Duration
	events  chan string
	output  chan string
	timer   *time.Timer
	pending string
	mutex   sync.Mutex
}

// NewSettingsWatcher creates a watcher for the config file at path.
func NewSettingsWatcher(path string, debounceDelay time.Duration) (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: creating fs watcher: %w", err)
	}

	sw := &SettingsWatcher{
		watcher: fsWatcher,
		path:    filepath.Clean(path),
		debouncer: &Debouncer{
			delay:  debounceDelay,
			events: make(chan string, 16),
			output: make(chan string, 4),
		},
	}

	// Watch the directory, not the file: editors replace files on save and
	// fsnotify drops watches on replaced inodes.
	if err := fsWatcher.Add(filepath.Dir(sw.path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watcher: watching %q: %w", filepath.Dir(sw.path), err)
	}

	return sw, nil
}

// AddHandler registers a reload handler.
func (sw *SettingsWatcher) AddHandler(handler ReloadHandler) {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	sw.handlers = append(sw.handlers, handler)
}

// Start runs the watch loop until ctx is cancelled.
func (sw *SettingsWatcher) Start(ctx context.Context) {
	go sw.debouncer.start(ctx)
	go sw.processReloads(ctx)
	go sw.watchLoop(ctx)
}

// Stop stops the watcher and releases the pending debounce timer.
func (sw *SettingsWatcher) Stop() error {
	sw.debouncer.mutex.Lock()
	if sw.debouncer.timer != nil {
		sw.debouncer.timer.Stop()
	}
	sw.debouncer.mutex.Unlock()
	return sw.watcher.Close()
}

func (sw *SettingsWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != sw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case sw.debouncer.events <- sw.path:
			default:
				// Channel full, a reload is already pending
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Settings watcher error: %v", err)
		}
	}
}

func (sw *SettingsWatcher) processReloads(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-sw.debouncer.output:
			sw.mutex.RLock()
			handlers := sw.handlers
			sw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(path); err != nil {
					log.Printf("Settings reload handler error: %v", err)
				}
			}
		}
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-d.events:
			d.schedule(path)
		}
	}
}

func (d *Debouncer) schedule(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = path
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.pending == "" {
		return
	}
	select {
	case d.output <- d.pending:
	default:
		// Channel full, skip
	}
	d.pending = ""
}
