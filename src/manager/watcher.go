// Package manager provides chain assembly, configuration, and lifecycle
// management for the Event Chain SDK.
package manager

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/GopherSecurity/eventchain/src/core"
)

// ConfigWatcher watches a chain config file and hot-swaps the registry's
// chains when the file changes. Reloads are debounced so editors that
// write in several bursts trigger one rebuild. An invalid rewrite is
// logged and skipped; the last good configuration stays live.
type ConfigWatcher struct {
	path        string
	registry    *Registry
	onDisregard core.DisregardFunc
	debounce    time.Duration
	logger      *log.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewConfigWatcher creates a watcher for the given config path. Rebuilt
// chains are bound to onDisregard (nil installs a no-op callback on each
// chain).
func NewConfigWatcher(path string, registry *Registry, onDisregard core.DisregardFunc) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &ConfigWatcher{
		path:        path,
		registry:    registry,
		onDisregard: onDisregard,
		debounce:    100 * time.Millisecond,
		logger:      log.Default(),
		watcher:     watcher,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetLogger redirects the watcher's output, primarily for tests.
func (cw *ConfigWatcher) SetLogger(logger *log.Logger) {
	if logger != nil {
		cw.logger = logger
	}
}

// Load reads the config file once and installs its chains. Call before
// Start to get an initial configuration without waiting for a change.
func (cw *ConfigWatcher) Load() error {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		return err
	}
	chains, err := cfg.BuildChains(cw.registry, cw.onDisregard)
	if err != nil {
		return err
	}
	cw.registry.ReplaceChains(chains)
	return nil
}

// Start begins watching in a background goroutine until the context is
// cancelled or Stop is called.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return fmt.Errorf("config watcher already running")
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(cw.path); err != nil {
		cw.mu.Lock()
		cw.running = false
		cw.mu.Unlock()
		return fmt.Errorf("watch %s: %w", cw.path, err)
	}

	go cw.loop(ctx)
	return nil
}

// Stop halts the watcher and waits for the loop to exit. Stopping a
// watcher whose loop never ran still closes the underlying fsnotify
// watcher, so no descriptor leaks.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return cw.watcher.Close()
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh
	return cw.watcher.Close()
}

// loop processes fsnotify events, debouncing rewrites into reloads.
func (cw *ConfigWatcher) loop(ctx context.Context) {
	defer close(cw.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(cw.debounce)
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			cw.reload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Printf("config watcher: %v", err)
		}
	}
}

// reload rebuilds the chains from the file, keeping the previous set on
// any failure.
func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.logger.Printf("config reload skipped: %v", err)
		return
	}
	chains, err := cfg.BuildChains(cw.registry, cw.onDisregard)
	if err != nil {
		cw.logger.Printf("config reload skipped: %v", err)
		return
	}

	cw.registry.ReplaceChains(chains)
	cw.logger.Printf("config reloaded: %d chains from %s", len(chains), cw.path)
}
