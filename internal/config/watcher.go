// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// debounceWindow coalesces the burst of write events most editors
// produce for a single save.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the config when the file changes on disk and hands
// the fresh config to a callback.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onLoad  func(*Config)
	done    chan struct{}
}

// Watch starts watching the given config file. The callback runs on the
// watcher goroutine for every successful reload; a reload that fails
// validation is logged and skipped, keeping the previous config live.
func Watch(path string, onLoad func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors that replace-on-save
	// (rename over the original) would otherwise drop the watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		path:    path,
		onLoad:  onLoad,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		log.Printf("config reload skipped: %v", err)
		return
	}
	w.onLoad(cfg)
}
