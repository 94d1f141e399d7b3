// watcher.go: Polling file watcher backing watchable configuration sources
//
// Change detection is stat-based polling rather than OS notification APIs.
// Polling is boring but identical on every platform, survives editors that
// replace files instead of writing them, and is cheap at the intervals a
// configuration workload needs.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// ChangeEvent describes one observed file change.
type ChangeEvent struct {
	Path     string
	ModTime  time.Time
	Size     int64
	IsCreate bool
	IsDelete bool
	IsModify bool
}

// ChangeCallback is invoked for each detected change. Panics inside a
// callback are recovered and routed to the diagnostic channel; they never
// stop the polling loop.
type ChangeCallback func(event ChangeEvent)

type fileStat struct {
	modTime  time.Time
	size     int64
	exists   bool
	cachedAt time.Time
}

func (fs *fileStat) isExpired(ttl time.Duration) bool {
	return timecache.CachedTime().Sub(fs.cachedAt) > ttl
}

type watchedFile struct {
	path     string
	callback ChangeCallback
	lastStat fileStat
}

// watcher polls registered files and dispatches change events.
type watcher struct {
	pollInterval time.Duration
	cacheTTL     time.Duration
	diag         *DiagnosticLogger

	filesMu sync.RWMutex
	files   map[string]*watchedFile

	cacheMu sync.RWMutex
	cache   map[string]fileStat

	running   atomic.Bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func newWatcher(pollInterval, cacheTTL time.Duration, diag *DiagnosticLogger) *watcher {
	return &watcher{
		pollInterval: pollInterval,
		cacheTTL:     cacheTTL,
		diag:         diag,
		files:        make(map[string]*watchedFile),
		cache:        make(map[string]fileStat),
		stopCh:       make(chan struct{}),
		stoppedCh:    make(chan struct{}),
	}
}

// Watch registers a file for change notification.
func (w *watcher) Watch(path string, callback ChangeCallback) error {
	if callback == nil {
		return errors.New(ErrCodeInvalidConfig, "watch callback cannot be nil").
			WithContext("path", path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to resolve watch path").
			WithContext("path", path)
	}

	wf := &watchedFile{path: absPath, callback: callback}
	if stat, statErr := w.getStat(absPath); statErr == nil {
		wf.lastStat = stat
	}

	w.filesMu.Lock()
	w.files[absPath] = wf
	w.filesMu.Unlock()
	return nil
}

// Unwatch removes a file from the watch set.
func (w *watcher) Unwatch(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.filesMu.Lock()
	delete(w.files, absPath)
	w.filesMu.Unlock()

	w.cacheMu.Lock()
	delete(w.cache, absPath)
	w.cacheMu.Unlock()
}

// Start launches the polling loop. Starting twice is an error.
func (w *watcher) Start() error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New(ErrCodeWatcherBusy, "watcher is already running")
	}
	go w.pollLoop()
	return nil
}

// Stop halts the polling loop and waits for it to drain.
func (w *watcher) Stop() error {
	if !w.running.CompareAndSwap(true, false) {
		return errors.New(ErrCodeWatcherStopped, "watcher is not running")
	}
	close(w.stopCh)
	<-w.stoppedCh
	return nil
}

// IsRunning reports whether the polling loop is active.
func (w *watcher) IsRunning() bool {
	return w.running.Load()
}

func (w *watcher) pollLoop() {
	defer close(w.stoppedCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.pollFiles()
		}
	}
}

func (w *watcher) pollFiles() {
	w.filesMu.RLock()
	files := make([]*watchedFile, 0, len(w.files))
	for _, wf := range w.files {
		files = append(files, wf)
	}
	w.filesMu.RUnlock()

	for _, wf := range files {
		w.checkFile(wf)
	}
}

func (w *watcher) checkFile(wf *watchedFile) {
	currentStat, err := w.getStat(wf.path)
	if err != nil {
		if os.IsNotExist(err) {
			if wf.lastStat.exists {
				w.dispatch(wf, ChangeEvent{Path: wf.path, IsDelete: true})
				wf.lastStat.exists = false
			}
			return
		}
		w.diag.Log(DiagWarn, "watch_stat_failed", "watcher", DiagnosticEvent{
			Source: wf.path,
			Error:  err.Error(),
		})
		return
	}

	switch {
	case !wf.lastStat.exists:
		w.dispatch(wf, ChangeEvent{
			Path:     wf.path,
			ModTime:  currentStat.modTime,
			Size:     currentStat.size,
			IsCreate: true,
		})
	case currentStat.modTime != wf.lastStat.modTime || currentStat.size != wf.lastStat.size:
		w.dispatch(wf, ChangeEvent{
			Path:     wf.path,
			ModTime:  currentStat.modTime,
			Size:     currentStat.size,
			IsModify: true,
		})
	}
	wf.lastStat = currentStat
}

func (w *watcher) dispatch(wf *watchedFile, event ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			w.diag.LogCallbackPanic(wf.path, r)
		}
	}()
	wf.callback(event)
}

// getStat returns file metadata, reusing a cached stat when it is younger
// than the cache TTL. The cache bounds syscall volume when many sources
// share the same underlying file.
func (w *watcher) getStat(path string) (fileStat, error) {
	w.cacheMu.RLock()
	cached, ok := w.cache[path]
	w.cacheMu.RUnlock()
	if ok && !cached.isExpired(w.cacheTTL) {
		if !cached.exists {
			return fileStat{}, os.ErrNotExist
		}
		return cached, nil
	}

	info, err := os.Stat(path)
	now := timecache.CachedTime()
	if err != nil {
		if os.IsNotExist(err) {
			w.cacheMu.Lock()
			w.cache[path] = fileStat{exists: false, cachedAt: now}
			w.cacheMu.Unlock()
		}
		return fileStat{}, err
	}

	stat := fileStat{
		modTime:  info.ModTime(),
		size:     info.Size(),
		exists:   true,
		cachedAt: now,
	}
	w.cacheMu.Lock()
	w.cache[path] = stat
	w.cacheMu.Unlock()
	return stat, nil
}
