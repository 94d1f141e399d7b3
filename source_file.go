// source_file.go: File-backed configuration source with live reload
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-errors"
)

// FileSource reads one setting, addressed by a dot-separated key, from a
// configuration file. The parsed value is cached and refreshed only on
// change notification, so repeated Value calls never touch the disk.
//
// When the file disappears the last successfully read value is retained.
// A vanished file during live operation is usually a transient editor
// rename, not a request to drop configuration.
type FileSource struct {
	path   string
	key    string
	format ConfigFormat

	pollInterval time.Duration
	cacheTTL     time.Duration
	diag         *DiagnosticLogger

	value  atomic.Value // string
	loaded atomic.Bool

	watchMu   sync.Mutex
	w         *watcher
	subs      int
	callbacks []func()
}

// NewFileSource creates a file source for the given path and dot-key.
// The format is detected from the file extension.
func NewFileSource(path, key string) *FileSource {
	return &FileSource{
		path:         path,
		key:          key,
		format:       DetectFormat(path),
		pollInterval: 250 * time.Millisecond,
		cacheTTL:     125 * time.Millisecond,
	}
}

// SourceName identifies this source in diagnostic events.
func (f *FileSource) SourceName() string {
	return f.path + "#" + f.key
}

// Value returns the current raw value for the key, or "" when the file
// cannot be read or the key is absent.
func (f *FileSource) Value() string {
	if !f.loaded.Load() {
		f.reload()
	}
	if v, ok := f.value.Load().(string); ok {
		return v
	}
	return ""
}

// Reload forces a fresh read from disk.
func (f *FileSource) Reload() error {
	return f.reload()
}

func (f *FileSource) reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.loaded.Store(true)
		return errors.Wrap(err, ErrCodeIOError, "failed to read configuration file").
			WithContext("path", f.path)
	}
	config, err := ParseConfig(data, f.format)
	if err != nil {
		f.loaded.Store(true)
		return err
	}
	raw, ok := lookupDotKey(config, f.key)
	if !ok {
		f.value.Store("")
	} else {
		f.value.Store(valueToString(raw))
	}
	f.loaded.Store(true)
	return nil
}

// Subscribe starts watching the file and invokes callback after each
// change has been folded into the cached value. Reload failures on the
// notification path go to the diagnostic channel; the previous value
// stays in effect.
func (f *FileSource) Subscribe(callback func()) (CancelFunc, error) {
	f.watchMu.Lock()
	defer f.watchMu.Unlock()

	if f.w == nil {
		f.w = newWatcher(f.pollInterval, f.cacheTTL, f.diag)
		if err := f.w.Watch(f.path, f.onChange); err != nil {
			f.w = nil
			return nil, err
		}
		if err := f.w.Start(); err != nil {
			f.w = nil
			return nil, err
		}
	}
	f.subs++
	f.callbacks = append(f.callbacks, callback)
	idx := len(f.callbacks) - 1

	var once sync.Once
	return func() {
		once.Do(func() {
			// Detach state under the lock, but stop the watcher only after
			// releasing it. Stop waits for the poll loop, and the poll loop
			// takes watchMu in onChange to snapshot callbacks; stopping
			// while holding the lock would deadlock both sides.
			f.watchMu.Lock()
			var w *watcher
			if idx < len(f.callbacks) {
				f.callbacks[idx] = nil
			}
			if f.subs > 0 {
				f.subs--
				if f.subs == 0 {
					w = f.w
					f.w = nil
					f.callbacks = nil
				}
			}
			f.watchMu.Unlock()
			if w != nil {
				_ = w.Stop()
			}
		})
	}, nil
}

func (f *FileSource) onChange(event ChangeEvent) {
	if event.IsDelete {
		// Retain the last value; just record the event.
		f.diag.LogSourceEvent("file_deleted", f.path)
		return
	}
	if err := f.reload(); err != nil {
		f.diag.Log(DiagWarn, "reload_failed", "file_source", DiagnosticEvent{
			Source: f.path,
			Error:  err.Error(),
		})
		return
	}
	f.watchMu.Lock()
	callbacks := make([]func(), 0, len(f.callbacks))
	for _, cb := range f.callbacks {
		if cb != nil {
			callbacks = append(callbacks, cb)
		}
	}
	f.watchMu.Unlock()
	for _, cb := range callbacks {
		cb()
	}
}

// Close stops the watcher regardless of outstanding subscriptions.
// Like subscription cancellation, it must not hold watchMu across Stop.
func (f *FileSource) Close() error {
	f.watchMu.Lock()
	f.subs = 0
	f.callbacks = nil
	w := f.w
	f.w = nil
	f.watchMu.Unlock()
	if w != nil {
		return w.Stop()
	}
	return nil
}

// lookupDotKey walks nested maps along a dot-separated key. Flat parsers
// store dotted keys directly, so the literal key is tried first.
func lookupDotKey(config map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := config[key]; ok {
		if _, nested := v.(map[string]interface{}); !nested {
			return v, true
		}
	}
	var current interface{} = config
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if _, nested := current.(map[string]interface{}); nested {
		return nil, false
	}
	return current, true
}

// valueToString renders a parsed scalar back to its textual form.
func valueToString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}
