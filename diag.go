// diag.go: Passive diagnostic channel for Proteus
//
// Failures that happen outside any caller's control flow (a notification-
// driven reparse, a watcher callback) cannot propagate as errors: there is
// no caller on that path. They are recorded here instead. The logger
// buffers events and flushes them in the background so the notification
// source is never blocked, and it never raises toward its producers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// DiagnosticLevel represents the severity of diagnostic events.
type DiagnosticLevel int

const (
	DiagInfo DiagnosticLevel = iota
	DiagWarn
	DiagError
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagInfo:
		return "INFO"
	case DiagWarn:
		return "WARN"
	case DiagError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DiagnosticEvent records one resolution or rebind outcome.
type DiagnosticEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     DiagnosticLevel        `json:"level"`
	Event     string                 `json:"event"`
	Component string                 `json:"component"`
	Source    string                 `json:"source,omitempty"`
	RawValue  string                 `json:"raw_value,omitempty"`
	Target    string                 `json:"target,omitempty"`
	Error     string                 `json:"error,omitempty"`
	ProcessID int                    `json:"process_id"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// DiagConfig configures the diagnostic channel.
type DiagConfig struct {
	Enabled       bool            `json:"enabled"`
	OutputFile    string          `json:"output_file"`
	MinLevel      DiagnosticLevel `json:"min_level"`
	BufferSize    int             `json:"buffer_size"`
	FlushInterval time.Duration   `json:"flush_interval"`
}

// DefaultDiagConfig returns a diagnostic configuration using the unified
// SQLite backend. An empty OutputFile selects the system diagnostic
// database; a path ending in .jsonl selects the JSONL backend instead.
func DefaultDiagConfig() DiagConfig {
	return DiagConfig{
		Enabled:       true,
		OutputFile:    "",
		MinLevel:      DiagInfo,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
	}
}

// Validate rejects diagnostic configurations that cannot work.
func (dc *DiagConfig) Validate() error {
	if dc.BufferSize < 0 {
		return errors.New(ErrCodeInvalidDiag, "diagnostic buffer size cannot be negative").
			WithContext("buffer_size", dc.BufferSize)
	}
	if dc.FlushInterval < 0 {
		return errors.New(ErrCodeInvalidDiag, "diagnostic flush interval cannot be negative").
			WithContext("flush_interval", dc.FlushInterval.String())
	}
	if dc.MinLevel < DiagInfo || dc.MinLevel > DiagError {
		return errors.New(ErrCodeInvalidDiag, "unknown diagnostic level").
			WithContext("min_level", int(dc.MinLevel))
	}
	return nil
}

// DiagnosticLogger buffers diagnostic events and persists them through a
// pluggable backend (SQLite unified store or JSONL file).
//
// All Log methods are safe on a nil logger and on a disabled logger: the
// diagnostic channel must never become a failure source of its own.
type DiagnosticLogger struct {
	config      DiagConfig
	backend     diagBackend
	buffer      []DiagnosticEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	closeOnce   sync.Once
	processID   int
}

// NewDiagnosticLogger creates a diagnostic logger with automatic backend
// selection. A disabled configuration yields a logger whose Log methods are
// no-ops but whose Flush and Close remain safe to call.
func NewDiagnosticLogger(config DiagConfig) (*DiagnosticLogger, error) {
	logger := &DiagnosticLogger{
		config:    config,
		stopCh:    make(chan struct{}),
		processID: os.Getpid(),
	}
	if !config.Enabled {
		return logger, nil
	}

	backend, err := newDiagBackend(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize diagnostic backend: %w", err)
	}
	logger.backend = backend
	logger.buffer = make([]DiagnosticEvent, 0, config.BufferSize)

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}
	return logger, nil
}

// Log records a diagnostic event.
func (dl *DiagnosticLogger) Log(level DiagnosticLevel, event, component string, detail DiagnosticEvent) {
	if dl == nil || dl.backend == nil || !dl.config.Enabled || level < dl.config.MinLevel {
		return
	}

	detail.Timestamp = timecache.CachedTime()
	detail.Level = level
	detail.Event = event
	detail.Component = component
	detail.ProcessID = dl.processID

	dl.bufferMu.Lock()
	dl.buffer = append(dl.buffer, detail)
	if len(dl.buffer) >= dl.config.BufferSize {
		_ = dl.flushBufferUnsafe() // Flush errors on this path stay passive
	}
	dl.bufferMu.Unlock()
}

// LogRebindFailure records a failed notification-driven reparse. The prior
// value of the bound target is retained by the caller; this is the only
// trace the failure leaves.
func (dl *DiagnosticLogger) LogRebindFailure(source, raw string, err error) {
	detail := DiagnosticEvent{Source: source, RawValue: raw, Target: "LevelSwitch"}
	if err != nil {
		detail.Error = err.Error()
	}
	dl.Log(DiagWarn, "rebind_failed", "proteus", detail)
}

// LogRebind records a successful notification-driven level update.
func (dl *DiagnosticLogger) LogRebind(source string, old, updated Level) {
	dl.Log(DiagInfo, "rebind_applied", "proteus", DiagnosticEvent{
		Source: source,
		Target: "LevelSwitch",
		Context: map[string]interface{}{
			"old_level": old.String(),
			"new_level": updated.String(),
		},
	})
}

// LogSourceEvent records watcher and source lifecycle events.
func (dl *DiagnosticLogger) LogSourceEvent(event, source string) {
	dl.Log(DiagInfo, event, "proteus", DiagnosticEvent{Source: source})
}

// LogCallbackPanic records a panic recovered at a notification boundary.
func (dl *DiagnosticLogger) LogCallbackPanic(source string, recovered interface{}) {
	dl.Log(DiagError, "callback_panic", "proteus", DiagnosticEvent{
		Source: source,
		Error:  fmt.Sprintf("%v", recovered),
	})
}

// Flush immediately writes all buffered events.
func (dl *DiagnosticLogger) Flush() error {
	if dl == nil || dl.backend == nil {
		return nil
	}
	dl.bufferMu.Lock()
	defer dl.bufferMu.Unlock()
	return dl.flushBufferUnsafe()
}

// Close flushes remaining events and releases the backend.
func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	var err error
	dl.closeOnce.Do(func() {
		close(dl.stopCh)
		if dl.flushTicker != nil {
			dl.flushTicker.Stop()
		}
		if ferr := dl.Flush(); ferr != nil {
			err = fmt.Errorf("failed to flush diagnostics during close: %w", ferr)
			return
		}
		if dl.backend != nil {
			if cerr := dl.backend.Close(); cerr != nil {
				err = fmt.Errorf("failed to close diagnostic backend: %w", cerr)
			}
		}
	})
	return err
}

// flushLoop runs the background flush process.
func (dl *DiagnosticLogger) flushLoop() {
	for {
		select {
		case <-dl.flushTicker.C:
			_ = dl.Flush() // Background flush errors stay passive
		case <-dl.stopCh:
			return
		}
	}
}

// flushBufferUnsafe writes the buffer to the backend. Caller holds bufferMu.
func (dl *DiagnosticLogger) flushBufferUnsafe() error {
	if len(dl.buffer) == 0 {
		return nil
	}
	if err := dl.backend.Write(dl.buffer); err != nil {
		return fmt.Errorf("failed to write diagnostic events: %w", err)
	}
	dl.buffer = dl.buffer[:0]
	return nil
}
