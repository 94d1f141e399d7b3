// level.go: Severity scale and the runtime-adjustable level switch
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// Level represents a logging severity on the fixed six-step scale.
// Levels are ordered: a switch set to LevelWarning admits Warning, Error
// and Fatal events and rejects everything below.
type Level int32

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelFatal
)

// levelNames holds the canonical member names in declaration order.
// Parsing is exact-name based and round-trips: String() output always
// parses back to the same member.
var levelNames = [...]string{
	"Verbose",
	"Debug",
	"Information",
	"Warning",
	"Error",
	"Fatal",
}

// String returns the canonical member name for the level.
func (l Level) String() string {
	if l < LevelVerbose || l > LevelFatal {
		return "Unknown"
	}
	return levelNames[l]
}

// ParseLevel parses a severity member name, matching exactly first and
// case-insensitively second. An unrecognized name fails with a parse error.
func ParseLevel(name string) (Level, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range levelNames {
		if n == trimmed {
			return Level(i), nil
		}
	}
	for i, n := range levelNames {
		if strings.EqualFold(n, trimmed) {
			return Level(i), nil
		}
	}
	return LevelVerbose, errors.New(ErrCodeParse, "unrecognized severity level").
		WithContext("value", name)
}

// LevelSwitch is a mutable holder of the current minimum logging severity.
//
// The stored level is a single atomic word: concurrent readers gating log
// emission are never coordinated with the writer, so updates must be
// visible as all-or-nothing. Notification-driven updates apply with
// last-writer-wins semantics.
type LevelSwitch struct {
	level atomic.Int32

	// Active change-notification subscription, if any. The switch exposes
	// the release capability but never invokes it on its own: the owner of
	// the configuration scope decides when the binding ends.
	cancelMu sync.Mutex
	cancel   CancelFunc
}

// NewLevelSwitch creates a level switch with the given initial minimum level.
func NewLevelSwitch(initial Level) *LevelSwitch {
	sw := &LevelSwitch{}
	sw.level.Store(int32(initial))
	return sw
}

// Level returns the current minimum level.
func (sw *LevelSwitch) Level() Level {
	return Level(sw.level.Load())
}

// SetLevel atomically replaces the minimum level.
func (sw *LevelSwitch) SetLevel(l Level) {
	sw.level.Store(int32(l))
}

// Enabled reports whether an event at level l passes the current threshold.
func (sw *LevelSwitch) Enabled(l Level) bool {
	return l >= sw.Level()
}

// Unsubscribe releases the active change-notification subscription, if any.
// Safe to call multiple times and on an unbound switch.
func (sw *LevelSwitch) Unsubscribe() {
	sw.cancelMu.Lock()
	cancel := sw.cancel
	sw.cancel = nil
	sw.cancelMu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Bound reports whether a change-notification subscription is active.
func (sw *LevelSwitch) Bound() bool {
	sw.cancelMu.Lock()
	defer sw.cancelMu.Unlock()
	return sw.cancel != nil
}

// setSubscription records the release capability for an active subscription.
func (sw *LevelSwitch) setSubscription(cancel CancelFunc) {
	sw.cancelMu.Lock()
	sw.cancel = cancel
	sw.cancelMu.Unlock()
}
