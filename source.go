// source.go: Raw value source contracts and basic implementations
//
// A Source is the capability pair the configuration reader hands to the
// engine: produce the current textual value, and optionally deliver change
// notifications. The engine never owns a source's lifecycle; it holds the
// reference only for the duration of a binding.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"strings"

	flashflags "github.com/agilira/flash-flags"
)

// Source produces the current raw textual value for one configuration
// setting. Value must be side-effect-free and idempotent within a single
// resolution.
type Source interface {
	Value() string
}

// CancelFunc releases a change-notification subscription.
type CancelFunc func()

// WatchableSource is a Source that can additionally signal that its
// underlying value may have changed. Callbacks may fire on arbitrary
// goroutines and must not be blocked by subscribers.
//
// Subscribe may return a nil CancelFunc together with a nil error when the
// source turns out to have nothing to watch; consumers treat that as "no
// notification capability" rather than a failure.
type WatchableSource interface {
	Source
	Subscribe(callback func()) (CancelFunc, error)
}

// StaticSource is a fixed raw value.
type StaticSource string

// Value returns the static value.
func (s StaticSource) Value() string { return string(s) }

// FuncSource adapts a plain function into a Source.
type FuncSource func() string

// Value invokes the function.
func (f FuncSource) Value() string { return f() }

// FlagSource produces the current value of a flash-flags flag, so
// command-line arguments participate in resolution like any other source.
type FlagSource struct {
	flags *flashflags.FlagSet
	name  string
}

// NewFlagSource creates a source reading the named flag from fs.
func NewFlagSource(fs *flashflags.FlagSet, name string) *FlagSource {
	return &FlagSource{flags: fs, name: name}
}

// Value returns the flag's current string value.
func (fs *FlagSource) Value() string {
	if fs.flags == nil {
		return ""
	}
	return fs.flags.GetString(fs.name)
}

// MultiSource combines sources with fixed precedence: the first source
// producing a non-blank value wins. Typical layering is flags over
// environment over file over default.
type MultiSource struct {
	sources []Source
}

// NewMultiSource creates a precedence chain over the given sources.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Value returns the first non-blank value in precedence order, or "" when
// every source is blank.
func (ms *MultiSource) Value() string {
	for _, src := range ms.sources {
		if src == nil {
			continue
		}
		if v := src.Value(); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Subscribe registers the callback with every watchable member. A change
// anywhere in the chain may change the effective value, so all members are
// watched. Returns (nil, nil) when no member is watchable.
func (ms *MultiSource) Subscribe(callback func()) (CancelFunc, error) {
	var cancels []CancelFunc
	for _, src := range ms.sources {
		ws, ok := src.(WatchableSource)
		if !ok {
			continue
		}
		cancel, err := ws.Subscribe(callback)
		if err != nil {
			for _, c := range cancels {
				c()
			}
			return nil, err
		}
		if cancel != nil {
			cancels = append(cancels, cancel)
		}
	}
	if len(cancels) == 0 {
		return nil, nil
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}, nil
}
