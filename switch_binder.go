// switch_binder.go: Live binding for the mutable severity threshold
//
// The binder is the one place in the engine with an asynchronous path.
// Binding itself is synchronous and its failures propagate normally, but
// once a subscription is installed, reparse failures have no caller to
// return to. Those go to the diagnostic channel and the previous level
// stays in effect.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
)

// BindLevelSwitch parses the source's current value as a severity level,
// wraps it in a LevelSwitch, and, when the source can deliver change
// notifications, keeps the switch synchronized with the source for the
// life of the subscription.
//
// An unparsable initial value fails the bind. A source without
// notification capability yields a working but unbound switch.
func (r *Resolver) BindLevelSwitch(source Source) (*LevelSwitch, error) {
	var raw string
	if source != nil {
		raw = source.Value()
	}
	expanded := ExpandEnv(raw, r.config.LookupEnv)
	return r.bindLevelSwitch(source, strings.TrimSpace(expanded))
}

func (r *Resolver) bindLevelSwitch(source Source, initial string) (*LevelSwitch, error) {
	level, err := ParseLevel(initial)
	if err != nil {
		// A bad initial value is a bind failure, not a mere parse miss.
		return nil, errors.Wrap(err, ErrCodeResolution, "level switch bind failed").
			WithContext("value", initial)
	}
	sw := NewLevelSwitch(level)

	ws, ok := source.(WatchableSource)
	if !ok {
		return sw, nil
	}
	cancel, err := ws.Subscribe(func() {
		r.rebindLevel(source, sw)
	})
	if err != nil {
		// Subscription failure at bind time is still synchronous and
		// belongs to the caller.
		return nil, err
	}
	if cancel == nil {
		return sw, nil
	}
	sw.setSubscription(cancel)
	return sw, nil
}

// rebindLevel is the notification-driven reparse. It never raises: every
// failure lands in the diagnostic channel, and the switch keeps its prior
// level on any failure.
func (r *Resolver) rebindLevel(source Source, sw *LevelSwitch) {
	name := sourceName(source)
	defer func() {
		if rec := recover(); rec != nil {
			r.diag.LogCallbackPanic(name, rec)
		}
	}()

	raw := ExpandEnv(source.Value(), r.config.LookupEnv)
	level, err := ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		r.diag.LogRebindFailure(name, raw, err)
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(err, name)
		}
		return
	}

	old := sw.Level()
	if old == level {
		return
	}
	sw.SetLevel(level)
	r.diag.LogRebind(name, old, level)
}

// sourceName derives a stable identifier for diagnostic events.
func sourceName(source Source) string {
	type named interface{ SourceName() string }
	if n, ok := source.(named); ok {
		return n.SourceName()
	}
	return fmt.Sprintf("%T", source)
}
