// binder.go - Fluent typed binding over resolution sources
//
// The binder gives application setup code a declarative surface: point a
// set of typed variables at their sources, then Apply once. Each binding
// runs through the full resolution engine, so environment expansion,
// registered converters and the level scale all participate.
//
// Targets are stored as unsafe.Pointer with a compile-time kind tag. The
// public API is fully type-safe; the pointer is only ever dereferenced at
// the kind recorded when it was created.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/agilira/go-errors"
)

// bindKind discriminates the target type of a binding.
type bindKind uint8

const (
	bindString bindKind = iota
	bindInt
	bindInt64
	bindBool
	bindFloat64
	bindDuration
	bindLevel
	bindLevelSwitch
)

type binding struct {
	target   unsafe.Pointer
	source   Source
	defValue string
	kind     bindKind
}

// Binder accumulates typed bindings and applies them in one pass.
type Binder struct {
	resolver *Resolver
	bindings []binding
	err      error
}

// Bind starts a fluent binding session on the resolver.
func (r *Resolver) Bind() *Binder {
	return &Binder{
		resolver: r,
		bindings: make([]binding, 0, 16),
	}
}

func (b *Binder) add(target unsafe.Pointer, source Source, defValue string, kind bindKind) *Binder {
	if b.err != nil {
		return b
	}
	if source == nil {
		b.err = errors.New(ErrCodeInvalidConfig, "binding source cannot be nil")
		return b
	}
	b.bindings = append(b.bindings, binding{
		target:   target,
		source:   source,
		defValue: defValue,
		kind:     kind,
	})
	return b
}

// String binds a string variable to a source with an optional default.
func (b *Binder) String(target *string, source Source, defaultValue ...string) *Binder {
	def := ""
	if len(defaultValue) > 0 {
		def = defaultValue[0]
	}
	return b.add(unsafe.Pointer(target), source, def, bindString) // #nosec G103
}

// Int binds an int variable to a source.
func (b *Binder) Int(target *int, source Source, defaultValue ...int) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.Itoa(defaultValue[0])
	}
	return b.add(unsafe.Pointer(target), source, def, bindInt) // #nosec G103
}

// Int64 binds an int64 variable to a source.
func (b *Binder) Int64(target *int64, source Source, defaultValue ...int64) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.FormatInt(defaultValue[0], 10)
	}
	return b.add(unsafe.Pointer(target), source, def, bindInt64) // #nosec G103
}

// Bool binds a bool variable to a source.
func (b *Binder) Bool(target *bool, source Source, defaultValue ...bool) *Binder {
	def := "false"
	if len(defaultValue) > 0 {
		def = strconv.FormatBool(defaultValue[0])
	}
	return b.add(unsafe.Pointer(target), source, def, bindBool) // #nosec G103
}

// Float64 binds a float64 variable to a source.
func (b *Binder) Float64(target *float64, source Source, defaultValue ...float64) *Binder {
	def := "0"
	if len(defaultValue) > 0 {
		def = strconv.FormatFloat(defaultValue[0], 'g', -1, 64)
	}
	return b.add(unsafe.Pointer(target), source, def, bindFloat64) // #nosec G103
}

// Duration binds a time.Duration variable to a source.
func (b *Binder) Duration(target *time.Duration, source Source, defaultValue ...time.Duration) *Binder {
	def := "0s"
	if len(defaultValue) > 0 {
		def = defaultValue[0].String()
	}
	return b.add(unsafe.Pointer(target), source, def, bindDuration) // #nosec G103
}

// Level binds a severity level variable to a source.
func (b *Binder) Level(target *Level, source Source, defaultValue ...Level) *Binder {
	def := LevelInformation.String()
	if len(defaultValue) > 0 {
		def = defaultValue[0].String()
	}
	return b.add(unsafe.Pointer(target), source, def, bindLevel) // #nosec G103
}

// LevelSwitch binds a live severity switch to a source. When the source is
// watchable, the switch keeps tracking the source after Apply returns.
func (b *Binder) LevelSwitch(target **LevelSwitch, source Source, defaultValue ...Level) *Binder {
	def := LevelInformation.String()
	if len(defaultValue) > 0 {
		def = defaultValue[0].String()
	}
	return b.add(unsafe.Pointer(target), source, def, bindLevelSwitch) // #nosec G103
}

// Apply resolves every binding. The first failure stops the pass and is
// returned; earlier bindings keep their resolved values.
func (b *Binder) Apply() error {
	if b.err != nil {
		return b.err
	}
	for i := range b.bindings {
		if err := b.applyBinding(&b.bindings[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Binder) applyBinding(bd *binding) error {
	source := bd.source
	if strings.TrimSpace(source.Value()) == "" && bd.kind != bindString {
		// Fall back to the default while preserving the original source
		// for live kinds.
		source = &defaultedSource{inner: bd.source, def: bd.defValue}
	}

	switch bd.kind {
	case bindString:
		v := source.Value()
		if strings.TrimSpace(v) == "" {
			v = bd.defValue
		}
		*(*string)(bd.target) = ExpandEnv(v, b.resolver.config.LookupEnv)
		return nil

	case bindInt:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(int(0)))
		if err != nil {
			return err
		}
		*(*int)(bd.target) = resolved.(int)
		return nil

	case bindInt64:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(int64(0)))
		if err != nil {
			return err
		}
		*(*int64)(bd.target) = resolved.(int64)
		return nil

	case bindBool:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(false))
		if err != nil {
			return err
		}
		*(*bool)(bd.target) = resolved.(bool)
		return nil

	case bindFloat64:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(float64(0)))
		if err != nil {
			return err
		}
		*(*float64)(bd.target) = resolved.(float64)
		return nil

	case bindDuration:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(time.Duration(0)))
		if err != nil {
			return err
		}
		*(*time.Duration)(bd.target) = resolved.(time.Duration)
		return nil

	case bindLevel:
		resolved, err := b.resolver.Resolve(source, reflect.TypeOf(LevelInformation))
		if err != nil {
			return err
		}
		*(*Level)(bd.target) = resolved.(Level)
		return nil

	case bindLevelSwitch:
		sw, err := b.resolver.BindLevelSwitch(source)
		if err != nil {
			return err
		}
		*(**LevelSwitch)(bd.target) = sw
		return nil
	}
	return errors.New(ErrCodeInvalidConfig, "unknown binding kind")
}

// defaultedSource substitutes a default when the inner source is blank,
// while keeping the inner source's notification capability intact.
type defaultedSource struct {
	inner Source
	def   string
}

func (d *defaultedSource) Value() string {
	if v := d.inner.Value(); strings.TrimSpace(v) != "" {
		return v
	}
	return d.def
}

func (d *defaultedSource) Subscribe(callback func()) (CancelFunc, error) {
	ws, ok := d.inner.(WatchableSource)
	if !ok {
		return nil, nil
	}
	return ws.Subscribe(callback)
}
