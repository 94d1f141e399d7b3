// registry.go: Explicit type-and-member registry for indirect resolution
//
// The original design for indirect references leaned on host-runtime
// reflection: locate a type by name, read a static property, or invoke a
// default constructor. Proteus re-architects that as an explicit registry
// the hosting environment populates: type names map to factories and to
// named static accessors. Nothing is resolvable unless registered, which
// keeps the engine free of pervasive reflection and makes the resolvable
// surface auditable.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"fmt"
	"strings"
	"sync"

	"github.com/agilira/go-errors"
)

// Factory constructs a new instance of a registered type using its
// defaults. It stands in for a zero-argument-equivalent constructor.
type Factory func() (interface{}, error)

// MemberGetter reads the current value of a registered static member.
type MemberGetter func() interface{}

// registeredType holds everything resolvable under one type name.
// Getter members model readable static properties; value members model
// static fields. Getters are searched first, preserving the property-
// before-field precedence of member lookup.
type registeredType struct {
	factory Factory
	getters map[string]MemberGetter
	values  map[string]interface{}
}

// TypeRegistry maps string type references to constructible factories and
// readable static members. Registration typically happens at process start;
// lookups afterwards are read-mostly.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*registeredType
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*registeredType)}
}

// RegisterType makes name constructible through factory. Registering an
// existing name replaces its factory but keeps its members.
func (tr *TypeRegistry) RegisterType(name string, factory Factory) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New(ErrCodeInvalidConfig, "type name cannot be empty")
	}
	if factory == nil {
		return errors.New(ErrCodeInvalidConfig, "factory cannot be nil").
			WithContext("type", key)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry := tr.ensureLocked(key)
	entry.factory = factory
	return nil
}

// RegisterMember exposes a readable static member under typeName. The
// getter is invoked on every resolution, so directives always observe the
// member's current value.
func (tr *TypeRegistry) RegisterMember(typeName, member string, getter MemberGetter) error {
	key := strings.TrimSpace(typeName)
	if key == "" || member == "" {
		return errors.New(ErrCodeInvalidConfig, "type and member names cannot be empty")
	}
	if getter == nil {
		return errors.New(ErrCodeInvalidConfig, "member getter cannot be nil").
			WithContext("type", key).
			WithContext("member", member)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry := tr.ensureLocked(key)
	entry.getters[member] = getter
	return nil
}

// RegisterValue exposes a fixed static value under typeName. Getter members
// registered under the same name take precedence.
func (tr *TypeRegistry) RegisterValue(typeName, member string, value interface{}) error {
	key := strings.TrimSpace(typeName)
	if key == "" || member == "" {
		return errors.New(ErrCodeInvalidConfig, "type and member names cannot be empty")
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	entry := tr.ensureLocked(key)
	entry.values[member] = value
	return nil
}

// Registered reports whether a type name is known to the registry.
func (tr *TypeRegistry) Registered(name string) bool {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	_, ok := tr.types[strings.TrimSpace(name)]
	return ok
}

// ensureLocked returns the entry for key, creating it if absent.
// Caller must hold tr.mu.
func (tr *TypeRegistry) ensureLocked(key string) *registeredType {
	entry, ok := tr.types[key]
	if !ok {
		entry = &registeredType{
			getters: make(map[string]MemberGetter),
			values:  make(map[string]interface{}),
		}
		tr.types[key] = entry
	}
	return entry
}

// resolveIndirect turns an accessor directive or a bare registered type
// name into a value.
//
// The handled return distinguishes "strategy applicable" from "not
// applicable": when the input matches the accessor grammar, resolution is
// committed and every failure is terminal (a matching directive never
// silently degrades to type-name lookup or a later strategy). When the
// input is neither an accessor nor a registered type name, handled is
// false and the engine may fall through.
func (tr *TypeRegistry) resolveIndirect(input string) (value interface{}, handled bool, err error) {
	// A panicking getter or factory surfaces as a resolution error rather
	// than unwinding through the engine.
	defer func() {
		if r := recover(); r != nil {
			value = nil
			handled = true
			err = errors.New(ErrCodeResolution, fmt.Sprintf("indirect resolution panicked: %v", r)).
				WithContext("input", input)
		}
	}()

	if expr, ok := ParseAccessor(input); ok {
		tr.mu.RLock()
		entry, found := tr.types[expr.TypeRef]
		tr.mu.RUnlock()
		if !found {
			return nil, true, errors.New(ErrCodeResolution, "type not found").
				WithContext("type", expr.TypeRef).
				WithContext("member", expr.Member)
		}
		if getter, ok := entry.getters[expr.Member]; ok {
			return getter(), true, nil
		}
		if v, ok := entry.values[expr.Member]; ok {
			return v, true, nil
		}
		return nil, true, errors.New(ErrCodeResolution, "member not found").
			WithContext("type", expr.TypeRef).
			WithContext("member", expr.Member)
	}

	name := strings.TrimSpace(input)
	tr.mu.RLock()
	entry, found := tr.types[name]
	tr.mu.RUnlock()
	if !found {
		return nil, false, nil
	}
	if entry.factory == nil {
		return nil, true, errors.New(ErrCodeResolution, "no usable constructor").
			WithContext("type", name)
	}
	v, err := entry.factory()
	if err != nil {
		return nil, true, errors.Wrap(err, ErrCodeResolution, "construction failed").
			WithContext("type", name)
	}
	return v, true, nil
}
