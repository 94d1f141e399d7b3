// descriptor.go: Target type classification
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "reflect"

// TypeClass is the resolution-relevant classification of a target type.
type TypeClass uint8

const (
	// ClassOpaque falls through to generic scalar conversion.
	ClassOpaque TypeClass = iota

	// ClassNilable is a pointer to a scalar or enum type: the Go analog of
	// a nullable wrapper. A blank raw value yields a typed nil pointer,
	// anything else resolves against the inner type and is boxed.
	ClassNilable

	// ClassEnum is a type registered in the EnumRegistry.
	ClassEnum

	// ClassInterface targets are eligible for indirect resolution via the
	// accessor grammar or a registered type name.
	ClassInterface

	// ClassLevelSwitch is the *LevelSwitch special target, handled by the
	// level switch binder.
	ClassLevelSwitch

	// ClassConcrete is a concrete constructible type (struct or pointer to
	// struct) with no other classification.
	ClassConcrete
)

// String returns a readable class name for diagnostics.
func (tc TypeClass) String() string {
	switch tc {
	case ClassNilable:
		return "nilable"
	case ClassEnum:
		return "enum"
	case ClassInterface:
		return "interface"
	case ClassLevelSwitch:
		return "level-switch"
	case ClassConcrete:
		return "concrete"
	default:
		return "opaque"
	}
}

// TypeDescriptor is an immutable handle to a target type plus its derived
// classification.
type TypeDescriptor struct {
	Type  reflect.Type
	Class TypeClass

	// Elem is the unwrapped inner type for ClassNilable targets, nil
	// otherwise.
	Elem reflect.Type
}

// levelSwitchType identifies the special mutable severity-threshold target.
var levelSwitchType = reflect.TypeOf((*LevelSwitch)(nil))

// isScalarKind reports whether k has a generic conversion path from a
// string representation.
func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Describe classifies a target type for the resolution engine.
//
// Classification is mutually exclusive and checked in a fixed order so that
// "string looks like a type name" and "string is itself the enum text" never
// compete: the level switch and nullable checks come first, then enums, then
// interface eligibility.
func (r *Resolver) Describe(t reflect.Type) TypeDescriptor {
	if t == nil {
		return TypeDescriptor{Class: ClassOpaque}
	}
	if t == levelSwitchType {
		return TypeDescriptor{Type: t, Class: ClassLevelSwitch}
	}
	if t.Kind() == reflect.Ptr {
		elem := t.Elem()
		if isScalarKind(elem.Kind()) {
			return TypeDescriptor{Type: t, Class: ClassNilable, Elem: elem}
		}
		if _, ok := r.enums.Lookup(elem); ok {
			return TypeDescriptor{Type: t, Class: ClassNilable, Elem: elem}
		}
		if elem.Kind() == reflect.Struct {
			return TypeDescriptor{Type: t, Class: ClassConcrete}
		}
		return TypeDescriptor{Type: t, Class: ClassOpaque}
	}
	if _, ok := r.enums.Lookup(t); ok {
		return TypeDescriptor{Type: t, Class: ClassEnum}
	}
	if t.Kind() == reflect.Interface {
		return TypeDescriptor{Type: t, Class: ClassInterface}
	}
	if t.Kind() == reflect.Struct {
		return TypeDescriptor{Type: t, Class: ClassConcrete}
	}
	return TypeDescriptor{Type: t, Class: ClassOpaque}
}
