// enum.go: Enumeration member registry for name-based parsing
//
// Go has no first-class enumerations, so enum targets are declared to the
// engine explicitly: the hosting layer registers a type together with its
// member names and values. The severity Level scale is pre-registered by
// every Resolver.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"reflect"
	"strings"
	"sync"

	"github.com/agilira/go-errors"
)

// EnumMember declares one named member of an enumeration.
type EnumMember struct {
	Name  string
	Value interface{}
}

// EnumSet holds the declared members of one enumeration type.
// Member order is the registration order; it decides ties during
// case-insensitive matching (first registered member wins).
type EnumSet struct {
	typ    reflect.Type
	names  []string
	byName map[string]interface{}
}

// Parse resolves a member name to its value, matching exactly first and
// case-insensitively second. An unrecognized name fails with ErrCodeParse.
func (es *EnumSet) Parse(name string) (interface{}, error) {
	trimmed := strings.TrimSpace(name)
	if v, ok := es.byName[trimmed]; ok {
		return v, nil
	}
	for _, n := range es.names {
		if strings.EqualFold(n, trimmed) {
			return es.byName[n], nil
		}
	}
	return nil, errors.New(ErrCodeParse, "unrecognized enumeration member").
		WithContext("value", name).
		WithContext("type", es.typ.String())
}

// Name returns the declared member name for a value, if the value is a
// registered member.
func (es *EnumSet) Name(value interface{}) (string, bool) {
	for _, n := range es.names {
		if es.byName[n] == value {
			return n, true
		}
	}
	return "", false
}

// Members returns the declared member names in registration order.
func (es *EnumSet) Members() []string {
	out := make([]string, len(es.names))
	copy(out, es.names)
	return out
}

// EnumRegistry maps target types to their declared enumeration members.
// Registration happens during process start; lookups afterwards are
// read-mostly and guarded for the occasional runtime registration.
type EnumRegistry struct {
	mu   sync.RWMutex
	sets map[reflect.Type]*EnumSet
}

// NewEnumRegistry creates an empty enum registry.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{sets: make(map[reflect.Type]*EnumSet)}
}

// Register declares typ as an enumeration with the given members. Member
// values must be assignable to typ. Registering a type twice replaces its
// previous member set.
func (er *EnumRegistry) Register(typ reflect.Type, members []EnumMember) error {
	if typ == nil {
		return errors.New(ErrCodeInvalidConfig, "enum type cannot be nil")
	}
	if len(members) == 0 {
		return errors.New(ErrCodeInvalidConfig, "enum must declare at least one member").
			WithContext("type", typ.String())
	}

	set := &EnumSet{
		typ:    typ,
		names:  make([]string, 0, len(members)),
		byName: make(map[string]interface{}, len(members)),
	}
	for _, m := range members {
		if m.Name == "" {
			return errors.New(ErrCodeInvalidConfig, "enum member name cannot be empty").
				WithContext("type", typ.String())
		}
		if vt := reflect.TypeOf(m.Value); vt == nil || !vt.AssignableTo(typ) {
			return errors.New(ErrCodeInvalidConfig, "enum member value not assignable to enum type").
				WithContext("type", typ.String()).
				WithContext("member", m.Name)
		}
		if _, dup := set.byName[m.Name]; !dup {
			set.names = append(set.names, m.Name)
		}
		set.byName[m.Name] = m.Value
	}

	er.mu.Lock()
	er.sets[typ] = set
	er.mu.Unlock()
	return nil
}

// Lookup returns the member set for typ, if typ was registered as an
// enumeration.
func (er *EnumRegistry) Lookup(typ reflect.Type) (*EnumSet, bool) {
	er.mu.RLock()
	defer er.mu.RUnlock()
	set, ok := er.sets[typ]
	return set, ok
}

// levelType is the pre-registered severity enumeration target.
var levelType = reflect.TypeOf(LevelVerbose)

// registerLevelScale declares the built-in severity scale on a registry.
func registerLevelScale(er *EnumRegistry) {
	members := make([]EnumMember, len(levelNames))
	for i, n := range levelNames {
		members[i] = EnumMember{Name: n, Value: Level(i)}
	}
	// Cannot fail: names and values are statically well-formed.
	_ = er.Register(levelType, members)
}
