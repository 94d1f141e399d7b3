// convert.go: Registered string-to-value conversions
//
// Types that need custom parsing beyond generic scalar conversion register
// a dedicated parser here: durations, URLs, timestamps, IP addresses and
// the like. The registry is built once, frozen, and shared by reference
// into every engine that needs it, so lookups require no synchronization.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// ConvertFunc parses a raw string into a value for one registered type.
type ConvertFunc func(raw string) (interface{}, error)

// converterEntry pairs a registered type with its parser.
type converterEntry struct {
	typ   reflect.Type
	parse ConvertFunc
}

// ConverterRegistry is a process-wide mapping from target type to dedicated
// parser. It is read-only after construction: Register calls belong in
// process initialization, before the registry is handed to a Resolver.
type ConverterRegistry struct {
	entries []converterEntry
}

// NewConverterRegistry creates an empty converter registry.
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{}
}

// DefaultConverters returns a registry pre-populated with the conversions a
// configuration layer commonly needs.
func DefaultConverters() *ConverterRegistry {
	cr := NewConverterRegistry()
	cr.Register(reflect.TypeOf(time.Duration(0)), func(raw string) (interface{}, error) {
		return time.ParseDuration(strings.TrimSpace(raw))
	})
	cr.Register(reflect.TypeOf(&url.URL{}), func(raw string) (interface{}, error) {
		return url.Parse(strings.TrimSpace(raw))
	})
	cr.Register(reflect.TypeOf(time.Time{}), func(raw string) (interface{}, error) {
		return time.Parse(time.RFC3339, strings.TrimSpace(raw))
	})
	cr.Register(reflect.TypeOf(net.IP{}), func(raw string) (interface{}, error) {
		ip := net.ParseIP(strings.TrimSpace(raw))
		if ip == nil {
			return nil, errors.New(ErrCodeConversion, "invalid IP address").
				WithContext("value", raw)
		}
		return ip, nil
	})
	cr.Register(reflect.TypeOf(&regexp.Regexp{}), func(raw string) (interface{}, error) {
		return regexp.Compile(raw)
	})
	cr.Register(reflect.TypeOf([]string(nil)), func(raw string) (interface{}, error) {
		if strings.TrimSpace(raw) == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	})
	return cr
}

// Register adds a parser for typ. Returns the registry for chaining during
// initialization. Not safe to call once the registry is shared.
func (cr *ConverterRegistry) Register(typ reflect.Type, parse ConvertFunc) *ConverterRegistry {
	if typ == nil || parse == nil {
		return cr
	}
	cr.entries = append(cr.entries, converterEntry{typ: typ, parse: parse})
	return cr
}

// find locates a parser for the requested target type.
//
// An entry matches on exact type identity, or when the requested type is
// assignable to the registered type: registering a parser under an
// interface serves every concrete type implementing it.
func (cr *ConverterRegistry) find(target reflect.Type) (ConvertFunc, bool) {
	if target == nil {
		return nil, false
	}
	for _, e := range cr.entries {
		if e.typ == target {
			return e.parse, true
		}
		if e.typ.Kind() == reflect.Interface && target.Implements(e.typ) {
			return e.parse, true
		}
	}
	return nil, false
}
