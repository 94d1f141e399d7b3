// env.go: Process-environment expansion and the environment-backed source
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"os"
	"strings"
)

// LookupFunc resolves an environment variable name to its value.
type LookupFunc func(name string) (string, bool)

// ExpandEnv replaces %VAR%-style references in raw with the value returned
// by lookup. Expansion runs before any other interpretation of a raw value.
//
// References whose variable is not set are left as literal text, percent
// signs included: an unresolved reference is configuration data, not an
// error. A nil lookup uses the process environment.
func ExpandEnv(raw string, lookup LookupFunc) string {
	if !strings.Contains(raw, "%") {
		return raw
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var b strings.Builder
	b.Grow(len(raw))
	for {
		start := strings.IndexByte(raw, '%')
		if start < 0 {
			b.WriteString(raw)
			break
		}
		end := strings.IndexByte(raw[start+1:], '%')
		if end < 0 {
			b.WriteString(raw)
			break
		}
		name := raw[start+1 : start+1+end]
		b.WriteString(raw[:start])
		if val, ok := lookup(name); name != "" && ok {
			b.WriteString(val)
		} else {
			// Unresolved or empty reference stays literal.
			b.WriteString(raw[start : start+2+end])
		}
		raw = raw[start+2+end:]
	}
	return b.String()
}

// EnvSource produces the current value of one environment variable.
// It offers no change notification: environment mutations do not rebind.
type EnvSource struct {
	name   string
	lookup LookupFunc
}

// NewEnvSource creates a source reading the named environment variable.
func NewEnvSource(name string) *EnvSource {
	return &EnvSource{name: name}
}

// SourceName identifies this source in diagnostic events.
func (es *EnvSource) SourceName() string {
	return "env:" + es.name
}

// Value returns the variable's current value, or "" when unset.
func (es *EnvSource) Value() string {
	lookup := es.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(es.name)
	return v
}
