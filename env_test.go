// env_test.go: Testing environment variable expansion
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "testing"

func testLookup(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestExpandEnv(t *testing.T) {
	lookup := testLookup(map[string]string{
		"HOST":  "db.internal",
		"PORT":  "5432",
		"EMPTY": "",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no references", "plain text", "plain text"},
		{"single reference", "%HOST%", "db.internal"},
		{"embedded reference", "tcp://%HOST%:%PORT%", "tcp://db.internal:5432"},
		{"unresolved stays literal", "%MISSING%", "%MISSING%"},
		{"empty name stays literal", "100%%", "100%%"},
		{"defined empty expands", "[%EMPTY%]", "[]"},
		{"lone percent", "50% done", "50% done"},
		{"mixed", "%HOST% and %MISSING%", "db.internal and %MISSING%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandEnv(tt.in, lookup)
			if got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandEnvNilLookupUsesProcessEnv(t *testing.T) {
	t.Setenv("PROTEUS_EXPAND_TEST", "ok")

	if got := ExpandEnv("%PROTEUS_EXPAND_TEST%", nil); got != "ok" {
		t.Errorf("got %q, want ok", got)
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("PROTEUS_SOURCE_TEST", "value-from-env")

	src := NewEnvSource("PROTEUS_SOURCE_TEST")
	if src.Value() != "value-from-env" {
		t.Errorf("Value = %q", src.Value())
	}

	unset := NewEnvSource("PROTEUS_DEFINITELY_UNSET_VAR")
	if unset.Value() != "" {
		t.Errorf("unset variable should read empty, got %q", unset.Value())
	}
}
