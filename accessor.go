// accessor.go: Static member accessor directive grammar
//
// Recognizes and decomposes directives of the form
//
//	TypeRef::MemberName[, extra qualifiers]
//
// independently of what they resolve to. The grammar exists so that a
// configuration value can reference a pre-existing registered value by
// name instead of carrying a literal.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"regexp"
	"strings"
)

// AccessorExpression is a parsed static member accessor directive.
// It exists only transiently during resolution and is never persisted.
type AccessorExpression struct {
	// TypeRef is the full type reference, with any trailing qualifier text
	// after the member name reattached (e.g. "MyApp.Levels, MyApp" for the
	// input "MyApp.Levels::Default, MyApp").
	TypeRef string

	// Member is the referenced static member name.
	Member string
}

// accessorPattern encodes the directive grammar:
//   - typeRef: any run of characters not containing "::" (treated opaquely;
//     commonly a type name, optionally with a qualifier suffix)
//   - member: a letter followed by letters and digits only
//   - extra: the remainder after the member name, reattached to typeRef so
//     qualifier text split across the "::" reconstructs a single reference
//
// The character classes exclude ':' so inputs with more than one "::"
// segment never match.
var accessorPattern = regexp.MustCompile(`^(?P<typeRef>[^:]+)::(?P<member>[A-Za-z][A-Za-z0-9]*)(?P<extra>[^:]*)$`)

// ParseAccessor attempts to decompose input as a static member accessor
// directive. The second return value is false when the input does not match
// the grammar; callers must treat that as "not an accessor", never as a
// failure, and interpret the whole string as a plain value or type name.
func ParseAccessor(input string) (AccessorExpression, bool) {
	m := accessorPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return AccessorExpression{}, false
	}

	// m[1] = typeRef, m[2] = member, m[3] = extra qualifiers. The type
	// reference is opaque; only trailing whitespace of the reattached
	// qualifier text is trimmed.
	typeRef := strings.TrimRight(m[1]+m[3], " \t")
	return AccessorExpression{TypeRef: typeRef, Member: m[2]}, true
}
