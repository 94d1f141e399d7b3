// Package proteus converts raw textual configuration values into strongly
// typed runtime values.
//
// Proteus is the resolution engine of a declarative configuration-binding
// layer: callers supply a string-producing Source and a target type, and the
// engine decides how to interpret the string: as a primitive, an enum
// member, a registered special conversion, or as a directive referencing a
// pre-registered value or factory by name.
//
// # Architecture Overview
//
// Proteus consists of six integrated subsystems:
//  1. **Value Resolution Engine**: Fixed-order fallback chain over conversion
//     strategies (Resolver.Resolve)
//  2. **Accessor Grammar**: The `TypeName::MemberName, qualifier` directive
//     syntax for referencing registered static values
//  3. **Type Registry**: Explicit, injectable registry mapping type names to
//     factories and static member accessors (no pervasive reflection)
//  4. **Converter Registry**: Extensible string-to-value parsers for types
//     such as durations, URLs and IP addresses
//  5. **Level Switch Binder**: Live-rebinding of a runtime-adjustable
//     severity threshold with lock-free atomic updates
//  6. **Passive Diagnostics**: Buffered diagnostic trail with SQLite or JSONL
//     backends for failures that occur outside any caller's control flow
//
// # Quick Start
//
// Resolve a duration from a static value:
//
//	r, err := proteus.New(proteus.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	v, err := r.Resolve(proteus.StaticSource("30s"),
//		reflect.TypeOf(time.Duration(0)))
//
// Bind a live level switch to a watched configuration file:
//
//	src := r.FileSource("config.yml", "logging.level")
//	defer src.Close()
//
//	sw, err := r.BindLevelSwitch(src)
//	if err != nil {
//		log.Fatal(err)
//	}
//	// sw.Level() now follows logging.level across file edits; a bad value
//	// in the file never disturbs the last good level.
//
// # Resolution Order
//
// Resolve applies exactly one strategy per invocation, in fixed order:
// environment expansion, nullable unwrap, enum parse, registered conversion,
// indirect resolution (accessor or registered type name), level switch
// binding, generic scalar conversion. Once a strategy is chosen its failure
// is terminal; the engine never cascades past a failing strategy.
//
// # Concurrency
//
// Resolution runs synchronously on the caller's goroutine. The only shared
// mutable state in the core is the LevelSwitch's stored level, which is a
// single atomic word: uncoordinated readers always observe either the prior
// or the new level, never a partial update.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package proteus
