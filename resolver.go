// resolver.go: The value resolution engine
//
// A Resolver turns raw configuration strings into typed values through a
// fixed strategy chain. The first applicable strategy is committed to:
// once chosen, its failure is terminal and later strategies are not tried.
// The only sanctioned fall-through is indirect resolution reporting "not
// applicable" for input that is neither an accessor nor a known type name.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/agilira/go-errors"
)

// Resolver is the resolution engine. Create one with New, share it freely:
// all methods are safe for concurrent use once configuration registration
// has finished.
type Resolver struct {
	config     Config
	converters *ConverterRegistry
	types      *TypeRegistry
	enums      *EnumRegistry
	diag       *DiagnosticLogger
}

// New creates a Resolver from the given configuration.
func New(config Config) (*Resolver, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	diag, err := NewDiagnosticLogger(*config.Diagnostics)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		config:     config,
		converters: config.Converters,
		types:      config.Types,
		enums:      config.Enums,
		diag:       diag,
	}, nil
}

// Close flushes and releases the diagnostic channel.
func (r *Resolver) Close() error {
	return r.diag.Close()
}

// Types returns the registry backing indirect resolution.
func (r *Resolver) Types() *TypeRegistry { return r.types }

// Enums returns the enum name registry.
func (r *Resolver) Enums() *EnumRegistry { return r.enums }

// Converters returns the conversion registry.
func (r *Resolver) Converters() *ConverterRegistry { return r.converters }

// Diagnostics returns the passive diagnostic channel.
func (r *Resolver) Diagnostics() *DiagnosticLogger { return r.diag }

// FileSource creates a file-backed source wired to this resolver's poll
// settings and diagnostic channel.
func (r *Resolver) FileSource(path, key string) *FileSource {
	fs := NewFileSource(path, key)
	fs.pollInterval = r.config.PollInterval
	fs.cacheTTL = r.config.CacheTTL
	fs.diag = r.diag
	return fs
}

// Resolve materializes a typed value for target from the source's current
// raw string. When target is the level switch type and the source is
// watchable, the returned switch stays live-synchronized with the source.
func (r *Resolver) Resolve(source Source, target reflect.Type) (interface{}, error) {
	var raw string
	if source != nil {
		raw = source.Value()
	}
	return r.resolve(source, ExpandEnv(raw, r.config.LookupEnv), target)
}

// ResolveString resolves a bare string without notification capability.
func (r *Resolver) ResolveString(raw string, target reflect.Type) (interface{}, error) {
	return r.resolve(StaticSource(raw), ExpandEnv(raw, r.config.LookupEnv), target)
}

// resolve runs the strategy chain on an already environment-expanded value.
func (r *Resolver) resolve(source Source, value string, target reflect.Type) (interface{}, error) {
	desc := r.Describe(target)
	trimmed := strings.TrimSpace(value)

	// Nullable unwrap. Blank means a typed absence, not an error; anything
	// else resolves as the inner type and is boxed back into the pointer.
	if desc.Class == ClassNilable {
		if trimmed == "" {
			return reflect.Zero(target).Interface(), nil
		}
		inner, err := r.resolve(source, value, desc.Elem)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(desc.Elem)
		ptr.Elem().Set(reflect.ValueOf(inner).Convert(desc.Elem))
		return ptr.Interface(), nil
	}

	// Enum member by name.
	if desc.Class == ClassEnum {
		set, _ := r.enums.Lookup(target)
		v, err := set.Parse(trimmed)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(target).Interface(), nil
	}

	// Registered converter, matched by exact type or interface assignability.
	if fn, ok := r.converters.find(target); ok {
		v, err := fn(trimmed)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeConversion, "registered converter failed").
				WithContext("target", target.String()).
				WithContext("raw", trimmed)
		}
		return v, nil
	}

	// Indirect resolution for interface targets. A "not applicable" result
	// falls through; a handled failure is terminal.
	if desc.Class == ClassInterface && trimmed != "" {
		v, handled, err := r.types.resolveIndirect(trimmed)
		if handled {
			if err != nil {
				return nil, err
			}
			if v != nil && !reflect.TypeOf(v).AssignableTo(target) {
				return nil, errors.New(ErrCodeResolution, "resolved value does not satisfy target").
					WithContext("target", target.String()).
					WithContext("resolved", reflect.TypeOf(v).String())
			}
			return v, nil
		}
	}

	// The mutable severity threshold gets its own binding path.
	if desc.Class == ClassLevelSwitch {
		return r.bindLevelSwitch(source, trimmed)
	}

	return genericConvert(trimmed, target)
}

// genericConvert coerces a string to primitive-like targets. Named types
// over primitive kinds are honored via reflect conversion.
func genericConvert(trimmed string, target reflect.Type) (interface{}, error) {
	if target == nil {
		return nil, errors.New(ErrCodeConversion, "nil target type")
	}
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(trimmed).Convert(target).Interface(), nil

	case reflect.Bool:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeConversion, "invalid boolean").
				WithContext("raw", trimmed)
		}
		return reflect.ValueOf(b).Convert(target).Interface(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(trimmed, 10, target.Bits())
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeConversion, "invalid integer").
				WithContext("raw", trimmed).
				WithContext("target", target.String())
		}
		v := reflect.New(target).Elem()
		v.SetInt(n)
		return v.Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(trimmed, 10, target.Bits())
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeConversion, "invalid unsigned integer").
				WithContext("raw", trimmed).
				WithContext("target", target.String())
		}
		v := reflect.New(target).Elem()
		v.SetUint(n)
		return v.Interface(), nil

	case reflect.Float32, reflect.Float64:
		fl, err := strconv.ParseFloat(trimmed, target.Bits())
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeConversion, "invalid float").
				WithContext("raw", trimmed).
				WithContext("target", target.String())
		}
		v := reflect.New(target).Elem()
		v.SetFloat(fl)
		return v.Interface(), nil

	case reflect.Interface:
		if target.NumMethod() == 0 {
			return trimmed, nil
		}
	}
	return nil, errors.New(ErrCodeConversion, "no generic conversion path").
		WithContext("target", target.String()).
		WithContext("raw", trimmed)
}
