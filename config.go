// config.go: Resolver configuration and validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import (
	"time"

	"github.com/agilira/go-errors"
)

// ErrorHandler receives errors from asynchronous paths, mainly live
// rebind failures, where there is no caller left to return them to.
// Handlers must be fast and must not panic.
type ErrorHandler func(err error, source string)

// Config controls a Resolver instance. The zero value is usable after
// WithDefaults; most fields exist to tune watching and diagnostics.
type Config struct {
	// PollInterval is how often watchable file sources are checked for
	// changes. Applies only to sources created by this resolver.
	PollInterval time.Duration

	// CacheTTL bounds how long file stat results may be reused before
	// the file is checked again. Zero derives it from PollInterval.
	CacheTTL time.Duration

	// LookupEnv overrides environment variable lookup during %VAR%
	// expansion. Nil means os.LookupEnv.
	LookupEnv LookupFunc

	// Converters holds the conversion registry consulted before the
	// indirect resolution and generic strategies. Nil gets DefaultConverters.
	Converters *ConverterRegistry

	// Types is the registry backing indirect TypeName::MemberName
	// resolution. Nil gets an empty registry.
	Types *TypeRegistry

	// Enums is the enum name registry. Nil gets a registry preloaded
	// with the Level scale.
	Enums *EnumRegistry

	// Diagnostics configures the passive diagnostic channel.
	Diagnostics *DiagConfig

	// ErrorHandler, when set, also receives live rebind failures in
	// addition to the diagnostic channel.
	ErrorHandler ErrorHandler
}

// WithDefaults returns a copy with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.PollInterval == 0 {
		c.PollInterval = 250 * time.Millisecond
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = c.PollInterval / 2
	}
	if c.Converters == nil {
		c.Converters = DefaultConverters()
	}
	if c.Types == nil {
		c.Types = NewTypeRegistry()
	}
	if c.Enums == nil {
		c.Enums = NewEnumRegistry()
		registerLevelScale(c.Enums)
	}
	if c.Diagnostics == nil {
		d := DefaultDiagConfig()
		c.Diagnostics = &d
	}
	return c
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.PollInterval < 0 {
		return errors.New(ErrCodeInvalidConfig, "poll interval cannot be negative").
			WithContext("poll_interval", c.PollInterval.String())
	}
	if c.CacheTTL < 0 {
		return errors.New(ErrCodeInvalidConfig, "cache TTL cannot be negative").
			WithContext("cache_ttl", c.CacheTTL.String())
	}
	if c.CacheTTL > 0 && c.PollInterval > 0 && c.CacheTTL > c.PollInterval {
		return errors.New(ErrCodeInvalidConfig, "cache TTL cannot exceed poll interval").
			WithContext("cache_ttl", c.CacheTTL.String()).
			WithContext("poll_interval", c.PollInterval.String())
	}
	if c.Diagnostics != nil {
		if err := c.Diagnostics.Validate(); err != nil {
			return err
		}
	}
	return nil
}
