// Package cli provides the command-line interface for Proteus value resolution.
//
// Built on the Orpheus framework, it exposes the resolution engine for
// inspection and scripting: one-shot resolution of raw strings, accessor
// grammar checks, severity level utilities, file key extraction, and live
// watching of a single configuration key.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/proteus"
)

// Manager routes CLI commands onto a shared Resolver instance.
type Manager struct {
	app      *orpheus.App
	resolver *proteus.Resolver
}

// NewManager creates the CLI manager with a default resolver.
func NewManager() (*Manager, error) {
	resolver, err := proteus.New(proteus.Config{})
	if err != nil {
		return nil, err
	}

	app := orpheus.New("proteus").
		SetDescription("Typed configuration value resolution with live rebinding").
		SetVersion("1.0.0")

	manager := &Manager{
		app:      app,
		resolver: resolver,
	}

	manager.setupResolveCommands()
	manager.setupLevelCommands()
	manager.setupFileCommands()
	manager.setupUtilityCommands()

	return manager, nil
}

// Run executes the CLI with the provided arguments.
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// Close releases the underlying resolver.
func (m *Manager) Close() error {
	return m.resolver.Close()
}

// setupResolveCommands configures one-shot resolution and grammar checks.
func (m *Manager) setupResolveCommands() {
	// resolve <raw> [--type=string]
	resolveCmd := orpheus.NewCommand("resolve", "Resolve a raw string to a typed value")
	resolveCmd.SetHandler(m.handleResolve)
	resolveCmd.AddFlag("type", "t", "string", "Target type (string|int|int64|uint|bool|float|duration|url|ip|regexp|time|strings|level)")
	m.app.AddCommand(resolveCmd)

	// accessor <input>
	accessorCmd := orpheus.NewCommand("accessor", "Parse a TypeName::MemberName accessor expression")
	accessorCmd.SetHandler(m.handleAccessor)
	m.app.AddCommand(accessorCmd)
}

// setupLevelCommands configures the 'level' command group.
func (m *Manager) setupLevelCommands() {
	levelCmd := orpheus.NewCommand("level", "Severity level utilities")

	levelCmd.Subcommand("parse", "Parse a level name", m.handleLevelParse)
	levelCmd.Subcommand("list", "List the severity scale", m.handleLevelList)

	m.app.AddCommand(levelCmd)
}

// setupFileCommands configures file-backed source operations.
func (m *Manager) setupFileCommands() {
	fileCmd := orpheus.NewCommand("file", "File-backed source operations")

	// file get <file> <key>
	fileCmd.Subcommand("get", "Read one key from a configuration file", m.handleFileGet)

	// file watch <file> <key> [--interval=1s] [--type=string]
	watchCmd := fileCmd.Subcommand("watch", "Watch one key and print changes", m.handleFileWatch)
	watchCmd.AddFlag("interval", "i", "1s", "Polling interval")
	watchCmd.AddFlag("type", "t", "string", "Target type for each printout")
	watchCmd.AddBoolFlag("verbose", "v", false, "Verbose output")

	m.app.AddCommand(fileCmd)
}

// setupUtilityCommands configures diagnostics and completion.
func (m *Manager) setupUtilityCommands() {
	infoCmd := orpheus.NewCommand("info", "System information and diagnostics")
	infoCmd.SetHandler(m.handleInfo)
	infoCmd.AddBoolFlag("verbose", "v", false, "Verbose system information")
	m.app.AddCommand(infoCmd)

	completionCmd := orpheus.NewCommand("completion", "Generate shell completion scripts")
	completionCmd.SetHandler(m.handleCompletion)
	m.app.AddCommand(completionCmd)
}
