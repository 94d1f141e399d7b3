// handlers.go - CLI command handlers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/proteus"
)

// handleResolve runs one synchronous resolution and prints the result.
func (m *Manager) handleResolve(ctx *orpheus.Context) error {
	raw := ctx.GetArg(0)
	typeName := ctx.GetFlagString("type")

	target, err := m.targetType(typeName)
	if err != nil {
		return err
	}

	value, err := m.resolver.ResolveString(raw, target)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", value)
	return nil
}

// handleAccessor checks an input against the accessor grammar.
func (m *Manager) handleAccessor(ctx *orpheus.Context) error {
	input := ctx.GetArg(0)

	expr, ok := proteus.ParseAccessor(input)
	if !ok {
		fmt.Println("no match")
		return nil
	}
	fmt.Printf("type:   %s\n", expr.TypeRef)
	fmt.Printf("member: %s\n", expr.Member)
	return nil
}

// handleLevelParse parses a severity level name.
func (m *Manager) handleLevelParse(ctx *orpheus.Context) error {
	name := ctx.GetArg(0)

	level, err := proteus.ParseLevel(name)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d)\n", level, int(level))
	return nil
}

// handleLevelList prints the severity scale in ascending order.
func (m *Manager) handleLevelList(ctx *orpheus.Context) error {
	for l := proteus.LevelVerbose; l <= proteus.LevelFatal; l++ {
		fmt.Printf("%d  %s\n", int(l), l)
	}
	return nil
}

// handleFileGet reads one key from a configuration file.
func (m *Manager) handleFileGet(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	key := ctx.GetArg(1)

	source := m.resolver.FileSource(filePath, key)
	defer func() { _ = source.Close() }()

	if err := source.Reload(); err != nil {
		return err
	}
	value := source.Value()
	if value == "" {
		return errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("key '%s' not found", key))
	}
	fmt.Println(value)
	return nil
}

// handleFileWatch watches one key and prints each resolved change until
// interrupted.
func (m *Manager) handleFileWatch(ctx *orpheus.Context) error {
	filePath := ctx.GetArg(0)
	key := ctx.GetArg(1)
	verbose := ctx.GetFlagBool("verbose")

	interval, err := time.ParseDuration(ctx.GetFlagString("interval"))
	if err != nil {
		return errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("invalid interval: %v", err))
	}
	target, err := m.targetType(ctx.GetFlagString("type"))
	if err != nil {
		return err
	}

	watchResolver, err := proteus.New(proteus.Config{PollInterval: interval})
	if err != nil {
		return err
	}
	defer func() { _ = watchResolver.Close() }()

	source := watchResolver.FileSource(filePath, key)
	defer func() { _ = source.Close() }()

	printCurrent := func() {
		value, resolveErr := watchResolver.Resolve(source, target)
		if resolveErr != nil {
			fmt.Printf("resolution error: %v\n", resolveErr)
			return
		}
		fmt.Printf("%s = %v\n", key, value)
	}

	fmt.Printf("Watching %s (%s, interval: %v)\n", filePath, key, interval)
	fmt.Println("Press Ctrl+C to stop...")
	printCurrent()

	cancel, err := source.Subscribe(func() {
		if verbose {
			fmt.Printf("change detected at %s\n", time.Now().Format(time.RFC3339))
		}
		printCurrent()
	})
	if err != nil {
		return err
	}
	if cancel != nil {
		defer cancel()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\nstopped")
	return nil
}

// handleInfo prints system information.
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	verbose := ctx.GetFlagBool("verbose")

	fmt.Printf("Proteus Value Resolution Engine\n")
	fmt.Printf("Version: 1.0.0\n")
	fmt.Printf("Framework: Orpheus CLI\n")

	if verbose {
		fmt.Printf("\nResolution strategies: nullable, enum, converter registry, indirect, level switch, generic\n")
		fmt.Printf("Supported file formats: JSON, YAML, TOML, INI, Properties\n")
		fmt.Printf("Severity scale: Verbose..Fatal\n")
	}
	return nil
}

// handleCompletion generates shell completion scripts.
func (m *Manager) handleCompletion(ctx *orpheus.Context) error {
	shell := ctx.GetArg(0)

	const commands = "resolve accessor level file info completion"
	switch shell {
	case "bash":
		fmt.Printf("# Bash completion for proteus\n")
		fmt.Printf("# Add to ~/.bashrc: source <(proteus completion bash)\n")
		fmt.Printf("_proteus_completion() {\n")
		fmt.Printf("  COMPREPLY=($(compgen -W '%s' -- \"${COMP_WORDS[COMP_CWORD]}\"))\n", commands)
		fmt.Printf("}\n")
		fmt.Printf("complete -F _proteus_completion proteus\n")
	case "zsh":
		fmt.Printf("# Zsh completion for proteus\n")
		fmt.Printf("#compdef proteus\n")
		fmt.Printf("_proteus() {\n")
		fmt.Printf("  _arguments '1: :(%s)'\n", commands)
		fmt.Printf("}\n")
	case "fish":
		fmt.Printf("complete -c proteus -f -a '%s'\n", commands)
	default:
		return errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("unsupported shell: %s", shell))
	}
	return nil
}
