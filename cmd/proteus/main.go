// main.go - Proteus CLI entry point
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/proteus/cmd/cli"
)

func main() {
	manager, err := cli.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "proteus: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = manager.Close() }()

	if err := manager.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "proteus: %v\n", err)
		os.Exit(1)
	}
}
