// Copyright 2022 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// nanotap checks TAP streams produced by test programs.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"syscall"

	"github.com/google/subcommands"

	"go.fuchsia.dev/nanotap/lib/color"
	"go.fuchsia.dev/nanotap/lib/command"
	"go.fuchsia.dev/nanotap/lib/logger"
)

var (
	colors = color.ColorAuto
	level  = logger.WarningLevel
)

func init() {
	flag.Var(&colors, "color", "use color in output, can be never, auto, always")
	flag.Var(&level, "level", "output verbosity, can be fatal, error, warning, info, debug or trace")
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&selftestCmd{}, "")

	flag.Parse()

	// Logs share stderr with test diagnostics; stdout carries results only.
	l := logger.NewLogger(level, color.NewColor(colors), os.Stderr, os.Stderr, "nanotap ")
	l.SetFlags(log.Ltime)
	ctx := logger.WithLogger(context.Background(), l)
	ctx = command.CancelOnSignals(ctx, syscall.SIGTERM, syscall.SIGINT)
	os.Exit(int(subcommands.Execute(ctx)))
}
