// Copyright 2022 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"
	"go.uber.org/multierr"

	"go.fuchsia.dev/nanotap/lib/logger"
	"go.fuchsia.dev/nanotap/lib/streams"
	"go.fuchsia.dev/nanotap/tap"
)

type selftestCmd struct {
	header bool
}

func (*selftestCmd) Name() string {
	return "selftest"
}

func (*selftestCmd) Usage() string {
	return `selftest [flags...]

Runs the TAP reporter against a captured copy of itself and reports, as TAP on
stdout, whether every line it produced matched the protocol.

flags:
`
}

func (*selftestCmd) Synopsis() string {
	return "verifies the TAP reporter and emits the results as TAP"
}

func (cmd *selftestCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.header, "header", false, "start the output with a TAP version line")
}

// capture is a Reporter whose streams are kept for inspection.
type capture struct {
	*tap.Reporter
	stdout, stderr bytes.Buffer
}

func newCapture(ctx context.Context) *capture {
	c := &capture{}
	ctx = streams.ContextWithStdout(ctx, &c.stdout)
	ctx = streams.ContextWithStderr(ctx, &c.stderr)
	c.Reporter = tap.NewReporter(ctx)
	return c
}

type selfCheck struct {
	name       string
	run        func(c *capture)
	wantStdout string
	wantStderr string
	// finished is set when run calls DoneTesting itself.
	finished   bool
}

var selfChecks = []selfCheck{
	{
		name:       "passing ok",
		run:        func(c *capture) { c.Ok(true, "x") },
		wantStdout: "ok 1 - x\n",
	},
	{
		name:       "failing ok",
		run:        func(c *capture) { c.Ok(false, "x") },
		wantStdout: "not ok 1 - x\n",
	},
	{
		name: "ordinals count every assertion",
		run: func(c *capture) {
			c.Ok(true, "a")
			c.Ok(false, "b")
			c.Ok(true, "c")
		},
		wantStdout: "ok 1 - a\nnot ok 2 - b\nok 3 - c\n",
	},
	{
		name:       "equal values",
		run:        func(c *capture) { tap.Is(c.Reporter, 5, 5, "m") },
		wantStdout: "ok 1 - m\n",
	},
	{
		name:       "different values",
		run:        func(c *capture) { tap.Is(c.Reporter, 5, 6, "m") },
		wantStdout: "not ok 1 - m\n  # got      : 5\n  # expected : 6\n",
	},
	{
		name:       "equal bytes",
		run:        func(c *capture) { c.IsBinary([]byte{0x01, 0x02}, []byte{0x01, 0x02}, "m") },
		wantStdout: "ok 1 - m\n",
	},
	{
		name:       "byte length mismatch",
		run:        func(c *capture) { c.IsBinary([]byte{0x01}, []byte{0x01, 0x02}, "m") },
		wantStdout: "not ok 1 - m\n",
		wantStderr: "# Expected 2 bytes chars, but got 1 bytes chars\n",
	},
	{
		name:       "byte content mismatch",
		run:        func(c *capture) { c.IsBinary([]byte{0x01, 0xFF}, []byte{0x01, 0xAA}, "m") },
		wantStdout: "not ok 1 - m\n",
		wantStderr: "# Expected aa but got 255, at 1\n",
	},
	{
		name: "substrings",
		run: func(c *capture) {
			c.ContainsString("hello world", "world", "m")
			c.ContainsString("hello", "world", "m")
		},
		wantStdout: "ok 1 - m\nnot ok 2 - m\n",
	},
	{
		name: "diagnostics and notes",
		run: func(c *capture) {
			c.Diag("to stderr")
			c.Note("to stdout")
		},
		wantStdout: "# to stdout\n",
		wantStderr: "# to stderr\n",
	},
	{
		name: "plan after the tests",
		run: func(c *capture) {
			c.Ok(true, "a")
			c.Ok(true, "b")
			c.DoneTesting()
		},
		wantStdout: "ok 1 - a\nok 2 - b\n1..2\n",
		finished:   true,
	},
}

// finish ends the captured run and returns every parse and validation
// problem of its output.
func finish(c *capture, check selfCheck) error {
	if !check.finished {
		c.DoneTesting()
	}
	doc, err := tap.Parse(c.stdout.Bytes())
	return multierr.Append(err, doc.Validate())
}

func (cmd *selftestCmd) execute(ctx context.Context) tap.Summary {
	r := tap.NewReporter(ctx)
	if cmd.header {
		r.Header()
	}
	for _, check := range selfChecks {
		c := newCapture(ctx)
		check.run(c)
		r.Note(check.name)
		// Quoted, so that a mismatch cannot inject TAP lines into this stream.
		tap.Is(r, strconv.Quote(c.stdout.String()), strconv.Quote(check.wantStdout), check.name+": stdout")
		tap.Is(r, strconv.Quote(c.stderr.String()), strconv.Quote(check.wantStderr), check.name+": stderr")

		err := finish(c, check)
		r.Ok(err == nil, fmt.Sprintf("%s: output is valid TAP", check.name))
		for _, err := range multierr.Errors(err) {
			r.Diagf("%s: %s", check.name, err)
		}
	}
	summary := r.DoneTesting()
	logger.Debugf(ctx, "selftest summary: %+v", summary)
	return summary
}

func (cmd *selftestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if cmd.execute(ctx).OK() {
		return subcommands.ExitSuccess
	}
	return subcommands.ExitFailure
}
