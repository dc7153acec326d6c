// Copyright 2022 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/google/subcommands"
	"github.com/kr/pretty"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.fuchsia.dev/nanotap/lib/color"
	"go.fuchsia.dev/nanotap/lib/logger"
	"go.fuchsia.dev/nanotap/lib/streams"
	"go.fuchsia.dev/nanotap/tap"
)

const stdinName = "-"

type checkCmd struct {
	strict bool

	// color overrides the -color flag.
	color color.Color
}

func (*checkCmd) Name() string {
	return "check"
}

func (*checkCmd) Usage() string {
	return `check [flags...] [files...]

Reads TAP streams from the named files, or from stdin when none are named
or a name is "-", and reports whether each stream passed. A stream passes
when it has a valid plan, every planned test ran, and no test failed outside
a TODO directive.

flags:
`
}

func (*checkCmd) Synopsis() string {
	return "checks TAP streams for failures and plan problems"
}

func (cmd *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.strict, "strict", false, "also fail streams that contain lines that are not TAP")
}

// stream is one parsed input.
type stream struct {
	name     string
	doc      *tap.Document
	parseErr error
}

func (s *stream) displayName() string {
	if s.name == stdinName {
		return "<stdin>"
	}
	return s.name
}

func (cmd *checkCmd) execute(ctx context.Context, names ...string) (bool, error) {
	if len(names) == 0 {
		names = []string{stdinName}
	}

	results := make([]*stream, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			data, err := readStream(gctx, name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			doc, parseErr := tap.Parse(data)
			results[i] = &stream{name: name, doc: doc, parseErr: parseErr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	c := cmd.color
	if c == nil {
		c = color.NewColor(colors)
	}
	out := streams.Stdout(ctx)
	allPassed := true
	for _, s := range results {
		logger.Debugf(ctx, "%s: %# v", s.displayName(), pretty.Formatter(s.doc))
		if !cmd.report(ctx, out, c, s) {
			allPassed = false
		}
	}
	return allPassed, nil
}

// report prints the verdict for one stream and returns whether it passed.
func (cmd *checkCmd) report(ctx context.Context, w io.Writer, c color.Color, s *stream) bool {
	summary := s.doc.Summarize()
	problems := multierr.Errors(s.doc.Validate())
	garbage := multierr.Errors(s.parseErr)
	for _, err := range garbage {
		logger.Debugf(ctx, "%s: %s", s.displayName(), err)
	}

	passed := summary.OK() && len(problems) == 0
	if cmd.strict && len(garbage) > 0 {
		passed = false
		problems = append(problems, garbage...)
	}

	verdict := c.Green("PASS")
	if !passed {
		verdict = c.Red("FAIL")
	}
	fmt.Fprintf(w, "%s %s: %s\n", verdict, s.displayName(), describe(summary, s.doc))

	for _, t := range s.doc.TestLines {
		if !t.Failed() {
			continue
		}
		fmt.Fprintf(w, "  %s\n", c.Red("not ok %d - %s", t.Count, t.Description))
		for _, d := range t.Diagnostics {
			fmt.Fprintf(w, "    # %s\n", d)
		}
		if t.YAML != "" {
			for _, line := range strings.Split(strings.TrimRight(t.YAML, "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  %s %s\n", c.Yellow("problem:"), p)
	}
	return passed
}

// describe renders counts like "1,024 tests, 2 failed, 1 todo".
func describe(s tap.Summary, doc *tap.Document) string {
	if doc.Plan.Skip != "" {
		return "skipped: " + doc.Plan.Skip
	}
	parts := []string{count(s.Run, "test")}
	if s.Failed > 0 {
		parts = append(parts, humanize.Comma(int64(s.Failed))+" failed")
	}
	if s.Todo > 0 {
		parts = append(parts, humanize.Comma(int64(s.Todo))+" todo")
	}
	if s.Skipped > 0 {
		parts = append(parts, humanize.Comma(int64(s.Skipped))+" skipped")
	}
	if s.Planned != s.Run && doc.Plan.Found() {
		parts = append(parts, count(s.Planned, "test")+" planned")
	}
	desc := strings.Join(parts, ", ")
	if s.BailedOut {
		desc += fmt.Sprintf(" (bailed out: %s)", doc.BailOutReason)
	}
	return desc
}

func count(n int, noun string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, noun, "")
}

func readStream(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == stdinName {
		return ioutil.ReadAll(streams.Stdin(ctx))
	}
	return ioutil.ReadFile(name)
}

func (cmd *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	passed, err := cmd.execute(ctx, f.Args()...)
	if err != nil {
		logger.Errorf(ctx, "%s", err)
		return subcommands.ExitFailure
	}
	if !passed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
