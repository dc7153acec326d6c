// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

// Version is the TAP version a stream declares. Streams without a version
// line are version 12.
type Version int

const (
	V12 Version = 12
	V13 Version = 13
)

// Document is a parsed TAP stream.
type Document struct {
	Version   Version
	Plan      Plan
	TestLines []TestLine
	// Comments holds unindented "#" lines, such as notes.
	Comments []string
	// BailedOut is set when the stream contains "Bail out!". Nothing after it
	// is parsed.
	BailedOut     bool
	BailOutReason string
}

// Plan is the "Start..End" line of a stream. The zero Plan means none was found.
type Plan struct {
	Start int
	End   int
	// Skip is the reason given by a "1..0 # SKIP reason" plan.
	Skip string
}

// Found reports whether the stream had a plan line.
func (p Plan) Found() bool {
	return p.Start != 0 || p.End != 0
}

// TestLine is a single "ok" or "not ok" line and the detail that followed it.
type TestLine struct {
	Ok          bool
	Count       int
	Description string
	Directive   Directive
	Explanation string
	// Diagnostics holds the text of indented "#" lines after the test line.
	Diagnostics []string
	// YAML holds the body of a YAML block after the test line, unindented.
	YAML string
}

// DecodeYAML unmarshals the test line's YAML block into v.
func (t TestLine) DecodeYAML(v interface{}) error {
	if t.YAML == "" {
		return fmt.Errorf("test %d has no YAML block", t.Count)
	}
	return yaml.Unmarshal([]byte(t.YAML), v)
}

// Failed reports whether the test line counts as a failure of the run.
func (t TestLine) Failed() bool {
	return !t.Ok && t.Directive == None
}

// Summarize tallies the document the same way a Reporter tallies its run.
func (d *Document) Summarize() Summary {
	s := Summary{
		Planned:   d.Plan.End,
		Run:       len(d.TestLines),
		BailedOut: d.BailedOut,
	}
	for _, t := range d.TestLines {
		switch {
		case t.Directive == Todo:
			s.Todo++
		case t.Directive == Skip:
			s.Skipped++
		case !t.Ok:
			s.Failed++
		}
	}
	return s
}

// Validate checks the stream against the TAP contract: one plan starting at 1
// whose count matches the tests reported, and tests numbered contiguously from
// 1. Every problem found is returned, combined.
func (d *Document) Validate() error {
	var errs error
	switch {
	case !d.Plan.Found():
		if !d.BailedOut {
			errs = multierr.Append(errs, fmt.Errorf("missing plan"))
		}
	case d.Plan.Start != 1:
		errs = multierr.Append(errs, fmt.Errorf("plan must start at 1, not %d", d.Plan.Start))
	case d.Plan.End != len(d.TestLines) && !d.BailedOut:
		errs = multierr.Append(errs, fmt.Errorf("planned %d tests but ran %d", d.Plan.End, len(d.TestLines)))
	}
	for i, t := range d.TestLines {
		if t.Count != i+1 {
			errs = multierr.Append(errs, fmt.Errorf("test %d is numbered %d", i+1, t.Count))
		}
	}
	return errs
}
