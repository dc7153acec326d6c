// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"

	"go.fuchsia.dev/nanotap/lib/logger"
	"go.fuchsia.dev/nanotap/lib/streams"
)

// ErrDone is returned by operations that write to a Reporter after its run
// has finished.
var ErrDone = errors.New("tap: reporter is done testing")

// Reporter evaluates assertions and reports them as a TAP stream.
//
// Result lines, plan lines, notes and failure details go to stdout. Diagnostics
// go to stderr. Every assertion, passing or failing, takes the next ordinal,
// starting at 1. A Reporter is safe for concurrent use; each assertion and its
// detail lines are written without interleaving.
type Reporter struct {
	*run

	// directive and reason mark every assertion made through this Reporter.
	// They are fixed when the Reporter is created, see Todo.
	directive Directive
	reason    string
}

// run is the state shared by a Reporter and the Reporters derived from it.
type run struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	log    *logger.Logger

	testNumber int
	planned    int
	failed     int
	todo       int
	skipped    int
	bailedOut  bool
	skippedAll bool
	started    bool
	done       bool

	err error
}

// NewReporter creates a Reporter that writes to the standard streams of ctx
// (see package streams). A logger on ctx receives traces of misuse and of
// failed writes.
func NewReporter(ctx context.Context) *Reporter {
	return &Reporter{run: &run{
		stdout: streams.Stdout(ctx),
		stderr: streams.Stderr(ctx),
		log:    logger.LoggerFromContext(ctx),
	}}
}

// Header outputs the TAP version line. It must come before any other output.
func (r *Reporter) Header() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		r.misuse("TAP version", "header after output")
		return
	}
	r.printOut("TAP version 13")
}

// Plan outputs the TAP plan line: 1..count. If count <= 0, nothing is printed.
// DoneTesting does not print a second plan when one was declared here.
func (r *Reporter) Plan(count int) {
	if count <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done || r.planned > 0 || r.testNumber > 0 {
		r.misuse(fmt.Sprintf("1..%d", count), "plan must be declared once, before any test")
		return
	}
	r.planned = count
	r.printOut("1..%d", count)
}

// SkipAll declares that the whole run is skipped and finishes it.
func (r *Reporter) SkipAll(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done || r.planned > 0 || r.testNumber > 0 {
		r.misuse(reason, "skip all after tests were planned or run")
		return
	}
	r.printOut("1..0 # SKIP %s", reason)
	r.skippedAll = true
	r.done = true
}

// Ok outputs a test line containing the given description and starting with
// either "ok" if test is true or "not ok" if false. It returns test.
func (r *Reporter) Ok(test bool, description string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(description) {
		return false
	}
	return r.ok(test, description)
}

// Todo returns a Reporter for the same run whose assertions carry a TODO
// directive, so that r.Todo("flaky").Ok(...) reports an expected failure.
// Assertions made through r itself are unaffected.
func (r *Reporter) Todo(reason string) *Reporter {
	return &Reporter{run: r.run, directive: Todo, reason: reason}
}

// Skip reports a test that was not run. Skipped tests always pass.
func (r *Reporter) Skip(description, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(description) {
		return
	}
	skip := &Reporter{run: r.run, directive: Skip, reason: reason}
	skip.ok(true, description)
}

// Diag writes "# message" to stderr. Diagnostics never count as results.
func (r *Reporter) Diag(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printErr("# %s", message)
}

// Diagf is Diag with fmt.Sprintf formatting.
func (r *Reporter) Diagf(format string, a ...interface{}) {
	r.Diag(fmt.Sprintf(format, a...))
}

// Note writes "# message" to stdout, where a TAP consumer may show it inline
// with the results.
func (r *Reporter) Note(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printOut("# %s", message)
}

// Notef is Note with fmt.Sprintf formatting.
func (r *Reporter) Notef(format string, a ...interface{}) {
	r.Note(fmt.Sprintf(format, a...))
}

// BailOut aborts the run. No further tests are accepted and DoneTesting prints
// no plan.
func (r *Reporter) BailOut(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(reason) {
		return
	}
	r.printOut("Bail out! %s", reason)
	r.bailedOut = true
	r.done = true
}

// DoneTesting outputs the plan line "1..N", where N is the number of tests
// run, unless a plan was already declared, and returns the run summary.
//
// The Reporter never exits the process. Drivers usually end with
// os.Exit(r.DoneTesting().ExitCode()).
func (r *Reporter) DoneTesting() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		if !r.bailedOut && !r.skippedAll {
			r.misuse("1..", "done testing called more than once")
		}
		return r.summary()
	}
	if r.planned == 0 {
		r.printOut("1..%d", r.testNumber)
	}
	r.done = true
	return r.summary()
}

// Count returns the number of assertions reported so far.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.testNumber
}

// Err returns every error met while writing to the output streams. Write
// failures never interrupt assertions.
func (r *Reporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Reporter) summary() Summary {
	planned := r.planned
	if planned == 0 && !r.bailedOut {
		planned = r.testNumber
	}
	return Summary{
		Planned:   planned,
		Run:       r.testNumber,
		Failed:    r.failed,
		Todo:      r.todo,
		Skipped:   r.skipped,
		BailedOut: r.bailedOut,
	}
}

// ok writes the test line with r's directive. The caller holds r.mu.
func (r *Reporter) ok(test bool, description string) bool {
	r.testNumber++

	ok := "ok"
	if !test {
		ok = "not ok"
	}

	switch r.directive {
	case None:
		r.printOut("%s %d - %s", ok, r.testNumber, description)
		if !test {
			r.failed++
		}
	case Todo:
		r.printOut("%s %d - %s # TODO %s", ok, r.testNumber, description, r.reason)
		r.todo++
	case Skip:
		r.printOut("%s %d - %s # SKIP %s", ok, r.testNumber, description, r.reason)
		r.skipped++
	}

	return test
}

// finished rejects an operation on a Reporter whose run is over. The caller
// holds r.mu.
func (r *Reporter) finished(what string) bool {
	if !r.done {
		return false
	}
	r.misuse(what, "assertion after done testing")
	return true
}

func (r *Reporter) misuse(what, problem string) {
	r.printErr("# %s: %s", what, problem)
	if r.log != nil {
		r.log.Debugf("tap reporter misuse at test %d: %s: %s", r.testNumber, what, problem)
	}
}

func (r *Reporter) printOut(format string, args ...interface{}) {
	r.started = true
	r.println(r.stdout, format, args...)
}

func (r *Reporter) printErr(format string, args ...interface{}) {
	r.println(r.stderr, format, args...)
}

func (r *Reporter) println(w io.Writer, format string, args ...interface{}) {
	if _, err := fmt.Fprintf(w, format+"\n", args...); err != nil {
		r.err = multierr.Append(r.err, fmt.Errorf("writing TAP output: %w", err))
		if r.log != nil {
			r.log.Debugf("failed to write TAP output: %s", err)
		}
	}
}
