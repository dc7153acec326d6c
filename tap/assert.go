// Copyright 2022 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Is reports whether got == expected. On failure the two values follow the
// test line on stdout:
//
//	not ok 4 - status code
//	  # got      : 404
//	  # expected : 200
func Is[T comparable](r *Reporter, got, expected T, description string) bool {
	return r.is(got == expected, got, expected, description)
}

// IsText compares the text renderings of got and expected. It bridges values
// of different types that read the same, such as a []byte or a fmt.Stringer
// against a string literal. A []byte renders as its contents.
func (r *Reporter) IsText(got, expected interface{}, description string) bool {
	g, e := text(got), text(expected)
	return r.is(g == e, g, e, description)
}

func text(v interface{}) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func (r *Reporter) is(equal bool, got, expected interface{}, description string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(description) {
		return false
	}
	if r.ok(equal, description) {
		return true
	}
	r.printOut("  # got      : %v", got)
	r.printOut("  # expected : %v", expected)
	return false
}

// IsDeeply reports whether got and expected are deeply equal according to
// cmp.Equal. On failure the diff follows the test line as comment lines.
// Values that cmp cannot compare, such as structs with unexported fields,
// fail the test with the reason.
func (r *Reporter) IsDeeply(got, expected interface{}, description string) bool {
	equal, diff := deepCompare(got, expected)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(description) {
		return false
	}
	if r.ok(equal, description) {
		return true
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		r.printOut("  # %s", line)
	}
	return false
}

func deepCompare(got, expected interface{}) (equal bool, diff string) {
	defer func() {
		if p := recover(); p != nil {
			equal, diff = false, fmt.Sprintf("cannot compare: %v", p)
		}
	}()
	if cmp.Equal(got, expected) {
		return true, ""
	}
	return false, "(-expected +got)\n" + cmp.Diff(expected, got)
}

// IsBinary reports whether got and expected hold the same bytes. Only the
// first difference is diagnosed, on stderr: a length mismatch, or else the
// first differing index with the expected byte in hex and the got byte in
// decimal.
func (r *Reporter) IsBinary(got, expected []byte, description string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished(description) {
		return false
	}
	if len(got) != len(expected) {
		r.ok(false, description)
		r.printErr("# Expected %d bytes chars, but got %d bytes chars", len(expected), len(got))
		return false
	}
	for i := range got {
		if got[i] != expected[i] {
			r.ok(false, description)
			r.printErr("# Expected %x but got %d, at %d", expected[i], got[i], i)
			return false
		}
	}
	return r.ok(true, description)
}

// ContainsString reports whether needle is within haystack. Failures carry no
// detail lines.
func (r *Reporter) ContainsString(haystack, needle, description string) bool {
	return r.Ok(strings.Contains(haystack, needle), description)
}
