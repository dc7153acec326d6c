// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

// Directive modifies how a test line is interpreted.
type Directive int

const (
	None Directive = iota

	// Todo marks a test that is expected to fail. Its failure does not fail the run.
	Todo

	// Skip marks a test that was not run.
	Skip
)

func (d Directive) String() string {
	switch d {
	case Todo:
		return "TODO"
	case Skip:
		return "SKIP"
	}
	return ""
}
