// Copyright 2022 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

// Summary tallies a finished run.
type Summary struct {
	// Planned is the number of tests in the plan line.
	Planned int
	// Run is the number of test lines reported.
	Run int
	// Failed counts failures without a TODO directive.
	Failed int
	// Todo counts tests with a TODO directive, passing or not.
	Todo int
	// Skipped counts tests with a SKIP directive.
	Skipped int
	// BailedOut is set when the run was aborted with "Bail out!".
	BailedOut bool
}

// OK reports whether the run passed: nothing failed, the run was not aborted,
// and every planned test was reported.
func (s Summary) OK() bool {
	return s.Failed == 0 && !s.BailedOut && s.Planned == s.Run
}

// ExitCode is the process exit status a test driver should use for this run.
func (s Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}
