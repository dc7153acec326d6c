// Copyright 2020 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tap implements support for the Test Anything Protocol, a
// language-agnostic format for outputting the results of tests:
// https://testanything.org.
//
// A Reporter is the writing side. Test programs make assertions on it and it
// streams numbered result lines to stdout and advisory diagnostics to stderr:
//
//	r := tap.NewReporter(ctx)
//	r.Ok(conn != nil, "connects")
//	tap.Is(r, resp.Code, 200, "status code")
//	os.Exit(r.DoneTesting().ExitCode())
//
// Parse is the reading side; it turns a TAP stream back into a Document.
package tap
