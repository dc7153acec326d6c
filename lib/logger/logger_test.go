// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"context"
	"testing"

	"go.fuchsia.dev/nanotap/lib/color"
)

func TestWithContext(t *testing.T) {
	logger := NewLogger(DebugLevel, color.NewColor(color.ColorNever), nil, nil, "")
	ctx := context.Background()
	if v := LoggerFromContext(ctx); v != nil {
		t.Fatalf("Default context should not have a logger, got %+v", v)
	}
	ctx = WithLogger(ctx, logger)
	if v := LoggerFromContext(ctx); v != logger {
		t.Fatalf("Updated context should carry the logger, got %+v", v)
	}
}

func TestLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(WarningLevel, color.NewColor(color.ColorNever), &out, &errOut, "nanotap ")
	l.SetFlags(0)
	ctx := WithLogger(context.Background(), l)

	Infof(ctx, "hidden %d", 1)
	Debugf(ctx, "hidden %d", 2)
	Warningf(ctx, "plan mismatch in %s", "a.tap")
	Errorf(ctx, "cannot read %s", "b.tap")

	if out.Len() != 0 {
		t.Errorf("Expected nothing on the out writer, got %q", out.String())
	}
	want := "nanotap WARN: plan mismatch in a.tap\nnanotap ERROR: cannot read b.tap\n"
	if got := errOut.String(); got != want {
		t.Errorf("Unexpected error output.\nExpected: %q\nbut got: %q", want, got)
	}
}

func TestVerboseLevelsUseOutWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(TraceLevel, color.NewColor(color.ColorNever), &out, &errOut, "")
	l.SetFlags(0)
	l.Infof("info")
	l.Debugf("debug")
	l.Tracef("trace")
	want := "info\nDEBUG: debug\nTRACE: trace\n"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected nothing on the error writer, got %q", errOut.String())
	}
}

func TestLogLevelFlag(t *testing.T) {
	var level LogLevel
	if err := level.Set("debug"); err != nil {
		t.Fatal(err)
	}
	if level != DebugLevel || level.String() != "debug" {
		t.Errorf("Set(%q) produced %v", "debug", level)
	}
	if err := level.Set("loud"); err == nil {
		t.Errorf("Set(%q) should fail", "loud")
	}
}
