// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package streams lets code reach the standard streams through a context so
// that tests can substitute their own readers and writers.
package streams

import (
	"context"
	"io"
	"os"
)

type streamKeyType string

const (
	stdinKey  = streamKeyType("stdin")
	stdoutKey = streamKeyType("stdout")
	stderrKey = streamKeyType("stderr")
)

// Stdin returns os.Stdin or the reader associated with the given context.
func Stdin(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey).(io.Reader); ok && r != nil {
		return r
	}
	return os.Stdin
}

// Stdout returns os.Stdout or the mocked stdout writer associated with the
// given context.
//
// Reporters write TAP result lines here.
func Stdout(ctx context.Context) io.Writer {
	return getWriter(ctx, stdoutKey, os.Stdout)
}

// Stderr returns os.Stderr or the mocked stderr writer associated with the
// given context.
//
// Reporters write advisory diagnostics here.
func Stderr(ctx context.Context) io.Writer {
	return getWriter(ctx, stderrKey, os.Stderr)
}

func getWriter(ctx context.Context, key streamKeyType, def *os.File) io.Writer {
	if w, ok := ctx.Value(key).(io.Writer); ok && w != nil {
		return w
	}
	return def
}

// ContextWithStdin overrides os.Stdin for code that reads it through
// Stdin(ctx).
func ContextWithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey, r)
}

// ContextWithStdout overrides os.Stdout for all code that uses the returned
// context, as long as it accesses stdout using `streams.Stdout(ctx)` instead of
// using `os.Stdout` directly.
//
// This should only be used in tests; production code should never override
// os.Stdout.
func ContextWithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey, w)
}

// ContextWithStderr overrides os.Stderr the same way ContextWithStdout
// overrides os.Stdout.
func ContextWithStderr(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey, w)
}
