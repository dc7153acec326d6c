// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package streams

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	if s := Stdin(ctx); s != os.Stdin {
		t.Errorf("Expected Stdin to be os.Stdin, got %+v", s)
	}
	if s := Stdout(ctx); s != os.Stdout {
		t.Errorf("Expected Stdout to be os.Stdout, got %+v", s)
	}
	if s := Stderr(ctx); s != os.Stderr {
		t.Errorf("Expected Stderr to be os.Stderr, got %+v", s)
	}
}

func TestOverrides(t *testing.T) {
	in := strings.NewReader("ok 1\n")
	var out, errOut bytes.Buffer
	ctx := ContextWithStdin(context.Background(), in)
	ctx = ContextWithStdout(ctx, &out)
	ctx = ContextWithStderr(ctx, &errOut)

	if s := Stdin(ctx); s != in {
		t.Errorf("Expected Stdin to be the reader, got %+v", s)
	}
	if s := Stdout(ctx); s != &out {
		t.Errorf("Expected Stdout to be a buffer, got %+v", s)
	}
	if s := Stderr(ctx); s != &errOut {
		t.Errorf("Expected Stderr to be a buffer, got %+v", s)
	}
}

func TestNilOverrideFallsBack(t *testing.T) {
	ctx := ContextWithStdout(context.Background(), nil)
	if s := Stdout(ctx); s != os.Stdout {
		t.Errorf("Expected nil override to fall back to os.Stdout, got %+v", s)
	}
}
