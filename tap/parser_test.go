// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Document
	}{
		{
			name:  "reporter output without a version line",
			input: "ok 1 - a\nnot ok 2 - b\n  # got      : 1\n  # expected : 2\n1..2\n",
			want: &Document{
				Version: V12,
				Plan:    Plan{Start: 1, End: 2},
				TestLines: []TestLine{
					{Ok: true, Count: 1, Description: "a"},
					{Ok: false, Count: 2, Description: "b", Diagnostics: []string{"got      : 1", "expected : 2"}},
				},
			},
		},
		{
			name: "version 13 with directives and a leading plan",
			input: strings.TrimSpace(`
TAP version 13
1..3
ok 1 - first # SKIP no network
not ok 2 second # todo later
ok third
`),
			want: &Document{
				Version: V13,
				Plan:    Plan{Start: 1, End: 3},
				TestLines: []TestLine{
					{Ok: true, Count: 1, Description: "first", Directive: Skip, Explanation: "no network"},
					{Ok: false, Count: 2, Description: "second", Directive: Todo, Explanation: "later"},
					{Ok: true, Count: 3, Description: "third"},
				},
			},
		},
		{
			name:  "notes and empty descriptions",
			input: "# starting\nok 1 - \nok 2\n# between\n1..2",
			want: &Document{
				Version:  V12,
				Plan:     Plan{Start: 1, End: 2},
				Comments: []string{"starting", "between"},
				TestLines: []TestLine{
					{Ok: true, Count: 1},
					{Ok: true, Count: 2},
				},
			},
		},
		{
			name:  "pound signs in descriptions",
			input: "ok 1 - fixes #42\nok 2 - escaped \\# sign\nok 3 - a # b\nok 4 - c  #  d # e\n1..4\n",
			want: &Document{
				Version: V12,
				Plan:    Plan{Start: 1, End: 4},
				TestLines: []TestLine{
					{Ok: true, Count: 1, Description: "fixes #42"},
					{Ok: true, Count: 2, Description: "escaped # sign"},
					{Ok: true, Count: 3, Description: "a # b"},
					{Ok: true, Count: 4, Description: "c  #  d # e"},
				},
			},
		},
		{
			name:  "skipped plan",
			input: "1..0 # SKIP no device attached\n",
			want: &Document{
				Version: V12,
				Plan:    Plan{Start: 1, End: 0, Skip: "no device attached"},
			},
		},
		{
			name:  "yaml block",
			input: "not ok 1 - a\n  ---\n  code: 3\n  nested:\n    key: value\n  ...\n1..1\n",
			want: &Document{
				Version: V12,
				Plan:    Plan{Start: 1, End: 1},
				TestLines: []TestLine{
					{Ok: false, Count: 1, Description: "a", YAML: "code: 3\nnested:\n  key: value\n"},
				},
			},
		},
		{
			name:  "bail out stops parsing",
			input: "ok 1 - a\nBail out! database is down\nok 2 - b\n1..2\n",
			want: &Document{
				Version:       V12,
				BailedOut:     true,
				BailOutReason: "database is down",
				TestLines: []TestLine{
					{Ok: true, Count: 1, Description: "a"},
				},
			},
		},
		{
			name:  "windows line endings and blank lines",
			input: "ok 1 - a\r\n\r\nok 2 - b\r\n1..2\r\n",
			want: &Document{
				Version: V12,
				Plan:    Plan{Start: 1, End: 2},
				TestLines: []TestLine{
					{Ok: true, Count: 1, Description: "a"},
					{Ok: true, Count: 2, Description: "b"},
				},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse([]byte(test.input))
			if err != nil {
				t.Errorf("Parse() returned errors: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseGarbage(t *testing.T) {
	input := strings.Join([]string{
		"make: entering directory",
		"ok 1 - a",
		"1..x",
		"not okay",
		"ok 2 - b",
		"1..2",
		"1..2",
		"",
	}, "\n")
	doc, err := Parse([]byte(input))
	if got := len(multierr.Errors(err)); got != 4 {
		t.Errorf("expected 4 parse errors, got %d: %v", got, err)
	}
	want := &Document{
		Version: V12,
		Plan:    Plan{Start: 1, End: 2},
		TestLines: []TestLine{
			{Ok: true, Count: 1, Description: "a"},
			{Ok: true, Count: 2, Description: "b"},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBadYAML(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		doc, err := Parse([]byte("not ok 1 - a\n  ---\n  key: [unclosed\n  ...\n1..1\n"))
		if err == nil || !strings.Contains(err.Error(), "invalid YAML block after test 1") {
			t.Errorf("expected an invalid YAML error, got %v", err)
		}
		if doc.Plan.End != 1 {
			t.Errorf("parsing should continue after a bad YAML block, plan = %+v", doc.Plan)
		}
	})

	t.Run("unterminated", func(t *testing.T) {
		_, err := Parse([]byte("not ok 1 - a\n  ---\n  key: value\n"))
		if err == nil || !strings.Contains(err.Error(), "unterminated YAML block") {
			t.Errorf("expected an unterminated YAML error, got %v", err)
		}
	})

	t.Run("orphaned", func(t *testing.T) {
		_, err := Parse([]byte("  ---\n  key: value\n  ...\n"))
		if err == nil || !strings.Contains(err.Error(), "without a test line") {
			t.Errorf("expected an orphaned YAML error, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "valid",
			input: "ok 1\nnot ok 2\n1..2\n",
		},
		{
			name:  "missing plan",
			input: "ok 1\n",
			want:  []string{"missing plan"},
		},
		{
			name:  "count mismatch",
			input: "1..3\nok 1\nok 2\n",
			want:  []string{"planned 3 tests but ran 2"},
		},
		{
			name:  "out of sequence",
			input: "ok 1\nok 3\nok 2\n1..3\n",
			want:  []string{"test 2 is numbered 3", "test 3 is numbered 2"},
		},
		{
			name:  "plan not starting at one",
			input: "2..3\nok 1\nok 2\n",
			want:  []string{"plan must start at 1, not 2"},
		},
		{
			name:  "bail out forgives the plan",
			input: "1..3\nok 1\nBail out! stop\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := Parse([]byte(test.input))
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			var got []string
			for _, err := range multierr.Errors(doc.Validate()) {
				got = append(got, err.Error())
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	doc, err := Parse([]byte("1..5\nok 1\nnot ok 2\nnot ok 3 # TODO x\nok 4 # SKIP y\nok 5\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	want := Summary{Planned: 5, Run: 5, Failed: 1, Todo: 1, Skipped: 1}
	if diff := cmp.Diff(want, doc.Summarize()); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

// The reporter's output must always read back as the run it reported.
func TestReporterRoundTrip(t *testing.T) {
	r, stdout, _ := newTestReporter()
	r.Header()
	r.Note("setup")
	r.Ok(true, "connects")
	Is(r, "pong", "ping", "echo")
	if err := r.YAML(map[string]interface{}{"attempts": 2, "host": "localhost"}); err != nil {
		t.Fatal(err)
	}
	r.IsBinary([]byte{1}, []byte{1, 2}, "payload")
	r.ContainsString("hello world", "world", "greeting")
	r.Todo("unimplemented").Ok(false, "compression")
	r.Skip("ipv6", "no ipv6 route")
	r.IsDeeply([]int{1, 2}, []int{1, 3}, "slices")
	summary := r.DoneTesting()

	doc, err := Parse(stdout.Bytes())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
	if doc.Version != V13 {
		t.Errorf("Version = %d, want %d", doc.Version, V13)
	}
	if diff := cmp.Diff(summary, doc.Summarize()); diff != "" {
		t.Errorf("parsed summary differs (-reporter +parsed):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"setup"}, doc.Comments); diff != "" {
		t.Errorf("unexpected comments (-want +got):\n%s", diff)
	}

	echo := doc.TestLines[1]
	if diff := cmp.Diff([]string{"got      : pong", "expected : ping"}, echo.Diagnostics); diff != "" {
		t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
	}
	var block struct {
		Attempts int
		Host     string
	}
	if err := echo.DecodeYAML(&block); err != nil {
		t.Fatalf("DecodeYAML() failed: %v", err)
	}
	if block.Attempts != 2 || block.Host != "localhost" {
		t.Errorf("DecodeYAML() = %+v", block)
	}
	if err := doc.TestLines[0].DecodeYAML(&block); err == nil {
		t.Errorf("DecodeYAML() on a line without a block should fail")
	}
}
