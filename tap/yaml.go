// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

const yamlIndent = "  "

// YAML marshals v and writes it as a YAML diagnostic block attached to the
// preceding test line. The block is indented; callers pass the value, not
// preformatted text.
func (r *Reporter) YAML(v interface{}) error {
	content, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML block: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return ErrDone
	}
	// Chomp empty lines from the end of the document.
	body := strings.TrimRight(string(content), "\n")
	r.printOut("%s---", yamlIndent)
	r.printOut("%s", indent(body))
	r.printOut("%s...", yamlIndent)
	return nil
}

// indent prefixes every non-empty line of the input text with yamlIndent.
func indent(input string) string {
	var b strings.Builder
	startOfLine := true
	for _, c := range input {
		if startOfLine && c != '\n' {
			b.WriteString(yamlIndent)
		}
		b.WriteRune(c)
		startOfLine = c == '\n'
	}
	return b.String()
}
