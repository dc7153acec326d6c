// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"go.fuchsia.dev/nanotap/tap/tokenizer"
)

// Parse parses the given input into a Document. The input is allowed to
// contain garbage lines; the parser skips them and parses as much of the input
// as possible. The returned Document is never nil. The returned error combines
// one error per line that could not be parsed; callers that only want the
// results may ignore it.
func Parse(input []byte) (*Document, error) {
	tokens := tokenizer.NewTokenStream(input)
	doc := &Document{Version: V12}

	var errs error
	for state := parseVersion; state != nil; {
		next, err := state(tokens, doc)
		if err != nil {
			// Garbage lines are allowed; treat errors as non-fatal.
			errs = multierr.Append(errs, err)
		}
		state = next
	}
	return doc, errs
}

// state represents a parser state. Each state takes the current stream of
// input tokens and the current Document and attempts to parse the next line of
// input. A state must return the next state to use, even when an error is
// encountered. If nil is returned, parsing stops.
type state func(*tokenizer.TokenStream, *Document) (state, error)

// discardLine is a parser state that throws away every token until a newline or EOF.
func discardLine(tokens *tokenizer.TokenStream, _ *Document) (state, error) {
	for {
		token := tokens.Peek()
		switch {
		case token.Type == tokenizer.TypeEOF:
			return nil, nil
		case token.Type != tokenizer.TypeNewline:
			tokens.Next()
		default:
			tokens.Next() // Skip the newline.
			return parseNextLine, nil
		}
	}
}

func parseNextLine(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
	indent := 0
	if token := tokens.Raw().Peek(); token.Type == tokenizer.TypeSpace {
		indent = len(token.Value)
	}

	token := tokens.Peek()
	switch {
	case token.Type == tokenizer.TypeEOF:
		return nil, nil
	case token.Type == tokenizer.TypeNewline:
		tokens.Next()
		return parseNextLine, nil
	case token.Type == tokenizer.TypeNumber:
		return parsePlan, nil
	case token.Type == tokenizer.TypePound:
		return parseComment(indent > 0), nil
	case token.Value == "ok" || token.Value == "not":
		return parseTestLine, nil
	case token.Value == "---":
		return parseYAML(indent), nil
	case token.Value == "Bail":
		return parseBailOut, nil
	}
	return discardLine, unexpectedTokenError("one of 'ok', 'not', '#', 'Bail out!' or a number", token)
}

// parseVersion parses the optional "TAP version N" header.
func parseVersion(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
	if tokens.Peek().Value != "TAP" {
		return parseNextLine, nil
	}
	tokens.Next()

	token := tokens.Next()
	if token.Value != "version" {
		return discardLine, unexpectedTokenError("'version'", token)
	}

	token = tokens.Next()
	if token.Type != tokenizer.TypeNumber {
		return discardLine, unexpectedTokenError("a version number", token)
	}

	version, err := strconv.ParseInt(token.Value, 10, 64)
	if err != nil {
		return discardLine, parserError(err.Error())
	}

	doc.Version = Version(version)
	return endOfLine(tokens)
}

func parsePlan(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
	if doc.Plan.Found() {
		return discardLine, errors.New("plan has already been parsed")
	}

	start, err := parseNumber(tokens, "a number")
	if err != nil {
		return discardLine, err
	}

	if err := eat(tokens, tokenizer.TypeDot); err != nil {
		return discardLine, err
	}

	if err := eat(tokens, tokenizer.TypeDot); err != nil {
		return discardLine, err
	}

	end, err := parseNumber(tokens, "a number >= 0")
	if err != nil {
		return discardLine, err
	}

	doc.Plan = Plan{Start: start, End: end}

	if tokens.Peek().Type == tokenizer.TypePound {
		tokens.Next()
		token := tokens.Next()
		if !strings.HasPrefix(strings.ToUpper(token.Value), "SKIP") {
			return discardLine, unexpectedTokenError("'SKIP'", token)
		}
		doc.Plan.Skip = concat(tokens.Raw(), notEndOfLine)
	}
	return endOfLine(tokens)
}

func parseTestLine(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
	var testLine TestLine

	// Parse test status.
	token := tokens.Next()
	switch token.Value {
	case "not":
		testLine.Ok = false
		token = tokens.Next()
		if token.Value != "ok" {
			return discardLine, unexpectedTokenError("'ok'", token)
		}
	case "ok":
		testLine.Ok = true
	default:
		return discardLine, unexpectedTokenError("'ok' or 'not ok'", token)
	}

	// Parse optional test number.
	testLine.Count = len(doc.TestLines) + 1
	if tokens.Peek().Type == tokenizer.TypeNumber {
		count, err := parseNumber(tokens, "a test number")
		if err != nil {
			return discardLine, err
		}
		testLine.Count = count
	}

	// Parse optional description. Stop at a TypePound token which marks the
	// start of a directive.
	description := rawText(tokens.Raw(), func(tok tokenizer.Token) bool {
		return tok.Type != tokenizer.TypePound && notEndOfLine(tok)
	})

	if tokens.Raw().Peek().Type == tokenizer.TypePound {
		tokens.Raw().Next()
		rest := rawText(tokens.Raw(), notEndOfLine)
		word, explanation := splitWord(strings.TrimSpace(rest))
		switch word = strings.ToUpper(word); {
		case strings.HasPrefix(word, "TODO"):
			testLine.Directive = Todo
		case strings.HasPrefix(word, "SKIP"):
			testLine.Directive = Skip
		}
		if testLine.Directive == None {
			// An unescaped '#' inside the description.
			description += "#" + rest
		} else {
			testLine.Explanation = explanation
		}
	}
	description = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(description), "-"))
	testLine.Description = strings.ReplaceAll(description, `\#`, "#")

	doc.TestLines = append(doc.TestLines, testLine)
	return endOfLine(tokens)
}

// parseComment parses a "#" line. Indented comments are diagnostics of the
// preceding test line; the rest belong to the document.
func parseComment(indented bool) state {
	return func(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
		if err := eat(tokens, tokenizer.TypePound); err != nil {
			return discardLine, err
		}
		text := concat(tokens.Raw(), notEndOfLine)
		if n := len(doc.TestLines); indented && n > 0 {
			doc.TestLines[n-1].Diagnostics = append(doc.TestLines[n-1].Diagnostics, text)
		} else {
			doc.Comments = append(doc.Comments, text)
		}
		return endOfLine(tokens)
	}
}

// parseYAML parses a block from "---" through "...", removing up to indent
// leading blanks from every line.
func parseYAML(indent int) state {
	return func(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
		tokens.Next() // Skip the "---".
		if next, err := endOfLine(tokens); err != nil {
			return next, err
		}

		var lines []string
		terminated := false
		for {
			line, more := readLine(tokens.Raw())
			if strings.TrimSpace(line) == "..." {
				terminated = true
				break
			}
			if line != "" || more {
				lines = append(lines, trimIndent(line, indent))
			}
			if !more {
				break
			}
		}

		n := len(doc.TestLines)
		if n == 0 {
			return parseNextLine, parserError("YAML block without a test line")
		}
		body := strings.Join(lines, "\n") + "\n"
		doc.TestLines[n-1].YAML = body

		var errs error
		if !terminated {
			errs = multierr.Append(errs, parserError("unterminated YAML block after test %d", doc.TestLines[n-1].Count))
		}
		var v interface{}
		if err := yaml.Unmarshal([]byte(body), &v); err != nil {
			errs = multierr.Append(errs, parserError("invalid YAML block after test %d: %v", doc.TestLines[n-1].Count, err))
		}
		return parseNextLine, errs
	}
}

// parseBailOut parses "Bail out! reason". Parsing stops after it.
func parseBailOut(tokens *tokenizer.TokenStream, doc *Document) (state, error) {
	tokens.Next() // Skip the "Bail".
	if token := tokens.Next(); token.Value != "out!" {
		return discardLine, unexpectedTokenError("'out!'", token)
	}
	doc.BailedOut = true
	doc.BailOutReason = concat(tokens.Raw(), notEndOfLine)
	return nil, nil
}

// endOfLine consumes the newline ending the current line and moves on to the
// next one. Trailing garbage is an error.
func endOfLine(tokens *tokenizer.TokenStream) (state, error) {
	token := tokens.Peek()
	switch token.Type {
	case tokenizer.TypeEOF:
		return nil, nil
	case tokenizer.TypeNewline:
		tokens.Next()
		return parseNextLine, nil
	}
	return discardLine, unexpectedTokenError("end of line", token)
}

// readLine consumes the raw text of the rest of the current line and its
// newline. more is false when the input ended.
func readLine(tokens *tokenizer.RawTokenStream) (line string, more bool) {
	var b strings.Builder
	for {
		token := tokens.Next()
		switch token.Type {
		case tokenizer.TypeEOF:
			return b.String(), false
		case tokenizer.TypeNewline:
			return b.String(), true
		}
		b.WriteString(token.Value)
	}
}

func trimIndent(line string, indent int) string {
	i := 0
	for i < indent && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func parseNumber(tokens *tokenizer.TokenStream, wanted string) (int, error) {
	token := tokens.Peek()
	if token.Type != tokenizer.TypeNumber {
		return 0, unexpectedTokenError(wanted, token)
	}
	n, err := strconv.ParseInt(tokens.Next().Value, 10, 64)
	if err != nil {
		return 0, parserError(err.Error())
	}
	return int(n), nil
}

// eat consumes the next token from the stream iff its type matches typ. If the
// types are different, an error is returned.
func eat(tokens *tokenizer.TokenStream, typ tokenizer.TokenType) error {
	token := tokens.Peek()
	if token.Type != typ {
		return unexpectedTokenError(string(typ), token)
	}
	tokens.Next()
	return nil
}

func notEndOfLine(tok tokenizer.Token) bool {
	return tok.Type != tokenizer.TypeNewline && tok.Type != tokenizer.TypeEOF
}

// concat concatenates the values of the next tokens in the stream as long as
// cond keeps returning true. Returns the concatenated output with leading and
// trailing spaces trimmed.
func concat(tokens *tokenizer.RawTokenStream, cond func(tok tokenizer.Token) bool) string {
	return strings.TrimSpace(rawText(tokens, cond))
}

// rawText is concat without the trimming.
func rawText(tokens *tokenizer.RawTokenStream, cond func(tok tokenizer.Token) bool) string {
	var b strings.Builder
	for cond(tokens.Peek()) {
		b.WriteString(tokens.Next().Value)
	}
	return b.String()
}

// splitWord splits s at its first blank into a word and the trimmed rest.
func splitWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func unexpectedTokenError(wanted string, token tokenizer.Token) error {
	return parserError("got %s but wanted %s", token, wanted)
}

func parserError(format string, args ...interface{}) error {
	return fmt.Errorf("parse error: "+format, args...)
}
