// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tokenizer splits TAP text into the tokens the tap parser consumes.
package tokenizer

import "fmt"

// TokenType describes the category a Token belongs to.
type TokenType string

const (
	TypeEOF     TokenType = "EOF"
	TypeNewline TokenType = "NEWLINE"
	TypeSpace   TokenType = "SPACE"
	TypeNumber  TokenType = "NUMBER"
	TypeDot     TokenType = "DOT"
	TypePound   TokenType = "POUND"
	TypeText    TokenType = "TEXT"
)

// Token is a single lexeme. Concatenating the values of every token of an
// input reproduces the input, except that "\r\n" line endings become "\n".
type Token struct {
	Type  TokenType
	Value string
}

func (t Token) String() string {
	if t.Type == TypeEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Value)
}

var eof = Token{Type: TypeEOF}

// Tokenize lexes the entire input. The result never contains a TypeEOF token;
// streams synthesize one once the tokens run out.
func Tokenize(input []byte) []Token {
	var tokens []Token
	for i := 0; i < len(input); {
		start := i
		c := input[i]
		switch {
		case c == '\n':
			i++
			tokens = append(tokens, Token{TypeNewline, "\n"})
		case c == '\r' && i+1 < len(input) && input[i+1] == '\n':
			i += 2
			tokens = append(tokens, Token{TypeNewline, "\n"})
		case isSpace(c):
			for i < len(input) && isSpace(input[i]) {
				i++
			}
			tokens = append(tokens, Token{TypeSpace, string(input[start:i])})
		case isDigit(c):
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			tokens = append(tokens, Token{TypeNumber, string(input[start:i])})
		case c == '.':
			i++
			tokens = append(tokens, Token{TypeDot, "."})
		case c == '#':
			i++
			tokens = append(tokens, Token{TypePound, "#"})
		default:
			i = scanText(input, i)
			tokens = append(tokens, Token{TypeText, string(input[start:i])})
		}
	}
	return tokens
}

// scanText returns the end of the text run starting at i. An escaped pound
// sign stays inside the run.
func scanText(input []byte, i int) int {
	for i < len(input) {
		c := input[i]
		if c == '\\' && i+1 < len(input) && input[i+1] == '#' {
			i += 2
			continue
		}
		if c == '\n' || c == '.' || c == '#' || isSpace(c) {
			return i
		}
		if c == '\r' && i+1 < len(input) && input[i+1] == '\n' {
			return i
		}
		i++
	}
	return i
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// RawTokenStream yields every token, whitespace included.
type RawTokenStream struct {
	tokens []Token
	pos    int
}

// Peek returns the next token without consuming it.
func (s *RawTokenStream) Peek() Token {
	if s.pos >= len(s.tokens) {
		return eof
	}
	return s.tokens[s.pos]
}

// Next consumes and returns the next token.
func (s *RawTokenStream) Next() Token {
	tok := s.Peek()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return tok
}

// TokenStream yields tokens with whitespace skipped. It shares its position
// with the RawTokenStream returned by Raw.
type TokenStream struct {
	raw *RawTokenStream
}

// NewTokenStream tokenizes input and returns a stream over the result.
func NewTokenStream(input []byte) *TokenStream {
	return &TokenStream{raw: &RawTokenStream{tokens: Tokenize(input)}}
}

// Peek returns the next non-space token without consuming it. Whitespace
// before it is consumed.
func (s *TokenStream) Peek() Token {
	for s.raw.Peek().Type == TypeSpace {
		s.raw.Next()
	}
	return s.raw.Peek()
}

// Next consumes and returns the next non-space token.
func (s *TokenStream) Next() Token {
	s.Peek()
	return s.raw.Next()
}

// Raw returns a view of this stream that includes whitespace.
func (s *TokenStream) Raw() *RawTokenStream {
	return s.raw
}
