// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package color renders terminal text in ANSI colors for human-facing summaries.
// TAP streams themselves are never colored.
package color

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	escape = "\033["
	clear  = escape + "0m"
)

type ColorCode int

// Foreground text colors
const (
	BlackFg ColorCode = iota + 30
	RedFg
	GreenFg
	YellowFg
	BlueFg
	MagentaFg
	CyanFg
	WhiteFg
	DefaultFg
)

// Color formats text, either wrapped in escape codes or plain.
type Color interface {
	Red(format string, a ...interface{}) string
	Green(format string, a ...interface{}) string
	Yellow(format string, a ...interface{}) string
	Blue(format string, a ...interface{}) string
	Cyan(format string, a ...interface{}) string
	WithColor(code ColorCode, format string, a ...interface{}) string
	Enabled() bool
}

// palette implements Color. A disabled palette only formats.
type palette struct {
	enabled bool
}

func (p palette) Red(format string, a ...interface{}) string    { return p.WithColor(RedFg, format, a...) }
func (p palette) Green(format string, a ...interface{}) string  { return p.WithColor(GreenFg, format, a...) }
func (p palette) Yellow(format string, a ...interface{}) string { return p.WithColor(YellowFg, format, a...) }
func (p palette) Blue(format string, a ...interface{}) string   { return p.WithColor(BlueFg, format, a...) }
func (p palette) Cyan(format string, a ...interface{}) string   { return p.WithColor(CyanFg, format, a...) }
func (p palette) Enabled() bool                                 { return p.enabled }

func (p palette) WithColor(code ColorCode, format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if !p.enabled || code == DefaultFg {
		return text
	}
	return fmt.Sprintf("%s%dm%s%s", escape, code, text, clear)
}

// EnableColor is a flag.Value selecting when color is used.
type EnableColor int

const (
	ColorNever EnableColor = iota
	ColorAuto
	ColorAlways
)

var enableColorNames = map[EnableColor]string{
	ColorNever:  "never",
	ColorAuto:   "auto",
	ColorAlways: "always",
}

// terminalSupportsColor reports whether stdout is a terminal that understands
// escape codes. NO_COLOR turns color off regardless.
func terminalSupportsColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewColor returns a Color for the given setting.
func NewColor(enableColor EnableColor) Color {
	switch enableColor {
	case ColorAlways:
		return palette{enabled: true}
	case ColorAuto:
		return palette{enabled: terminalSupportsColor()}
	}
	return palette{}
}

func (ec *EnableColor) String() string {
	return enableColorNames[*ec]
}

func (ec *EnableColor) Set(s string) error {
	for value, name := range enableColorNames {
		if name == s {
			*ec = value
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid color value", s)
}
