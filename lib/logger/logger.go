// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger provides methods for logging with different levels.
//
// Log output is for the people running nanotap commands. It never goes to the
// stream a TAP consumer reads, so commands point the logger at stderr.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"go.fuchsia.dev/nanotap/lib/color"
)

type globalLoggerKeyType struct{}

// WithLogger returns the context with its logger set as the provided Logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, globalLoggerKeyType{}, logger)
}

// LoggerFromContext returns the context logger if configured, otherwise nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(globalLoggerKeyType{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// Logger writes leveled messages with an optional color and prefix.
type Logger struct {
	LoggerLevel   LogLevel
	goLogger      *goLog.Logger
	goErrorLogger *goLog.Logger
	color         color.Color
	prefix        string
}

// LogLevel represents different levels for logging depending on the amount of detail wanted.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelToName = map[LogLevel]string{
	NoLogLevel:   "no",
	FatalLevel:   "fatal",
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
	TraceLevel:   "trace",
}

// Populated at runtime by init() by inverting levelToName.
var nameToLevel = map[string]LogLevel{}

func init() {
	for level, name := range levelToName {
		nameToLevel[name] = level
	}
}

// String returns the string representation of the LogLevel, or an empty string
// if the LogLevel has no string representation specified.
func (l *LogLevel) String() string {
	return levelToName[*l]
}

// Set sets the LogLevel based on its string value.
func (l *LogLevel) Set(s string) error {
	level, ok := nameToLevel[s]
	if !ok {
		return fmt.Errorf("%s is not a valid level", s)
	}
	*l = level
	return nil
}

// NewLogger creates a new logger instance. Messages at info level and below
// (debug, trace) go to outWriter; warnings and errors go to errWriter. Nil
// writers default to os.Stdout and os.Stderr.
func NewLogger(loggerLevel LogLevel, color color.Color, outWriter, errWriter io.Writer, prefix string) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel:   loggerLevel,
		goLogger:      goLog.New(outWriter, "", goLog.LstdFlags),
		goErrorLogger: goLog.New(errWriter, "", goLog.LstdFlags),
		color:         color,
		prefix:        prefix,
	}
}

func (l *Logger) SetFlags(flags int) {
	l.goLogger.SetFlags(flags)
	l.goErrorLogger.SetFlags(flags)
}

func (l *Logger) output(w *goLog.Logger, tag, format string, a ...interface{}) {
	w.Print(l.prefix + tag + fmt.Sprintf(format, a...))
}

// Logf logs the message if the logger is at least as verbose as logLevel.
func (l *Logger) Logf(logLevel LogLevel, format string, a ...interface{}) {
	if l.LoggerLevel < logLevel {
		return
	}
	switch logLevel {
	case InfoLevel:
		l.output(l.goLogger, "", format, a...)
	case DebugLevel:
		l.output(l.goLogger, l.color.Cyan("DEBUG: "), format, a...)
	case TraceLevel:
		l.output(l.goLogger, l.color.Blue("TRACE: "), format, a...)
	case WarningLevel:
		l.output(l.goErrorLogger, l.color.Yellow("WARN: "), format, a...)
	case ErrorLevel:
		l.output(l.goErrorLogger, l.color.Red("ERROR: "), format, a...)
	case FatalLevel:
		l.output(l.goErrorLogger, l.color.Red("FATAL: "), format, a...)
		os.Exit(1)
	default:
		panic(fmt.Sprintf("Undefined loglevel: %v, log message: %s", logLevel, fmt.Sprintf(format, a...)))
	}
}

func (l *Logger) Infof(format string, a ...interface{})    { l.Logf(InfoLevel, format, a...) }
func (l *Logger) Debugf(format string, a ...interface{})   { l.Logf(DebugLevel, format, a...) }
func (l *Logger) Tracef(format string, a ...interface{})   { l.Logf(TraceLevel, format, a...) }
func (l *Logger) Warningf(format string, a ...interface{}) { l.Logf(WarningLevel, format, a...) }
func (l *Logger) Errorf(format string, a ...interface{})   { l.Logf(ErrorLevel, format, a...) }
func (l *Logger) Fatalf(format string, a ...interface{})   { l.Logf(FatalLevel, format, a...) }

// Logf logs through the context logger, or the standard library logger when
// the context carries none.
func Logf(ctx context.Context, logLevel LogLevel, format string, a ...interface{}) {
	if l := LoggerFromContext(ctx); l != nil {
		l.Logf(logLevel, format, a...)
		return
	}
	goLog.Printf(format, a...)
}

func Infof(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, InfoLevel, format, a...)
}

func Debugf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, DebugLevel, format, a...)
}

func Tracef(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, TraceLevel, format, a...)
}

func Warningf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, WarningLevel, format, a...)
}

func Errorf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, ErrorLevel, format, a...)
}

func Fatalf(ctx context.Context, format string, a ...interface{}) {
	Logf(ctx, FatalLevel, format, a...)
}
