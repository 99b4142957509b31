// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable styled logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "***REDACTED***"

var defaultRedactKeys = []string{
	"password", "token", "secret", "api_key", "authorization", "cookie", "set-cookie",
}

// ParseLevel converts a level name such as "debug" or "WARN" to a [Level].
// An empty name means info.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Logger owns a configured [slog.Logger].
//
// The level is held in a [slog.LevelVar], so [Logger.SetLevel] takes effect
// on every logger derived from this one without rebuilding handlers.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	serviceName    string
	serviceVersion string
	environment    string

	addSource   bool
	redactKeys  map[string]struct{}
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	customLogger *slog.Logger
	useCustom    bool

	slogger *slog.Logger
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
		redactKeys:  make(map[string]struct{}, len(defaultRedactKeys)),
	}
	for _, k := range defaultRedactKeys {
		l.redactKeys[k] = struct{}{}
	}
	return l
}

// New creates a new Logger with the given options.
// It never touches the global slog default.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()
	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if l.useCustom {
		l.slogger = l.customLogger
		return l, nil
	}

	handler, err := l.newHandler()
	if err != nil {
		return nil, err
	}

	sl := slog.New(handler)
	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if l.environment != "" {
		attrs = append(attrs, "env", l.environment)
	}
	if len(attrs) > 0 {
		sl = sl.With(attrs...)
	}
	l.slogger = sl
	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if l.useCustom {
		if l.customLogger == nil {
			return ErrNilLogger
		}
		return nil
	}
	if l.output == nil {
		return ErrNilOutput
	}
	switch l.handlerType {
	case JSONHandler, TextHandler, ConsoleHandler:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
}

func (l *Logger) newHandler() (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.buildReplaceAttr(),
	}

	switch l.handlerType {
	case JSONHandler:
		return slog.NewJSONHandler(l.output, opts), nil
	case TextHandler:
		return slog.NewTextHandler(l.output, opts), nil
	case ConsoleHandler:
		return newConsoleHandler(l.output, opts), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
}

func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := l.redactKeys[strings.ToLower(a.Key)]; ok {
			return slog.String(a.Key, Redacted)
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}
		return a
	}
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

// Debug logs at [LevelDebug].
func (l *Logger) Debug(msg string, args ...any) { l.slogger.Debug(msg, args...) }

// Info logs at [LevelInfo].
func (l *Logger) Info(msg string, args ...any) { l.slogger.Info(msg, args...) }

// Warn logs at [LevelWarn].
func (l *Logger) Warn(msg string, args ...any) { l.slogger.Warn(msg, args...) }

// Error logs at [LevelError].
func (l *Logger) Error(msg string, args ...any) { l.slogger.Error(msg, args...) }

// SetLevel changes the minimum level at runtime.
// It returns [ErrCannotChangeLevel] for loggers built with [WithCustomLogger].
func (l *Logger) SetLevel(level Level) error {
	if l.useCustom {
		return ErrCannotChangeLevel
	}
	l.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}
