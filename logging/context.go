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
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/client/telemetry/semconv"
)

// ContextLogger logs with the context it was created for and carries the
// trace and span ids of the active span, if any.
type ContextLogger struct {
	logger  *slog.Logger
	ctx     context.Context
	traceID string
	spanID  string
}

// NewContextLogger creates a context-aware logger around logger. A nil
// logger falls back to [slog.Default].
func NewContextLogger(ctx context.Context, logger *slog.Logger) *ContextLogger {
	if logger == nil {
		logger = slog.Default()
	}
	cl := &ContextLogger{logger: logger, ctx: ctx}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		cl.traceID = sc.TraceID().String()
		cl.spanID = sc.SpanID().String()
		cl.logger = logger.With(semconv.TraceID, cl.traceID, semconv.SpanID, cl.spanID)
	}
	return cl
}

// Logger returns the underlying [slog.Logger] with trace attributes.
func (cl *ContextLogger) Logger() *slog.Logger { return cl.logger }

// TraceID returns the trace ID if available.
func (cl *ContextLogger) TraceID() string { return cl.traceID }

// SpanID returns the span ID if available.
func (cl *ContextLogger) SpanID() string { return cl.spanID }

// Enabled reports whether level would be logged.
func (cl *ContextLogger) Enabled(level slog.Level) bool {
	return cl.logger.Enabled(cl.ctx, level)
}

func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}
