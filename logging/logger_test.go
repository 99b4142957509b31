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
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "nil output", opts: []Option{WithOutput(nil)}, wantErr: ErrNilOutput},
		{name: "unknown handler", opts: []Option{WithHandlerType("xml")}, wantErr: ErrInvalidHandler},
		{name: "nil custom logger", opts: []Option{WithCustomLogger(nil)}, wantErr: ErrNilLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Panics(t, func() { MustNew(tt.opts...) })
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_ServiceAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t,
		WithServiceName("billing-web"),
		WithServiceVersion("v1.2.0"),
		WithEnvironment("staging"),
	)
	th.Logger.Info("ready", "routes", 12)

	th.AssertLog(t, "INFO", "ready", map[string]any{
		"service": "billing-web",
		"version": "v1.2.0",
		"env":     "staging",
		"routes":  12,
	})
	assert.Equal(t, "billing-web", th.Logger.ServiceName())
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithRedactKeys("X-Api-Key"))
	th.Logger.Info("request",
		"token", "abc",
		slog.Group("headers",
			slog.String("Authorization", "Bearer abc"),
			slog.String("x-api-key", "k"),
			slog.String("accept", "application/json"),
		),
	)

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, Redacted, entry.Attrs["token"])

	headers, ok := entry.Attrs["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, Redacted, headers["Authorization"])
	assert.Equal(t, Redacted, headers["x-api-key"])
	assert.Equal(t, "application/json", headers["accept"])
}

func TestLogger_ReplaceAttrRunsAfterRedaction(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "drop" {
			return slog.Attr{}
		}
		return a
	}))
	th.Logger.Info("x", "drop", 1, "keep", 2, "password", "p")

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.NotContains(t, entry.Attrs, "drop")
	assert.EqualValues(t, 2, entry.Attrs["keep"])
	assert.Equal(t, Redacted, entry.Attrs["password"])
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	derived := th.Logger.With("component", "transport")

	derived.Info("hidden")
	require.NoError(t, th.Logger.SetLevel(LevelInfo))
	derived.Info("shown")

	assert.False(t, th.ContainsLog("hidden"))
	assert.True(t, th.ContainsLog("shown"))
	assert.True(t, th.ContainsAttr("component", "transport"))
	assert.Equal(t, LevelInfo, th.Logger.Level())
}

func TestLogger_CustomLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))

	l := MustNew(WithCustomLogger(custom))
	assert.Same(t, custom, l.Logger())
	assert.ErrorIs(t, l.SetLevel(LevelDebug), ErrCannotChangeLevel)

	l.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestLogger_TextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithTextHandler(), WithOutput(&buf))
	l.Debug("skipped")
	l.Warn("slow response", "duration", "2s", "secret", "s")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="slow response"`)
	assert.Contains(t, out, "secret="+Redacted)
}

func TestTestHelper(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	_, err := th.LastLog()
	require.Error(t, err)

	th.Logger.Debug("a")
	th.Logger.Error("b", "status", 500)
	th.Logger.Error("c")

	assert.Equal(t, 1, th.CountLevel("DEBUG"))
	assert.Equal(t, 2, th.CountLevel("ERROR"))
	assert.True(t, th.ContainsAttr("status", 500))

	th.Reset()
	entries, err := th.Logs()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseJSONLogEntries_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseJSONLogEntries([]byte("not json\n"))
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)

	t.Run("without span", func(t *testing.T) {
		cl := NewContextLogger(context.Background(), th.Logger.Logger())
		assert.Empty(t, cl.TraceID())
		assert.Empty(t, cl.SpanID())
		assert.True(t, cl.Enabled(LevelDebug))
	})

	t.Run("with span", func(t *testing.T) {
		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)

		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}))

		cl := NewContextLogger(ctx, th.Logger.Logger())
		cl.Warn("traced")

		th.AssertLog(t, "WARN", "traced", map[string]any{
			"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
			"span_id":  "00f067aa0ba902b7",
		})
		assert.Equal(t, "00f067aa0ba902b7", cl.SpanID())
	})

	t.Run("nil logger", func(t *testing.T) {
		cl := NewContextLogger(context.Background(), nil)
		assert.NotNil(t, cl.Logger())
	})
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithConsoleHandler(), WithOutput(&buf), WithDebugLevel())

	l.With("client", "rpc").WithGroup("req").Debug("sent request", "method", "GET", "path", "/posts 1", "authorization", "x")

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "DEBUG")
	assert.Contains(t, line, "sent request")
	assert.Contains(t, line, "client=rpc")
	assert.Contains(t, line, "req.method=GET")
	assert.Contains(t, line, `req.path="/posts 1"`)
	assert.Contains(t, line, "req.authorization="+Redacted)
	assert.NotContains(t, line, "\x1b[", "non-terminal output is unstyled")
}
