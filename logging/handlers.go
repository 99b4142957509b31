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
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type consoleStyles struct {
	time  lipgloss.Style
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
	msg   lipgloss.Style
	key   lipgloss.Style
	src   lipgloss.Style
}

// newConsoleStyles binds styles to a renderer for w, so output to a
// non-terminal writer is plain text.
func newConsoleStyles(w io.Writer) *consoleStyles {
	r := lipgloss.NewRenderer(w)
	return &consoleStyles{
		time:  r.NewStyle().Faint(true),
		debug: r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		info:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		error: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		msg:   r.NewStyle().Foreground(lipgloss.Color("15")),
		key:   r.NewStyle().Foreground(lipgloss.Color("8")),
		src:   r.NewStyle().Faint(true),
	}
}

func (s *consoleStyles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.error
	case l >= slog.LevelWarn:
		return s.warn
	case l >= slog.LevelInfo:
		return s.info
	default:
		return s.debug
	}
}

// consoleHandler writes one styled line per record:
//
//	15:04:05.000 INFO  request completed method=GET status=200
//
// Safe for concurrent use; clones share the writer lock.
type consoleHandler struct {
	opts   *slog.HandlerOptions
	output io.Writer
	styles *consoleStyles
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{
		opts:   opts,
		output: w,
		styles: newConsoleStyles(w),
		mu:     &sync.Mutex{},
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.styles.time.Render(r.Time.Format("15:04:05.000")))
	b.WriteByte(' ')
	b.WriteString(h.styles.level(r.Level).Render(fmt.Sprintf("%-5s", r.Level.String())))
	b.WriteByte(' ')
	b.WriteString(h.styles.msg.Render(r.Message))

	for _, a := range h.attrs {
		h.appendAttr(&b, nil, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.groups, a)
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		if f, _ := fs.Next(); f.File != "" {
			b.WriteByte(' ')
			b.WriteString(h.styles.src.Render(fmt.Sprintf("(%s:%d)", filepath.Base(f.File), f.Line)))
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.output, b.String())
	return err
}

func (h *consoleHandler) appendAttr(b *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, sub, ga)
		}
		return
	}

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	b.WriteByte(' ')
	b.WriteString(h.styles.key.Render(key + "="))
	switch a.Value.Kind() {
	case slog.KindTime:
		b.WriteString(a.Value.Time().Format(time.RFC3339))
	case slog.KindString:
		s := a.Value.String()
		if strings.ContainsAny(s, " \t\"") {
			s = fmt.Sprintf("%q", s)
		}
		b.WriteString(s)
	default:
		b.WriteString(a.Value.String())
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, nestGroups(h.groups, a))
	}
	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append([]string(nil), h.groups...), name)
	return &c
}

// nestGroups wraps a in one group per name, so attributes keep the groups
// that were open when they were added.
func nestGroups(groups []string, a slog.Attr) slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		a = slog.Attr{Key: groups[i], Value: slog.GroupValue(a)}
	}
	return a
}
