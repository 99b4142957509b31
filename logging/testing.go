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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LogEntry represents a parsed JSON log entry for testing.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// ParseJSONLogEntries parses one JSON object per line. The buffer is not
// consumed.
func ParseJSONLogEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, err
		}
		le := LogEntry{Attrs: make(map[string]any)}
		le.Message, _ = raw["msg"].(string)
		le.Level, _ = raw["level"].(string)
		for k, v := range raw {
			if k != "time" && k != "level" && k != "msg" {
				le.Attrs[k] = v
			}
		}
		entries = append(entries, le)
	}
	return entries, scanner.Err()
}

// syncBuffer lets tests read a buffer that request goroutines write to.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func (b *syncBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// TestHelper captures JSON log output at debug level in memory.
type TestHelper struct {
	Logger *Logger
	buf    *syncBuffer
}

// NewTestHelper creates a [TestHelper]. Extra options are applied after the
// in-memory defaults.
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	buf := &syncBuffer{}
	all := append([]Option{WithJSONHandler(), WithOutput(buf), WithDebugLevel()}, opts...)
	return &TestHelper{Logger: MustNew(all...), buf: buf}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.buf.snapshot())
}

// LastLog returns the most recent log entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries found")
	}
	return &entries[len(entries)-1], nil
}

// ContainsLog reports whether any entry has message msg.
func (th *TestHelper) ContainsLog(msg string) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any entry has key set to value. Numbers are
// compared by their JSON form, so ContainsAttr("status", 200) works.
func (th *TestHelper) ContainsAttr(key string, value any) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}
	want := fmt.Sprint(value)
	for _, e := range entries {
		if v, ok := e.Attrs[key]; ok && fmt.Sprint(v) == want {
			return true
		}
	}
	return false
}

// CountLevel returns how many entries were logged at level ("INFO", "WARN"...).
func (th *TestHelper) CountLevel(level string) int {
	entries, _ := th.Logs()
	n := 0
	for _, e := range entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset discards captured output.
func (th *TestHelper) Reset() {
	th.buf.reset()
}

// AssertLog asserts that an entry with level and msg exists and carries
// every attribute in attrs.
func (th *TestHelper) AssertLog(t *testing.T, level, msg string, attrs map[string]any) {
	t.Helper()

	entries, err := th.Logs()
	require.NoError(t, err, "failed to parse logs")

	for _, e := range entries {
		if e.Level != level || e.Message != msg {
			continue
		}
		for k, v := range attrs {
			assert.Equal(t, fmt.Sprint(v), fmt.Sprint(e.Attrs[k]), "attribute %q", k)
		}
		return
	}
	assert.Failf(t, "log entry not found", "level=%s msg=%q", level, msg)
}
