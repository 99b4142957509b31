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

// Package table holds the route table shared by the client and the server.
//
// A table is built once from generated records and never changes. Each
// record is compiled into a [matcher.Pattern] at construction, so lookups
// by name and by path need no locking.
package table

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"

	"rivaas.dev/client/matcher"
)

var (
	// ErrDuplicateRoute is returned when two records share a name.
	ErrDuplicateRoute = errors.New("duplicate route name")
	// ErrInvalidRoute is returned for a record without name or path.
	ErrInvalidRoute = errors.New("invalid route")
)

// Record is one route as emitted by the server's route generator.
type Record struct {
	Name   string   `json:"name" yaml:"name" toml:"name"`
	Path   string   `json:"path" yaml:"path" toml:"path"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Method []string `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty"`
}

// Allows reports whether the route declares method, compared
// case-insensitively.
func (r Record) Allows(method string) bool {
	return slices.ContainsFunc(r.Method, func(m string) bool {
		return strings.EqualFold(m, method)
	})
}

// Table is an immutable, indexed list of records.
type Table struct {
	records  []Record
	patterns []matcher.Pattern
	byName   map[string]int
}

// Option configures table construction.
type Option func(*options)

type options struct {
	matchers matcher.Matchers
}

// WithMatchers attaches parameter matchers to every compiled pattern.
func WithMatchers(m matcher.Matchers) Option {
	return func(o *options) {
		o.matchers = m
	}
}

// New validates records and compiles their patterns. Methods are
// upper-cased and a missing params list is derived from the path.
func New(records []Record, opts ...Option) (*Table, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	t := &Table{
		records:  make([]Record, 0, len(records)),
		patterns: make([]matcher.Pattern, 0, len(records)),
		byName:   make(map[string]int, len(records)),
	}

	for i, r := range records {
		if r.Name == "" || r.Path == "" {
			return nil, fmt.Errorf("%w: record %d needs a name and a path", ErrInvalidRoute, i)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRoute, r.Name)
		}

		p := matcher.Parse(r.Path, o.matchers)
		r.Method = normalizeMethods(r.Method)
		if len(r.Params) == 0 {
			r.Params = p.Names()
		} else {
			r.Params = slices.Clone(r.Params)
		}

		t.byName[r.Name] = len(t.records)
		t.records = append(t.records, r)
		t.patterns = append(t.patterns, p)
	}
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(records []Record, opts ...Option) *Table {
	t, err := New(records, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func normalizeMethods(in []string) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in declaration order.
func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// Patterns returns the compiled patterns, index-aligned with Records.
// The slice must not be modified.
func (t *Table) Patterns() []matcher.Pattern {
	return t.patterns
}

// ByName returns the record called name.
func (t *Table) ByName(name string) (Record, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Pattern returns the compiled pattern of the route called name.
func (t *Table) Pattern(name string) (matcher.Pattern, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.patterns[i], true
}

// Match returns the first route whose pattern matches path, together with
// the extracted parameters.
func (t *Table) Match(path string) (Record, matcher.Params, bool) {
	i := matcher.MatchIndex(path, t.patterns)
	if i < 0 {
		return Record{}, nil, false
	}
	return t.records[i], matcher.Exec(path, t.patterns[i]), true
}

// Matches yields every route whose pattern matches path, in declaration
// order, together with its compiled pattern.
func (t *Table) Matches(path string) iter.Seq2[Record, matcher.Pattern] {
	return func(yield func(Record, matcher.Pattern) bool) {
		for start := 0; start < len(t.patterns); {
			i := matcher.MatchIndex(path, t.patterns[start:])
			if i < 0 {
				return
			}
			i += start
			if !yield(t.records[i], t.patterns[i]) {
				return
			}
			start = i + 1
		}
	}
}

// MatchMethod is like [Table.Match] but skips routes that do not declare
// method, so "GET /posts" and "POST /posts" resolve to different records.
func (t *Table) MatchMethod(path, method string) (Record, matcher.Params, bool) {
	for rec, p := range t.Matches(path) {
		if rec.Allows(method) {
			return rec, matcher.Exec(path, p), true
		}
	}
	return Record{}, nil, false
}

// Has reports whether any route name matches pattern. A "*" in pattern
// matches any run of characters, so "users.*" matches "users.index".
func (t *Table) Has(pattern string) bool {
	if !strings.Contains(pattern, "*") {
		_, ok := t.byName[pattern]
		return ok
	}
	re := NamePattern(pattern)
	for _, r := range t.records {
		if re.MatchString(r.Name) {
			return true
		}
	}
	return false
}

// NamePattern compiles a route name pattern where "*" matches any run of
// characters and everything else is literal.
func NamePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
