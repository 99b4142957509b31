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

package matcher

import (
	"strings"
)

// Kind classifies a pattern segment.
// The numeric order matters: kinds above [Param] accept the root path.
type Kind uint8

const (
	// Static matches one literal path component.
	Static Kind = iota
	// Param matches one non-empty component, e.g. ":id" or ":file.json".
	Param
	// Optional is a Param that may be missing or empty, e.g. ":page?".
	Optional
	// Wildcard matches every remaining component, e.g. "*" or "*path".
	Wildcard
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Param:
		return "param"
	case Optional:
		return "optional"
	case Wildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Segment is one component of a compiled pattern.
type Segment struct {
	Kind Kind
	// Name is the literal text for Static segments and the parameter name
	// for the other kinds. Unnamed wildcards are named "*".
	Name string
	// Suffix is a literal tail that must follow a parameter value, such as
	// ".json" in ":file.json". Always empty for Static and Wildcard.
	Suffix string
	// Raw is the component exactly as written in the pattern.
	Raw string
	// Matcher optionally validates and casts the parameter value.
	Matcher *Matcher
}

// Pattern is a compiled route pattern: an ordered list of segments.
// A nil or empty Pattern is the "no match" value returned by [Match].
type Pattern []Segment

// Params maps parameter names to extracted values.
// Values are strings unless a [Matcher] with a Cast function applies.
// Wildcards always produce a []string.
type Params map[string]any

// root is the single token produced for the path "/".
const root = "/"

// Parse compiles pattern into a [Pattern]. Matchers, when non-nil, attach
// validation and casting to parameters by name.
//
// Parse never fails: any component that is not a parameter or wildcard is a
// literal.
func Parse(pattern string, matchers Matchers) Pattern {
	tokens := split(pattern)
	if len(tokens) == 1 && tokens[0] == root {
		return Pattern{{Kind: Static, Name: root, Raw: root}}
	}

	out := make(Pattern, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, parseSegment(tok, matchers))
	}
	return out
}

func parseSegment(tok string, matchers Matchers) Segment {
	if tok == "" {
		return Segment{Kind: Static, Raw: tok}
	}

	switch tok[0] {
	case ':':
		seg := Segment{Kind: Param, Raw: tok}
		name := tok[1:]
		if strings.Contains(name, "?") {
			seg.Kind = Optional
			name = strings.ReplaceAll(name, "?", "")
		}
		if i := strings.IndexByte(name, '.'); i >= 0 {
			seg.Suffix = name[i:]
			name = name[:i]
		}
		seg.Name = name
		if m, ok := matchers[name]; ok {
			seg.Matcher = &m
		}
		return seg
	case '*':
		name := tok[1:]
		if name == "" {
			name = "*"
		}
		return Segment{Kind: Wildcard, Name: name, Raw: tok}
	default:
		return Segment{Kind: Static, Name: tok, Raw: tok}
	}
}

// Match returns the first pattern of patterns that matches path, scanning in
// declaration order. It returns nil when no pattern matches.
//
// A pattern of length L is only considered for a path of N components when
// L == N, when L < N and the pattern ends with a wildcard, or when L > N and
// the pattern ends with an optional parameter.
func Match(path string, patterns []Pattern) Pattern {
	if i := MatchIndex(path, patterns); i >= 0 {
		return patterns[i]
	}
	return nil
}

// MatchIndex is like [Match] but returns the index of the matching pattern,
// or -1.
func MatchIndex(path string, patterns []Pattern) int {
	tokens := split(path)
	n := len(tokens)

	for i, p := range patterns {
		l := len(p)
		if l == 0 {
			continue
		}
		eligible := l == n ||
			(l < n && p[l-1].Kind == Wildcard) ||
			(l > n && p[l-1].Kind == Optional)
		if eligible && p.matches(tokens) {
			return i
		}
	}
	return -1
}

func (p Pattern) matches(tokens []string) bool {
	for i := range p {
		if !p.segmentMatches(tokens, i) {
			return false
		}
	}
	return true
}

func (p Pattern) segmentMatches(tokens []string, i int) bool {
	seg := p[i]
	if seg.Kind == Wildcard {
		return true
	}
	if i >= len(tokens) {
		return p.optionalFrom(i)
	}

	tok := tokens[i]
	if seg.Kind == Static {
		return tok == seg.Name
	}
	if tok == root && len(tokens) == 1 {
		return seg.Kind > Param
	}
	if !strings.HasSuffix(tok, seg.Suffix) {
		return false
	}
	val := strings.TrimSuffix(tok, seg.Suffix)
	if val == "" {
		return p.optionalFrom(i)
	}
	if seg.Matcher != nil && seg.Matcher.Match != nil {
		return seg.Matcher.Match.MatchString(val)
	}
	return true
}

// optionalFrom reports whether every segment from i on is Optional.
func (p Pattern) optionalFrom(i int) bool {
	for ; i < len(p); i++ {
		if p[i].Kind != Optional {
			return false
		}
	}
	return true
}

// Exec extracts the parameters of path according to p. The path is assumed
// to match p; Exec performs no validation. Suffixes are stripped and
// matcher casts applied. Missing or empty optional values are omitted.
func Exec(path string, p Pattern) Params {
	tokens := split(path)
	out := make(Params)

	for i, seg := range p {
		switch seg.Kind {
		case Static:
			continue
		case Wildcard:
			rest := []string{}
			if i < len(tokens) {
				for _, tok := range tokens[i:] {
					if tok != root {
						rest = append(rest, tok)
					}
				}
			}
			out[seg.Name] = rest
			return out
		}

		if i >= len(tokens) {
			continue
		}
		tok := tokens[i]
		if tok == root {
			continue
		}
		val := strings.TrimSuffix(tok, seg.Suffix)
		if val == "" {
			continue
		}
		if seg.Matcher != nil && seg.Matcher.Cast != nil {
			out[seg.Name] = seg.Matcher.Cast(val)
		} else {
			out[seg.Name] = val
		}
	}
	return out
}

// Names returns the parameter names of p in declaration order.
func (p Pattern) Names() []string {
	var names []string
	for _, seg := range p {
		if seg.Kind != Static {
			names = append(names, seg.Name)
		}
	}
	return names
}

// IsStatic reports whether p has no parameters or wildcards.
func (p Pattern) IsStatic() bool {
	for _, seg := range p {
		if seg.Kind != Static {
			return false
		}
	}
	return true
}

// String rebuilds the pattern text with a leading slash.
func (p Pattern) String() string {
	if len(p) == 1 && p[0].Raw == root {
		return root
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(seg.Raw)
	}
	return b.String()
}

// Split breaks a URL path into the components compared by [Match].
// One leading and one trailing slash are ignored; "/" and "" yield ["/"].
func Split(path string) []string {
	return split(path)
}

func split(path string) []string {
	if path == "" || path == root {
		return []string{root}
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return strings.Split(path, "/")
}
