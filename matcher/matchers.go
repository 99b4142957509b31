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
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Matcher validates and converts the value of a named parameter.
// Both fields are optional.
type Matcher struct {
	// Match must accept the whole value for the segment to match.
	Match *regexp.Regexp
	// Cast converts the raw value before [Exec] stores it.
	Cast func(string) any
}

// Matchers maps parameter names to their [Matcher].
type Matchers map[string]Matcher

const (
	intPattern    = `-?\d+`
	numberPattern = `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	uuidPattern   = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-8][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`
	slugPattern   = `[a-z0-9]+(?:-[a-z0-9]+)*`
	datePattern   = `\d{4}-\d{2}-\d{2}`
)

var (
	intRe    = anchored(intPattern)
	numberRe = anchored(numberPattern)
	uuidRe   = anchored(uuidPattern)
	slugRe   = anchored(slugPattern)
	dateRe   = anchored(datePattern)
)

func anchored(expr string) *regexp.Regexp {
	return regexp.MustCompile("^(?:" + expr + ")$")
}

// Int accepts signed decimal integers and casts them to int.
func Int() Matcher {
	return Matcher{
		Match: intRe,
		Cast:  func(s string) any { return cast.ToInt(s) },
	}
}

// Number accepts decimal and exponent notation and casts to float64.
func Number() Matcher {
	return Matcher{
		Match: numberRe,
		Cast:  func(s string) any { return cast.ToFloat64(s) },
	}
}

// UUID accepts RFC 9562 UUIDs, versions 1 through 8.
func UUID() Matcher {
	return Matcher{Match: uuidRe}
}

// Slug accepts lowercase words joined by single dashes.
func Slug() Matcher {
	return Matcher{Match: slugRe}
}

// Date accepts RFC 3339 full dates (YYYY-MM-DD).
func Date() Matcher {
	return Matcher{Match: dateRe}
}

// Bool accepts "true", "false", "1" and "0" and casts to bool.
func Bool() Matcher {
	return Matcher{
		Match: anchored(`true|false|1|0`),
		Cast:  func(s string) any { return cast.ToBool(s) },
	}
}

// Enum accepts exactly one of values.
func Enum(values ...string) Matcher {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	return Matcher{Match: anchored(strings.Join(quoted, "|"))}
}

// Regex accepts values fully matched by expr. The expression is anchored.
func Regex(expr string) (Matcher, error) {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return Matcher{}, fmt.Errorf("invalid matcher expression %q: %w", expr, err)
	}
	return Matcher{Match: re}, nil
}

// MustRegex is like [Regex] but panics on an invalid expression.
func MustRegex(expr string) Matcher {
	m, err := Regex(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// Named returns the built-in matcher registered under name: "int",
// "number", "uuid", "slug", "date" or "bool".
func Named(name string) (Matcher, bool) {
	switch strings.ToLower(name) {
	case "int", "integer":
		return Int(), true
	case "number", "float":
		return Number(), true
	case "uuid":
		return UUID(), true
	case "slug":
		return Slug(), true
	case "date":
		return Date(), true
	case "bool", "boolean":
		return Bool(), true
	default:
		return Matcher{}, false
	}
}
