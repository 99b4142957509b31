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

// Package matcher compiles route patterns and matches URL paths against them.
//
// Patterns are slash separated. Each component is one of:
//
//	users          static, compared literally
//	:id            parameter, any non-empty component
//	:file.json     parameter with a literal suffix
//	:page?         optional parameter, may be missing or empty at the end
//	*  or  *path   wildcard, captures every remaining component
//
// Matching is a linear scan in declaration order and the first match wins,
// so a catch-all declared before a more specific route shadows it.
//
//	patterns := []matcher.Pattern{
//		matcher.Parse("/users/:id", matcher.Matchers{"id": matcher.Int()}),
//		matcher.Parse("/files/*path", nil),
//	}
//	p := matcher.Match("/users/42", patterns)
//	params := matcher.Exec("/users/42", p) // {"id": 42}
//
// Values are never percent-decoded.
package matcher
