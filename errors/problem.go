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

package errors

import (
	"github.com/spf13/cast"
)

// ProblemDetail is an RFC 9457 problem detail as received from a server.
// Members other than the five standard ones are kept in Extensions.
type ProblemDetail struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]any
}

// Problem reads the payload as an RFC 9457 problem detail.
// The second result is false when the payload is not an object or carries
// neither a "type" nor a "title" member.
func (e *HTTPError) Problem() (ProblemDetail, bool) {
	m, ok := e.Value.(map[string]any)
	if !ok {
		return ProblemDetail{}, false
	}
	_, hasType := m["type"]
	_, hasTitle := m["title"]
	if !hasType && !hasTitle {
		return ProblemDetail{}, false
	}

	p := ProblemDetail{
		Type:     cast.ToString(m["type"]),
		Title:    cast.ToString(m["title"]),
		Status:   cast.ToInt(m["status"]),
		Detail:   cast.ToString(m["detail"]),
		Instance: cast.ToString(m["instance"]),
	}
	if p.Type == "" {
		// RFC 9457 section 4.2.1
		p.Type = "about:blank"
	}
	if p.Status == 0 {
		p.Status = e.Status
	}
	for k, v := range m {
		switch k {
		case "type", "title", "status", "detail", "instance":
			continue
		}
		if p.Extensions == nil {
			p.Extensions = make(map[string]any)
		}
		p.Extensions[k] = v
	}
	return p, true
}

// JSONAPIError is one member of a JSON:API "errors" array.
type JSONAPIError struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Code   string         `json:"code"`
	Title  string         `json:"title"`
	Detail string         `json:"detail"`
	Source JSONAPISource  `json:"source"`
	Meta   map[string]any `json:"meta"`
}

// JSONAPISource points to the part of the request that caused an error.
type JSONAPISource struct {
	Pointer   string `json:"pointer"`
	Parameter string `json:"parameter"`
	Header    string `json:"header"`
}

// JSONAPIErrors reads the payload as a JSON:API error document.
// It returns nil when the payload has no "errors" array.
func (e *HTTPError) JSONAPIErrors() []JSONAPIError {
	m, ok := e.Value.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := m["errors"].([]any)
	if !ok {
		return nil
	}

	doc := &HTTPError{Status: e.Status, Value: raw}
	var out []JSONAPIError
	if err := doc.Decode(&out); err != nil {
		return nil
	}
	return out
}
