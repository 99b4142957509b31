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
package client

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	rpcerrors "rivaas.dev/client/errors"
	"rivaas.dev/client/matcher"
	"rivaas.dev/client/query"
	"rivaas.dev/client/table"
)

// URLOptions configures [Client.URL].
type URLOptions struct {
	// Params is a map or struct keyed by camelCased parameter name, or a
	// slice consumed in declaration order.
	Params any
	// Query is appended with [query.Encode].
	Query map[string]any
}

// URL builds the absolute URL of the route called name.
//
// Example:
//
//	c.URL("posts.show", client.URLOptions{Params: map[string]any{"id": 5}})
//	c.URL("posts.show", client.URLOptions{Params: []any{5}})
//	// both "https://api.example.com/posts/5"
func (c *Client) URL(name string, opts URLOptions) (string, error) {
	path, err := c.routePath(name, opts.Params)
	if err != nil {
		return "", err
	}
	return c.baseURL + path + query.Encode(opts.Query), nil
}

// Has reports whether a route called name exists. A "*" in name matches any
// run of characters: "posts.*.edit" matches "posts.comments.edit".
func (c *Client) Has(name string) bool {
	return c.routes.Has(name)
}

// RouteByPath returns the first route matching path.
func (c *Client) RouteByPath(path string) (table.Record, error) {
	rec, _, ok := c.routes.Match(path)
	if !ok {
		return table.Record{}, rpcerrors.NewPathNotFound(path)
	}
	return rec, nil
}

// RouteCall sends requests to one named route with its parameters bound.
type RouteCall struct {
	client *Client
	record table.Record
	path   string
}

// Route binds params to the route called name. params follows the rules of
// [URLOptions.Params].
func (c *Client) Route(name string, params any) (*RouteCall, error) {
	path, err := c.routePath(name, params)
	if err != nil {
		return nil, err
	}
	rec, _ := c.routes.ByName(name)
	return &RouteCall{client: c, record: rec, path: path}, nil
}

// Name returns the route name.
func (r *RouteCall) Name() string { return r.record.Name }

// Path returns the path with parameters substituted.
func (r *RouteCall) Path() string { return r.path }

// URL returns the absolute URL.
func (r *RouteCall) URL() string { return r.client.baseURL + r.path }

// Methods returns the verbs the route declares.
func (r *RouteCall) Methods() []string {
	return append([]string(nil), r.record.Method...)
}

// Call sends method with body. It fails with [errors.ErrMethodNotAllowed]
// when the route declares verbs and method is not one of them.
func (r *RouteCall) Call(method string, body any, opts ...RequestOption) *Call {
	method = strings.ToUpper(method)
	if len(r.record.Method) > 0 && !r.record.Allows(method) {
		return failedCall(fmt.Errorf("%w: %s %s", rpcerrors.ErrMethodNotAllowed, method, r.record.Name))
	}
	return newCall(r.client, newDescriptor(method, r.path, body, opts), r.record.Name)
}

// Get sends a GET request.
func (r *RouteCall) Get(opts ...RequestOption) *Call { return r.Call(http.MethodGet, nil, opts...) }

// Head sends a HEAD request.
func (r *RouteCall) Head(opts ...RequestOption) *Call { return r.Call(http.MethodHead, nil, opts...) }

// Delete sends a DELETE request.
func (r *RouteCall) Delete(opts ...RequestOption) *Call {
	return r.Call(http.MethodDelete, nil, opts...)
}

// Post sends body with POST.
func (r *RouteCall) Post(body any, opts ...RequestOption) *Call {
	return r.Call(http.MethodPost, body, opts...)
}

// Put sends body with PUT.
func (r *RouteCall) Put(body any, opts ...RequestOption) *Call {
	return r.Call(http.MethodPut, body, opts...)
}

// Patch sends body with PATCH.
func (r *RouteCall) Patch(body any, opts ...RequestOption) *Call {
	return r.Call(http.MethodPatch, body, opts...)
}

// routePath substitutes params into the pattern of the route called name.
func (c *Client) routePath(name string, params any) (string, error) {
	pattern, ok := c.routes.Pattern(name)
	if !ok {
		return "", rpcerrors.NewRouteNotFound(name)
	}
	if pattern.IsStatic() {
		return pattern.String(), nil
	}

	src := newParamSource(params)
	var b strings.Builder
	for _, seg := range pattern {
		if seg.Kind == matcher.Static {
			b.WriteByte('/')
			b.WriteString(seg.Raw)
			continue
		}

		v, found := src.next(seg.Name)
		if seg.Kind == matcher.Wildcard {
			parts, err := wildcardParts(v, found)
			if err != nil || len(parts) == 0 {
				return "", rpcerrors.NewMissingRouteParam(name, seg.Name)
			}
			b.WriteByte('/')
			b.WriteString(strings.Join(parts, "/"))
			continue
		}

		s, err := paramSegment(v)
		if !found || err != nil {
			if seg.Kind == matcher.Optional {
				continue
			}
			return "", rpcerrors.NewMissingRouteParam(name, seg.Name)
		}
		b.WriteByte('/')
		b.WriteString(s + seg.Suffix)
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

func wildcardParts(v any, found bool) ([]string, error) {
	if !found {
		return nil, nil
	}
	rv := indirect(reflect.ValueOf(v))
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := paramSegment(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return parts, nil
	}
	s, err := paramSegment(v)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// paramSource looks parameters up by name in a map or struct, or consumes
// them in order from a slice.
type paramSource struct {
	named      map[string]any
	positional []any
	pos        int
}

func newParamSource(params any) *paramSource {
	src := &paramSource{}
	rv := indirect(reflect.ValueOf(params))
	if !rv.IsValid() {
		return src
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			src.positional = append(src.positional, rv.Index(i).Interface())
		}
	case reflect.Map, reflect.Struct:
		src.named = make(map[string]any)
		eachField(rv, func(name string, v reflect.Value) bool {
			src.named[name] = v.Interface()
			return true
		})
	default:
		src.positional = []any{params}
	}
	return src
}

func (s *paramSource) next(name string) (any, bool) {
	if s.named != nil {
		if v, ok := s.named[camelCase(name)]; ok {
			return v, true
		}
		v, ok := s.named[name]
		return v, ok
	}
	if s.pos >= len(s.positional) {
		return nil, false
	}
	v := s.positional[s.pos]
	s.pos++
	return v, true
}

// camelCase converts snake, kebab and space separated names: "post_id"
// becomes "postId".
func camelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(words) <= 1 {
		if len(words) == 0 {
			return s
		}
		return lowerFirst(words[0])
	}
	var b strings.Builder
	b.WriteString(lowerFirst(words[0]))
	for _, w := range words[1:] {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
