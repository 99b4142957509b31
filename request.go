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
	"context"
	"io"
	"net/http"
	"reflect"
	"strings"

	"rivaas.dev/client/query"
	"rivaas.dev/client/transport"
)

// RequestOptions are the pass-through options of one call.
type RequestOptions struct {
	// Query is the query string mapping, encoded with [query.Encode].
	// For GET and HEAD a "query" entry of the body takes precedence.
	Query map[string]any
	// Header is merged over the client default headers.
	Header http.Header
	// Context, when set, is the request context regardless of which
	// consumer triggers the call.
	Context context.Context
}

// RequestOption configures one call.
type RequestOption func(*RequestOptions)

// WithQuery sets the query string mapping.
func WithQuery(q map[string]any) RequestOption {
	return func(o *RequestOptions) { o.Query = q }
}

// WithHeader sets a request header. Content-Type is owned by the body
// encoder and cannot be overridden for requests with a body.
func WithHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Set(key, value)
	}
}

// AddHeader appends value to the request header key, keeping earlier values.
func AddHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}
		o.Header.Add(key, value)
	}
}

// WithContext binds the request to ctx.
func WithContext(ctx context.Context) RequestOption {
	return func(o *RequestOptions) { o.Context = ctx }
}

// RequestDescriptor is everything needed to issue one request.
type RequestDescriptor struct {
	Method  string
	Path    string
	Body    any
	Options RequestOptions
}

func newDescriptor(method, path string, body any, opts []RequestOption) RequestDescriptor {
	d := RequestDescriptor{Method: strings.ToUpper(method), Path: path, Body: body}
	for _, opt := range opts {
		if opt != nil {
			opt(&d.Options)
		}
	}
	return d
}

func bodyless(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// queryOf picks the query mapping for d.
func queryOf(d RequestDescriptor) map[string]any {
	if bodyless(d.Method) {
		if q, ok := bodyQuery(d.Body); ok {
			return q
		}
	}
	return d.Options.Query
}

// bodyQuery returns the "query" entry of a map body.
func bodyQuery(body any) (map[string]any, bool) {
	if body == nil {
		return nil, false
	}
	rv := reflect.ValueOf(body)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf("query").Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return toStringMap(v.Interface())
}

// toStringMap converts any map with string keys to map[string]any.
func toStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// newRequest builds the HTTP request for d. Method, URL, body and the body
// Content-Type always come from d, never from pass-through headers.
func (c *Client) newRequest(ctx context.Context, d RequestDescriptor, route string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)
	if !bodyless(d.Method) && d.Body != nil {
		var err error
		if body, contentType, err = encodeBody(d.Body); err != nil {
			return nil, err
		}
	}

	if route != "" {
		ctx = transport.ContextWithRoute(ctx, route)
	}
	target := c.resolve(d.Path) + query.Encode(queryOf(d))
	req, err := http.NewRequestWithContext(ctx, d.Method, target, body)
	if err != nil {
		return nil, err
	}

	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range d.Options.Header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}
