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
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	rpcerrors "rivaas.dev/client/errors"
	"rivaas.dev/client/matcher"
	"rivaas.dev/client/query"
)

const (
	markerPrefix = "$"
	urlMarker    = "$url"
)

var verbMarkers = map[string]string{
	"$get":     http.MethodGet,
	"$head":    http.MethodHead,
	"$post":    http.MethodPost,
	"$put":     http.MethodPut,
	"$patch":   http.MethodPatch,
	"$delete":  http.MethodDelete,
	"$options": http.MethodOptions,
}

// StepKind is the outcome of [Chain.Invoke].
type StepKind uint8

const (
	// StepChain means the argument became a path segment.
	StepChain StepKind = iota
	// StepURL means the chain ended in "$url".
	StepURL
	// StepCall means the chain ended in a verb marker such as "$post".
	StepCall
)

// Step is the result of [Chain.Invoke]. Only the field matching Kind is set.
type Step struct {
	Kind  StepKind
	Chain Chain
	URL   string
	Call  *Call
}

type paramKey struct {
	index int
	key   string
}

// Chain accumulates path segments. Chains are values: every method returns
// a new Chain and leaves the receiver untouched, so a partial chain can be
// stored and reused for any number of calls.
type Chain struct {
	client   *Client
	segments []string
	keys     []paramKey
	err      error
}

// Path appends literal segments.
func (ch Chain) Path(names ...string) Chain {
	ch.segments = append(slices.Clip(ch.segments), names...)
	return ch
}

// Param appends value as a path segment. A non-empty key is checked against
// the parameter name the matching route declares at that position when a
// verb is called.
func (ch Chain) Param(key string, value any) Chain {
	seg, err := paramSegment(value)
	if err != nil {
		if ch.err == nil {
			ch.err = fmt.Errorf("%w: %q: %w", rpcerrors.ErrInvalidParam, key, err)
		}
		seg = ""
	}
	if key != "" {
		ch.keys = append(slices.Clip(ch.keys), paramKey{index: len(ch.segments), key: key})
	}
	ch.segments = append(slices.Clip(ch.segments), seg)
	return ch
}

// Segments returns a copy of the accumulated segments.
func (ch Chain) Segments() []string {
	return slices.Clone(ch.segments)
}

// String returns the accumulated path with a leading slash.
func (ch Chain) String() string {
	return "/" + strings.Join(ch.segments, "/")
}

// URL returns the absolute URL of the accumulated path. It fails with the
// error of the first [Chain.Param] that could not format its value.
func (ch Chain) URL() (string, error) {
	if ch.err != nil {
		return "", ch.err
	}
	if ch.client == nil {
		return ch.String(), nil
	}
	return ch.client.resolve(ch.String()), nil
}

// Err returns the error of the first [Chain.Param] that could not format
// its value, if any.
func (ch Chain) Err() error { return ch.err }

// Invoke applies arg to the chain according to its last segment:
//
//   - "$url": returns the absolute URL of the preceding segments.
//   - a verb marker ("$get", "$post", ...): returns a [*Call] for the
//     preceding segments with arg as body.
//   - anything else, with a single-entry map or single-field struct: appends
//     the value as a segment and records the key, as [Chain.Param] does.
//
// Other combinations fail with [errors.ErrNotCallable].
//
// Example:
//
//	step, err := c.Path("users").Invoke(map[string]any{"id": 5})
//	step, err = step.Chain.Path("$get").Invoke(nil)
//	resp, err := step.Call.Await(ctx)
func (ch Chain) Invoke(arg any, opts ...RequestOption) (Step, error) {
	last := ""
	if n := len(ch.segments); n > 0 {
		last = ch.segments[n-1]
	}
	parent := ch
	if last != "" {
		parent.segments = ch.segments[:len(ch.segments)-1]
	}

	switch {
	case last == urlMarker:
		u, err := parent.URL()
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepURL, URL: u}, nil
	case strings.HasPrefix(last, markerPrefix):
		method, ok := verbMarkers[strings.ToLower(last)]
		if !ok {
			return Step{}, fmt.Errorf("%w: unknown marker %q", rpcerrors.ErrNotCallable, last)
		}
		call := parent.Call(method, arg, opts...)
		if err := call.Err(); err != nil {
			return Step{}, err
		}
		return Step{Kind: StepCall, Call: call}, nil
	}

	key, value, ok, err := singleEntry(arg)
	if err != nil {
		return Step{}, err
	}
	if !ok {
		return Step{}, fmt.Errorf("%w: %q", rpcerrors.ErrNotCallable, ch.String())
	}
	return Step{Kind: StepChain, Chain: ch.Param(key, value)}, nil
}

// Call returns a [*Call] sending method to the accumulated path.
func (ch Chain) Call(method string, body any, opts ...RequestOption) *Call {
	if ch.client == nil {
		return failedCall(fmt.Errorf("%w: chain has no client", rpcerrors.ErrNotCallable))
	}
	if ch.err != nil {
		return failedCall(ch.err)
	}
	method = strings.ToUpper(method)
	route, err := ch.verify(method)
	if err != nil {
		return failedCall(err)
	}
	return newCall(ch.client, newDescriptor(method, strings.Join(ch.segments, "/"), body, opts), route)
}

// Get sends a GET request.
func (ch Chain) Get(opts ...RequestOption) *Call { return ch.Call(http.MethodGet, nil, opts...) }

// Head sends a HEAD request.
func (ch Chain) Head(opts ...RequestOption) *Call { return ch.Call(http.MethodHead, nil, opts...) }

// Delete sends a DELETE request.
func (ch Chain) Delete(opts ...RequestOption) *Call {
	return ch.Call(http.MethodDelete, nil, opts...)
}

// Post sends body with POST.
func (ch Chain) Post(body any, opts ...RequestOption) *Call {
	return ch.Call(http.MethodPost, body, opts...)
}

// Put sends body with PUT.
func (ch Chain) Put(body any, opts ...RequestOption) *Call {
	return ch.Call(http.MethodPut, body, opts...)
}

// Patch sends body with PATCH.
func (ch Chain) Patch(body any, opts ...RequestOption) *Call {
	return ch.Call(http.MethodPatch, body, opts...)
}

// verify resolves the chain against the route table and checks the
// recorded parameter keys. Routes are tried in declaration order and the
// first one the keys fit wins, so "/users/me/posts" declared before
// "/users/:id/posts" does not hide the latter from a keyed "id" segment.
// Routes that accept method are preferred; the others are only tried when
// none does and the client is not strict. It returns the matched route
// name, if any.
func (ch Chain) verify(method string) (string, error) {
	routes := ch.client.routes
	path := ch.String()

	var (
		seen     bool
		firstErr error
	)
	scan := func(allowed bool) (string, bool) {
		for rec, pattern := range routes.Matches(path) {
			if rec.Allows(method) != allowed {
				continue
			}
			seen = true
			err := ch.checkKeys(rec.Name, pattern)
			if err == nil {
				return rec.Name, true
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		return "", false
	}

	if name, ok := scan(true); ok {
		return name, nil
	}
	if !seen {
		if ch.client.strict {
			return "", rpcerrors.NewPathNotFound(path)
		}
		if name, ok := scan(false); ok {
			return name, nil
		}
	}
	return "", firstErr
}

func (ch Chain) checkKeys(route string, pattern matcher.Pattern) error {
	for _, k := range ch.keys {
		if k.index >= len(pattern) || pattern[k.index].Kind == matcher.Static {
			return fmt.Errorf("%w: %q is not a parameter of route %q", rpcerrors.ErrParamMismatch, k.key, route)
		}
		declared := pattern[k.index].Name
		if declared == "*" || sameParam(k.key, declared) {
			continue
		}
		return fmt.Errorf("%w: got %q, route %q declares %q", rpcerrors.ErrParamMismatch, k.key, route, declared)
	}
	return nil
}

// sameParam compares parameter names ignoring case, "_" and "-", so
// "postId" matches "post_id".
func sameParam(a, b string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	}
	return norm(a) == norm(b)
}

// paramSegment formats a scalar or [fmt.Stringer] as an escaped path
// segment.
func paramSegment(value any) (string, error) {
	rv := indirect(reflect.ValueOf(value))
	if !rv.IsValid() {
		return "", errors.New("value is nil")
	}
	v := rv.Interface()
	if _, ok := v.(fmt.Stringer); !ok {
		switch rv.Kind() {
		case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
			return "", fmt.Errorf("unsupported type %T", value)
		}
	}
	s := query.Stringify(v)
	if s == "" {
		return "", errors.New("value is empty")
	}
	return url.PathEscape(s), nil
}

// singleEntry extracts the only key and value of a map or struct argument.
// ok is false when arg is neither.
func singleEntry(arg any) (key string, value any, ok bool, err error) {
	rv := indirect(reflect.ValueOf(arg))
	if !rv.IsValid() || (rv.Kind() != reflect.Map && rv.Kind() != reflect.Struct) {
		return "", nil, false, nil
	}
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() != reflect.String {
		return "", nil, false, fmt.Errorf("%w: map keys must be strings", rpcerrors.ErrInvalidParam)
	}

	n := 0
	eachField(rv, func(name string, v reflect.Value) bool {
		n++
		key, value = name, v.Interface()
		return true
	})
	if n != 1 {
		return "", nil, false, fmt.Errorf("%w: expected exactly one parameter, got %d", rpcerrors.ErrInvalidParam, n)
	}
	return key, value, true, nil
}
