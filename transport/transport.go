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

// Package transport is the HTTP boundary of the RPC client.
//
// The client never talks to the network directly. It hands each request to a
// [Doer], usually an [*http.Client], wrapped in client-side middleware:
//
//	doer := transport.New(http.DefaultClient,
//	    transport.RequestID(),
//	    transport.Decompress(),
//	    transport.Logging(logger),
//	)
//
// Middleware runs in the order given, so the first one sees the request
// first and the response last. Errors from the underlying Doer are returned
// unchanged.
package transport

import (
	"net/http"
	"slices"
)

// Doer performs HTTP requests. [*http.Client] implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to [Doer] and [http.RoundTripper].
type DoerFunc func(*http.Request) (*http.Response, error)

// Do implements [Doer].
func (f DoerFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

// RoundTrip implements [http.RoundTripper].
func (f DoerFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Middleware wraps a [DoerFunc]. Implementations must not modify the
// incoming request; clone it first.
type Middleware func(next DoerFunc) DoerFunc

// Client is a [Doer] with a middleware chain.
type Client struct {
	base        Doer
	chain       DoerFunc
	middlewares []Middleware
}

// New wraps doer with mws. A nil doer uses [http.DefaultClient].
func New(doer Doer, mws ...Middleware) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		base:        doer,
		chain:       Chain(doer.Do, mws...),
		middlewares: mws,
	}
}

// Do sends r through the middleware chain.
func (c *Client) Do(r *http.Request) (*http.Response, error) {
	return c.chain(r)
}

// With returns a new Client whose chain is the receiver's followed by mws.
func (c *Client) With(mws ...Middleware) *Client {
	return New(c.base, slices.Concat(c.middlewares, mws)...)
}

// Chain composes mws around do. Nil middleware is skipped.
func Chain(do DoerFunc, mws ...Middleware) DoerFunc {
	chain := do
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		chain = mws[i](chain)
	}
	return chain
}

// Header returns middleware that sets header name to value on every request
// that does not already carry it.
func Header(name, value string) Middleware {
	return func(next DoerFunc) DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(name) != "" {
				return next(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(name, value)
			return next(r)
		}
	}
}
