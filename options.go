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
	"log/slog"
	"net/http"

	"rivaas.dev/client/transport"
)

// Option configures a [Client].
type Option func(*Client)

// WithDoer sends requests through d instead of [http.DefaultClient].
// An [*http.Client] satisfies [transport.Doer].
func WithDoer(d transport.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.base = d
		}
	}
}

// WithMiddleware appends transport middleware. The first middleware given
// is the outermost.
func WithMiddleware(mws ...transport.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithHeaders adds default headers to every request. Per-call headers set
// with [WithHeader] replace them.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, vs := range h {
			for _, v := range vs {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithLogger logs every call: start and completion at debug level, non-2xx
// responses at warn.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLocation sets the source of the current location for
// [Client.Current] and [Client.IsCurrent].
func WithLocation(p LocationProvider) Option {
	return func(c *Client) { c.location = p }
}

// WithStrictRoutes makes chains fail with a route-not-found error when the
// accumulated path matches no route of the table that accepts the verb.
func WithStrictRoutes() Option {
	return func(c *Client) { c.strict = true }
}
