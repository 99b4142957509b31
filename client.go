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
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"rivaas.dev/client/table"
	"rivaas.dev/client/transport"
)

// ErrInvalidBaseURL is returned by [New] for a base URL that is not absolute.
var ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")

// Client issues RPC calls against a single API.
//
// A Client is immutable after [New] and safe for concurrent use. The route
// table and its compiled patterns are shared by every call without locking.
type Client struct {
	baseURL     string
	routes      *table.Table
	base        transport.Doer
	middlewares []transport.Middleware
	do          transport.DoerFunc
	headers     http.Header
	logger      *slog.Logger
	location    LocationProvider
	strict      bool
}

// New creates a Client for baseURL. routes may be nil, in which case only
// chains work and the route helper reports every name as unknown.
//
// Example:
//
//	routes := table.MustNew([]table.Record{
//		{Name: "posts.show", Path: "/posts/:id", Method: []string{"GET"}},
//	})
//	c, err := client.New("https://api.example.com", routes,
//		client.WithHeaders(http.Header{"Authorization": {"Bearer " + token}}),
//		client.WithMiddleware(transport.RequestID()),
//	)
func New(baseURL string, routes *table.Table, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if routes == nil {
		routes = table.MustNew(nil)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		routes:  routes,
		base:    http.DefaultClient,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.do = transport.Chain(c.base.Do, c.middlewares...)
	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(baseURL string, routes *table.Table, opts ...Option) *Client {
	c, err := New(baseURL, routes, opts...)
	if err != nil {
		panic("client: " + err.Error())
	}
	return c
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Table returns the route table.
func (c *Client) Table() *table.Table { return c.routes }

// Path starts a chain with the given segments.
func (c *Client) Path(segments ...string) Chain {
	return Chain{client: c}.Path(segments...)
}

// resolve joins a path onto the base URL.
func (c *Client) resolve(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}
