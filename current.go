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
	"net/url"
	"strings"

	rpcerrors "rivaas.dev/client/errors"
	"rivaas.dev/client/query"
	"rivaas.dev/client/table"
)

// ErrNoLocation is returned by [Client.Current] and [Client.IsCurrent] when
// the client has no [LocationProvider].
var ErrNoLocation = errors.New("no location provider configured")

// Location is a snapshot of the current address.
type Location struct {
	Host     string
	Pathname string
	// Search is the query string, with or without the leading "?".
	Search string
}

// Location returns l, so a fixed Location is a [LocationProvider].
func (l Location) Location() Location { return l }

// ParseLocation splits an absolute or relative URL into a Location.
func ParseLocation(rawURL string) (Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Host: u.Host, Pathname: u.EscapedPath()}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	return loc, nil
}

// LocationProvider reports where the application currently is.
type LocationProvider interface {
	Location() Location
}

// LocationFunc adapts a function to [LocationProvider].
type LocationFunc func() Location

// Location calls f.
func (f LocationFunc) Location() Location { return f() }

type matchSpec struct {
	params map[string]any
	query  map[string]any
}

// MatchOption narrows [Client.IsCurrent].
type MatchOption func(*matchSpec)

// MatchParams requires the current path parameters to equal params. Keys
// are camelCased parameter names; values are compared as strings.
func MatchParams(params map[string]any) MatchOption {
	return func(s *matchSpec) { s.params = params }
}

// MatchQuery requires the current query string to carry query. Both sides
// are parsed into one value per key, so repeated keys compare by their last
// value only.
func MatchQuery(q map[string]any) MatchOption {
	return func(s *matchSpec) { s.query = q }
}

// Current returns the name of the route matching the current location.
func (c *Client) Current() (string, error) {
	loc, err := c.currentLocation()
	if err != nil {
		return "", err
	}
	return c.CurrentAt(loc)
}

// CurrentAt returns the name of the route matching loc.
func (c *Client) CurrentAt(loc Location) (string, error) {
	rec, _, ok := c.routes.Match(loc.Pathname)
	if !ok {
		return "", rpcerrors.NewPathNotFound(loc.Pathname)
	}
	return rec.Name, nil
}

// IsCurrent reports whether the current location belongs to the route
// called name, which may contain "*" wildcards.
//
// Example:
//
//	ok, err := c.IsCurrent("posts.*", client.MatchParams(map[string]any{"id": 5}))
func (c *Client) IsCurrent(name string, opts ...MatchOption) (bool, error) {
	loc, err := c.currentLocation()
	if err != nil {
		return false, err
	}
	return c.IsCurrentAt(loc, name, opts...), nil
}

// IsCurrentAt is [Client.IsCurrent] for an explicit location.
func (c *Client) IsCurrentAt(loc Location, name string, opts ...MatchOption) bool {
	rec, params, ok := c.routes.Match(loc.Pathname)
	if !ok || !nameMatches(name, rec.Name) {
		return false
	}

	var spec matchSpec
	for _, opt := range opts {
		opt(&spec)
	}

	if len(spec.params) > 0 {
		current := make(map[string]string, len(params))
		for k, v := range params {
			current[camelCase(k)] = paramString(v)
		}
		for k, want := range spec.params {
			got, ok := current[k]
			if !ok || got != paramString(want) {
				return false
			}
		}
	}

	if len(spec.query) > 0 {
		want := parseSearch(query.Encode(spec.query))
		got := parseSearch(loc.Search)
		for k, vs := range want {
			gs, ok := got[k]
			if !ok || gs[len(gs)-1] != vs[len(vs)-1] {
				return false
			}
		}
	}
	return true
}

func (c *Client) currentLocation() (Location, error) {
	if c.location == nil {
		return Location{}, ErrNoLocation
	}
	return c.location.Location(), nil
}

func nameMatches(pattern, name string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == name
	}
	return table.NamePattern(pattern).MatchString(name)
}

func paramString(v any) string {
	if parts, ok := v.([]string); ok {
		return strings.Join(parts, "/")
	}
	return query.Stringify(v)
}

func parseSearch(search string) url.Values {
	values, _ := url.ParseQuery(strings.TrimPrefix(search, "?"))
	return values
}
