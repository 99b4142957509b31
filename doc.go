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
// Package client is an RPC client for HTTP APIs described by a route table.
//
// A route table lists the named routes of a server (see package table). The
// client builds requests in two ways. A [Chain] mirrors the URL structure:
//
//	c := client.MustNew("https://api.example.com", routes)
//	resp, err := c.Path("users").Param("id", 5).Path("posts").Get().Await(ctx)
//
// and the route helper works from route names:
//
//	call, err := c.Route("users.posts.index", map[string]any{"id": 5})
//	posts, err := call.Get().Unwrap(ctx)
//	href, err := c.URL("users.show", client.URLOptions{Params: []any{5}})
//
// Every verb returns a [*Call]. The request runs once, on the first [Call.Await]
// or [Call.Unwrap]; later consumers of the same Call share the result. Await
// reports non-2xx responses in [Response.Error] and returns an error only for
// transport and decoding failures. Unwrap returns the decoded payload, or the
// [*errors.HTTPError] as error.
//
// Request bodies are sent as JSON unless they contain a file ([File],
// [*os.File], [*multipart.FileHeader]) or are a [*FormData], in which case
// they are sent as multipart/form-data with bracket notation for nested keys.
// GET and HEAD requests never carry a body; a "query" entry of a map body
// becomes their query string.
//
// [Client.Current] and [Client.IsCurrent] answer which route a location
// belongs to. The location comes from the [LocationProvider] given with
// [WithLocation].
package client
