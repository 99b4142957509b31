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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpcerrors "rivaas.dev/client/errors"
)

func TestClient_URL(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com/", testRoutes())

	tests := []struct {
		name  string
		route string
		opts  URLOptions
		want  string
	}{
		{name: "map params", route: "posts.show", opts: URLOptions{Params: map[string]any{"id": 5}}, want: "https://api.example.com/posts/5"},
		{name: "slice params", route: "posts.show", opts: URLOptions{Params: []any{5}}, want: "https://api.example.com/posts/5"},
		{name: "scalar param", route: "posts.show", opts: URLOptions{Params: 5}, want: "https://api.example.com/posts/5"},
		{name: "static route", route: "posts.index", want: "https://api.example.com/posts"},
		{
			name:  "camelCased lookup",
			route: "users.posts.show",
			opts:  URLOptions{Params: map[string]any{"userId": 1, "id": 2}},
			want:  "https://api.example.com/users/1/posts/2",
		},
		{
			name:  "snake_case key still works",
			route: "users.posts.show",
			opts:  URLOptions{Params: map[string]string{"user_id": "1", "id": "2"}},
			want:  "https://api.example.com/users/1/posts/2",
		},
		{
			name:  "struct params",
			route: "users.posts.show",
			opts: URLOptions{Params: struct {
				UserID int `json:"userId"`
				ID     int `json:"id"`
			}{UserID: 3, ID: 4}},
			want: "https://api.example.com/users/3/posts/4",
		},
		{name: "optional dropped", route: "archive", opts: URLOptions{Params: map[string]any{"year": 2024}}, want: "https://api.example.com/archive/2024"},
		{name: "optional kept", route: "archive", opts: URLOptions{Params: []any{2024, "05"}}, want: "https://api.example.com/archive/2024/05"},
		{name: "wildcard slice", route: "files", opts: URLOptions{Params: []any{[]string{"docs", "a b.txt"}}}, want: "https://api.example.com/files/docs/a%20b.txt"},
		{name: "wildcard by name", route: "files", opts: URLOptions{Params: map[string]any{"*": "readme"}}, want: "https://api.example.com/files/readme"},
		{name: "suffix", route: "downloads", opts: URLOptions{Params: map[string]any{"file": "report"}}, want: "https://api.example.com/downloads/report.zip"},
		{
			name:  "query",
			route: "posts.index",
			opts:  URLOptions{Query: map[string]any{"page": 2, "tags": []string{"go"}, "draft": false}},
			want:  "https://api.example.com/posts?page=2&tags[]=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.URL(tt.route, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_URL_Errors(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes())

	_, err := c.URL("posts.show", URLOptions{})
	var missing *rpcerrors.MissingRouteParamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "posts.show", missing.Route)
	assert.Equal(t, "id", missing.Param)

	_, err = c.URL("users.posts.show", URLOptions{Params: []any{1}})
	require.ErrorIs(t, err, rpcerrors.ErrMissingRouteParam)

	_, err = c.URL("posts.show", URLOptions{Params: map[string]any{"id": ""}})
	require.ErrorIs(t, err, rpcerrors.ErrMissingRouteParam)

	_, err = c.URL("files", URLOptions{})
	require.ErrorIs(t, err, rpcerrors.ErrMissingRouteParam)

	_, err = c.URL("nope", URLOptions{})
	var notFound *rpcerrors.RouteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Name)
}

func TestClient_Has(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes())

	tests := []struct {
		name string
		want bool
	}{
		{"posts.show", true},
		{"posts.missing", false},
		{"posts.*", true},
		{"posts.*.edit", true},
		{"users.*.edit", false},
		{"*", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Has(tt.name), tt.name)
	}
}

func TestClient_Route(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	c := newTestClient(t, ts)
	ctx := context.Background()

	rc, err := c.Route("posts.show", map[string]any{"id": 12})
	require.NoError(t, err)
	assert.Equal(t, "posts.show", rc.Name())
	assert.Equal(t, "/posts/12", rc.Path())
	assert.Equal(t, ts.URL+"/posts/12", rc.URL())
	assert.Equal(t, []string{"GET", "PUT", "DELETE"}, rc.Methods())

	_, err = rc.Put(map[string]any{"title": "edited"}).Await(ctx)
	require.NoError(t, err)
	got := ts.lastRequest()
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/posts/12", got.Path)
	assert.JSONEq(t, `{"title":"edited"}`, string(got.Body))

	_, err = rc.Delete().Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, ts.lastRequest().Method)

	before := ts.hits.Load()
	call := rc.Post(nil)
	require.ErrorIs(t, call.Err(), rpcerrors.ErrMethodNotAllowed)
	_, err = call.Unwrap(ctx)
	require.ErrorIs(t, err, rpcerrors.ErrMethodNotAllowed)
	assert.Equal(t, before, ts.hits.Load(), "disallowed verbs send nothing")

	_, err = c.Route("nope", nil)
	require.ErrorIs(t, err, rpcerrors.ErrRouteNotFound)

	_, err = c.Route("posts.show", nil)
	require.ErrorIs(t, err, rpcerrors.ErrMissingRouteParam)
}

func TestClient_RouteByPath(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes())

	rec, err := c.RouteByPath("/posts/3/comments/4/edit")
	require.NoError(t, err)
	assert.Equal(t, "posts.comments.edit", rec.Name)

	_, err = c.RouteByPath("/missing")
	var notFound *rpcerrors.RouteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/missing", notFound.Path)
}

func TestCamelCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"id":           "id",
		"user_id":      "userId",
		"post-comment": "postComment",
		"UserID":       "userID",
		"*":            "*",
		"":             "",
		"a__b":         "aB",
	}
	for in, want := range tests {
		assert.Equal(t, want, camelCase(in), in)
	}
}
