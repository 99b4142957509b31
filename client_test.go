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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpcerrors "rivaas.dev/client/errors"
	"rivaas.dev/client/logging"
	"rivaas.dev/client/table"
	"rivaas.dev/client/transport"
)

func testRoutes() *table.Table {
	return table.MustNew([]table.Record{
		{Name: "auth.login", Path: "/auth/login", Method: []string{"POST"}},
		{Name: "posts.index", Path: "/posts", Method: []string{"GET", "HEAD"}},
		{Name: "posts.store", Path: "/posts", Method: []string{"POST"}},
		{Name: "posts.show", Path: "/posts/:id", Method: []string{"GET", "PUT", "DELETE"}},
		{Name: "users.posts.show", Path: "/users/:user_id/posts/:id", Method: []string{"GET"}},
		{Name: "posts.comments.edit", Path: "/posts/:post_id/comments/:id/edit", Method: []string{"GET"}},
		{Name: "archive", Path: "/archive/:year/:month?", Method: []string{"GET"}},
		{Name: "files", Path: "/files/*", Method: []string{"GET"}},
		{Name: "downloads", Path: "/downloads/:file.zip", Method: []string{"GET"}},
	})
}

// captured is what the test server saw of one request.
type captured struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Header      http.Header
	Body        []byte
}

type testServer struct {
	*httptest.Server
	hits atomic.Int64

	mu   sync.Mutex
	last captured
}

// newTestServer records every request and answers with handler, or with
// {"ok":true} when handler is nil.
func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.last = captured{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Header:      r.Header.Clone(),
			Body:        body,
		}
		ts.mu.Unlock()

		if handler != nil {
			handler(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) lastRequest() captured {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.last
}

func newTestClient(t *testing.T, ts *testServer, opts ...Option) *Client {
	t.Helper()

	c, err := New(ts.URL, testRoutes(), append([]Option{WithDoer(ts.Client())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "https", baseURL: "https://api.example.com/", wantErr: false},
		{name: "with path", baseURL: "http://localhost:3333/api", wantErr: false},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "other scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(tt.baseURL, nil)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidBaseURL)
				assert.Panics(t, func() { MustNew(tt.baseURL, nil) })
				return
			}
			require.NoError(t, err)
			assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
			assert.Equal(t, 0, c.Table().Len())
		})
	}
}

func TestChain_IsImmutable(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", nil)
	auth := c.Path("auth")
	login := auth.Path("login")
	logout := auth.Path("logout")
	user := auth.Param("id", 7)

	assert.Equal(t, "/auth", auth.String())
	assert.Equal(t, "/auth/login", login.String())
	assert.Equal(t, "/auth/logout", logout.String())
	assert.Equal(t, "/auth/7", user.String())
	u, err := login.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/auth/login", u)
	assert.Equal(t, []string{"auth", "login"}, login.Segments())
}

func TestChain_ParamEscapesValues(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", nil)
	assert.Equal(t, "/files/a%2Fb%20c", c.Path("files").Param("", "a/b c").String())

	call := c.Path("files").Param("name", nil).Get()
	require.ErrorIs(t, call.Err(), rpcerrors.ErrInvalidParam)

	call = c.Path("files").Param("name", []int{1}).Get()
	require.ErrorIs(t, call.Err(), rpcerrors.ErrInvalidParam)

	bad := c.Path("posts").Param("id", nil)
	require.ErrorIs(t, bad.Err(), rpcerrors.ErrInvalidParam)

	_, err := bad.URL()
	require.ErrorIs(t, err, rpcerrors.ErrInvalidParam)

	_, err = bad.Path("$url").Invoke(nil)
	require.ErrorIs(t, err, rpcerrors.ErrInvalidParam)

	_, err = c.Path("posts").Param("id", "").Path("$url").Invoke(nil)
	require.ErrorIs(t, err, rpcerrors.ErrInvalidParam)
}

func TestChain_ParamSkipsShadowingStaticRoute(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	routes := table.MustNew([]table.Record{
		{Name: "users.me.posts", Path: "/users/me/posts", Method: []string{"GET"}},
		{Name: "users.posts", Path: "/users/:id/posts", Method: []string{"GET"}},
	})

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "default"},
		{name: "strict", opts: []Option{WithStrictRoutes()}},
	}

	// Subtests run in order: they read the shared hit counter.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(ts.URL, routes, append([]Option{WithDoer(ts.Client())}, tt.opts...)...)
			require.NoError(t, err)

			step, err := c.Path("users").Invoke(map[string]any{"id": "me"})
			require.NoError(t, err)

			call := step.Chain.Path("posts").Get()
			require.NoError(t, call.Err())
			assert.Equal(t, "users.posts", call.Route())

			before := ts.hits.Load()
			_, err = call.Await(context.Background())
			require.NoError(t, err)
			assert.Equal(t, before+1, ts.hits.Load())
			assert.Equal(t, "/users/me/posts", ts.lastRequest().Path)
		})
	}

	c := MustNew(ts.URL, routes, WithDoer(ts.Client()))
	call := c.Path("users").Param("slug", "me").Path("posts").Get()
	require.ErrorIs(t, call.Err(), rpcerrors.ErrParamMismatch)

	call = c.Path("users", "me", "posts").Get()
	require.NoError(t, call.Err())
	assert.Equal(t, "users.me.posts", call.Route())
}

func TestChain_Invoke(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes())

	t.Run("url marker", func(t *testing.T) {
		t.Parallel()

		step, err := c.Path("posts", "$url").Invoke(nil)
		require.NoError(t, err)
		assert.Equal(t, StepURL, step.Kind)
		assert.Equal(t, "https://api.example.com/posts", step.URL)
	})

	t.Run("dynamic parameter", func(t *testing.T) {
		t.Parallel()

		step, err := c.Path("posts").Invoke(map[string]any{"id": 5})
		require.NoError(t, err)
		require.Equal(t, StepChain, step.Kind)
		assert.Equal(t, "/posts/5", step.Chain.String())

		step, err = step.Chain.Path("$get").Invoke(nil)
		require.NoError(t, err)
		require.Equal(t, StepCall, step.Kind)
		assert.Equal(t, "posts.show", step.Call.Route())
		assert.Equal(t, http.MethodGet, step.Call.Descriptor().Method)
		assert.Equal(t, "posts/5", step.Call.Descriptor().Path)
	})

	t.Run("struct parameter", func(t *testing.T) {
		t.Parallel()

		step, err := c.Path("users").Invoke(struct {
			UserID int `json:"userId"`
		}{UserID: 3})
		require.NoError(t, err)
		assert.Equal(t, "/users/3", step.Chain.String())
	})

	t.Run("verb marker with body", func(t *testing.T) {
		t.Parallel()

		body := map[string]any{"title": "hello"}
		step, err := c.Path("posts", "$post").Invoke(body, WithHeader("X-Test", "1"))
		require.NoError(t, err)
		assert.Equal(t, "posts.store", step.Call.Route())
		assert.Equal(t, body, step.Call.Descriptor().Body)
		assert.Equal(t, "1", step.Call.Descriptor().Options.Header.Get("X-Test"))
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		_, err := c.Path("posts").Invoke(map[string]any{"id": 5, "extra": 6})
		require.ErrorIs(t, err, rpcerrors.ErrInvalidParam)

		_, err = c.Path("posts").Invoke("5")
		require.ErrorIs(t, err, rpcerrors.ErrNotCallable)

		_, err = c.Path("posts", "$fetch").Invoke(nil)
		require.ErrorIs(t, err, rpcerrors.ErrNotCallable)

		_, err = Chain{}.Path("$get").Invoke(nil)
		require.ErrorIs(t, err, rpcerrors.ErrNotCallable)
	})
}

func TestChain_ParamVerification(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes())

	tests := []struct {
		name      string
		chain     Chain
		wantRoute string
		wantErr   error
	}{
		{
			name:      "camelCase key matches snake_case param",
			chain:     c.Path("users").Param("userId", 1).Path("posts").Param("id", 2),
			wantRoute: "users.posts.show",
		},
		{
			name:      "positional values are not checked",
			chain:     c.Path("users").Param("", 1).Path("posts").Param("", 2),
			wantRoute: "users.posts.show",
		},
		{
			name:    "wrong key",
			chain:   c.Path("users").Param("userId", 1).Path("posts").Param("slug", 2),
			wantErr: rpcerrors.ErrParamMismatch,
		},
		{
			name:    "key on a static segment",
			chain:   c.Path().Param("posts", "posts").Path("1"),
			wantErr: rpcerrors.ErrParamMismatch,
		},
		{
			name:      "wildcard accepts any key",
			chain:     c.Path("files").Param("path", "a"),
			wantRoute: "files",
		},
		{
			name:  "unknown path is sent without a route",
			chain: c.Path("health"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			call := tt.chain.Get()
			if tt.wantErr != nil {
				require.ErrorIs(t, call.Err(), tt.wantErr)
				_, err := call.Await(context.Background())
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, call.Err())
			assert.Equal(t, tt.wantRoute, call.Route())
		})
	}
}

func TestChain_StrictRoutes(t *testing.T) {
	t.Parallel()

	c := MustNew("https://api.example.com", testRoutes(), WithStrictRoutes())

	call := c.Path("health").Get()
	require.ErrorIs(t, call.Err(), rpcerrors.ErrRouteNotFound)

	var notFound *rpcerrors.RouteNotFoundError
	require.ErrorAs(t, c.Path("posts").Delete().Err(), &notFound)
	assert.Equal(t, "/posts", notFound.Path)

	assert.Equal(t, "posts.store", c.Path("posts").Post(nil).Route())
	assert.Equal(t, "posts.index", c.Path("posts").Head().Route())
}

func TestCall_Deduplication(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	c := newTestClient(t, ts)
	ctx := context.Background()

	login := c.Path("auth", "login")
	_, err := login.Post(map[string]any{"email": "a"}).Await(ctx)
	require.NoError(t, err)
	_, err = login.Post(map[string]any{"email": "b"}).Await(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ts.hits.Load(), "separate calls send separate requests")

	call := login.Post(map[string]any{"email": "c"})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := call.Unwrap(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	resp, err := call.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.EqualValues(t, 3, ts.hits.Load(), "consumers of one call share its request")
}

func TestCall_ContextHandling(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	ts := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, ts)

	call := c.Path("posts").Get()

	result := make(chan *Response, 1)
	go func() {
		resp, err := call.Await(context.Background())
		assert.NoError(t, err)
		result <- resp
	}()
	<-started

	// A consumer whose context ends stops waiting without cancelling the
	// shared request.
	waiter, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := call.Await(waiter)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	resp := <-result
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Nil(t, resp.Data)
	assert.EqualValues(t, 1, ts.hits.Load())
}

func TestCall_WithContextOption(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	c := newTestClient(t, ts)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Path("posts").Get(WithContext(reqCtx)).Await(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ts.hits.Load())
}

func TestRequest_Query(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	c := newTestClient(t, ts)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      *Call
		wantQuery string
		wantBody  string
	}{
		{
			name:      "GET takes the query entry of the body",
			call:      c.Path("posts").Call(http.MethodGet, map[string]any{"query": map[string]any{"page": 2, "draft": false}}, WithQuery(map[string]any{"page": 9})),
			wantQuery: "page=2",
		},
		{
			name:      "GET falls back to the query option",
			call:      c.Path("posts").Get(WithQuery(map[string]any{"tags": []string{"go", "http"}, "q": "a b"})),
			wantQuery: "q=a%20b&tags[]=go&tags[]=http",
		},
		{
			name:      "POST keeps query and body apart",
			call:      c.Path("posts").Post(map[string]any{"query": "not a query"}, WithQuery(map[string]any{"notify": true})),
			wantQuery: "notify=true",
			wantBody:  `{"query":"not a query"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call.Await(ctx)
			require.NoError(t, err)

			got := ts.lastRequest()
			assert.Equal(t, tt.wantQuery, got.RawQuery)
			if tt.wantBody == "" {
				assert.Empty(t, got.Body)
				return
			}
			assert.JSONEq(t, tt.wantBody, string(got.Body))
		})
	}
}

func TestRequest_Headers(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	c := newTestClient(t, ts, WithHeaders(http.Header{
		"Authorization":   {"Bearer default"},
		"Accept-Language": {"en"},
	}))

	_, err := c.Path("posts").Post(
		map[string]any{"title": "x"},
		WithHeader("Authorization", "Bearer call"),
		WithHeader("Content-Type", "text/plain"),
		WithHeader("X-Custom", "yes"),
		AddHeader("X-Tag", "a"),
		AddHeader("X-Tag", "b"),
	).Await(context.Background())
	require.NoError(t, err)

	got := ts.lastRequest()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/posts", got.Path)
	assert.Equal(t, "application/json", got.ContentType, "the encoder owns Content-Type")
	assert.Equal(t, "Bearer call", got.Header.Get("Authorization"))
	assert.Equal(t, "en", got.Header.Get("Accept-Language"))
	assert.Equal(t, "yes", got.Header.Get("X-Custom"))
	assert.Equal(t, []string{"a", "b"}, got.Header.Values("X-Tag"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestRequest_RouteInContext(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	var (
		mu     sync.Mutex
		routes []string
	)
	record := func(next transport.DoerFunc) transport.DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			mu.Lock()
			routes = append(routes, transport.RouteFromContext(r.Context()))
			mu.Unlock()
			return next(r)
		}
	}
	c := newTestClient(t, ts, WithMiddleware(record))
	ctx := context.Background()

	_, err := c.Path("posts").Param("id", 1).Get().Await(ctx)
	require.NoError(t, err)
	_, err = c.Path("health").Get().Await(ctx)
	require.NoError(t, err)
	rc, err := c.Route("posts.store", nil)
	require.NoError(t, err)
	_, err = rc.Post(nil).Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"posts.show", "", "posts.store"}, routes)
}

func TestTransportErrorIsNotWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("dial tcp: connection refused")
	c := MustNew("https://api.example.com", testRoutes(), WithDoer(transport.DoerFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})))

	_, err := c.Path("posts").Get().Await(context.Background())
	assert.Same(t, boom, err)

	_, err = c.Path("posts").Get().Unwrap(context.Background())
	assert.Same(t, boom, err)
}

func TestHTTPErrorNarrowing(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"messageNotFound":"x"}`))
	})
	c := newTestClient(t, ts)
	ctx := context.Background()

	resp, err := c.Path("posts").Param("id", 1).Get().Await(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp.Data)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusNotFound, resp.Error.Status)
	assert.Equal(t, map[string]any{"messageNotFound": "x"}, resp.Error.Value)
	assert.Equal(t, "Request failed with status code 404", resp.Error.Error())
	assert.False(t, resp.OK())

	_, err = c.Path("posts").Param("id", 1).Get().Unwrap(ctx)
	var httpErr *rpcerrors.HTTPError
	require.ErrorAs(t, err, &httpErr)

	var payload struct {
		Message string `json:"messageNotFound"`
	}
	require.NoError(t, httpErr.Decode(&payload))
	assert.Equal(t, "x", payload.Message)
}

type post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.URL.Path == "/posts/404" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"gone"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(post{ID: 1, Title: "hello"})
	})
	c := newTestClient(t, ts)
	ctx := context.Background()

	p, err := Unwrap[post](ctx, c.Path("posts").Param("id", 1).Get())
	require.NoError(t, err)
	assert.Equal(t, post{ID: 1, Title: "hello"}, p)

	p, resp, err := AwaitAs[post](ctx, c.Path("posts").Param("id", 404).Get())
	require.NoError(t, err)
	assert.Zero(t, p)
	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusNotFound, resp.Error.HTTPStatus())

	_, err = Unwrap[post](ctx, c.Path("posts").Param("id", 404).Get())
	assert.ErrorAs(t, err, new(*rpcerrors.HTTPError))
}

func TestClient_Logging(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/posts/500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	th := logging.NewTestHelper(t)
	c := newTestClient(t, ts, WithLogger(th.Logger.Logger()))
	ctx := context.Background()

	_, err := c.Path("posts").Param("id", 1).Get().Await(ctx)
	require.NoError(t, err)
	th.AssertLog(t, "DEBUG", "rpc call started", map[string]any{"method": "GET", "path": "/posts/1", "route": "posts.show"})
	th.AssertLog(t, "DEBUG", "rpc call completed", map[string]any{"status": 200})

	_, err = c.Path("posts").Param("id", 500).Get().Await(ctx)
	require.NoError(t, err)
	th.AssertLog(t, "WARN", "rpc call returned error status", map[string]any{"status": 500, "route": "posts.show"})
	assert.Equal(t, 1, th.CountLevel("WARN"))
}
