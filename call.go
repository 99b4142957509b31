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
	"fmt"
	"strings"
	"sync"
	"time"

	"rivaas.dev/client/logging"
	"rivaas.dev/client/telemetry/semconv"
)

// Call is the lazily executed result of one verb invocation.
//
// The request is sent once, when the first consumer calls [Call.Await] or
// [Call.Unwrap]. Concurrent and later consumers share that request and its
// result. Separate verb invocations always produce separate Calls, so
// calling a stored chain twice sends two requests.
type Call struct {
	client *Client
	desc   RequestDescriptor
	route  string

	once sync.Once
	done chan struct{}
	resp *Response
	err  error
}

func newCall(c *Client, d RequestDescriptor, route string) *Call {
	return &Call{client: c, desc: d, route: route, done: make(chan struct{})}
}

// failedCall returns a Call that resolves to err without sending anything.
func failedCall(err error) *Call {
	call := &Call{err: err, done: make(chan struct{})}
	call.once.Do(func() { close(call.done) })
	return call
}

// Descriptor returns the request the call sends.
func (c *Call) Descriptor() RequestDescriptor { return c.desc }

// Route returns the table route the call resolved to, or "".
func (c *Call) Route() string { return c.route }

// Err returns the error that prevented the call from being built, such as
// a parameter mismatch. It never sends the request.
func (c *Call) Err() error {
	if c.client == nil {
		return c.err
	}
	return nil
}

// Await sends the request if no consumer has yet and waits for the
// envelope. Non-2xx responses are reported in [Response.Error]; the
// returned error is a build, transport or decoding failure, or ctx.Err()
// when ctx ends first.
func (c *Call) Await(ctx context.Context) (*Response, error) {
	c.start(ctx)
	select {
	case <-c.done:
		return c.resp, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unwrap is like [Call.Await] but returns the decoded payload, with the
// [*errors.HTTPError] as error for non-2xx responses.
func (c *Call) Unwrap(ctx context.Context) (any, error) {
	resp, err := c.Await(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Data, nil
}

func (c *Call) start(ctx context.Context) {
	c.once.Do(func() {
		reqCtx := c.desc.Options.Context
		if reqCtx == nil {
			reqCtx = ctx
		}
		go func() {
			defer close(c.done)
			c.resp, c.err = c.client.execute(reqCtx, c.desc, c.route)
		}()
	})
}

// AwaitAs awaits call and decodes a success body into T. For non-2xx
// responses the zero T is returned with the envelope and a nil error.
func AwaitAs[T any](ctx context.Context, call *Call) (T, *Response, error) {
	var out T
	resp, err := call.Await(ctx)
	if err != nil || resp.Error != nil {
		return out, resp, err
	}
	if err = resp.Decode(&out); err != nil {
		return out, resp, fmt.Errorf("failed to decode response into %T: %w", out, err)
	}
	return out, resp, nil
}

// Unwrap awaits call and decodes a success body into T, returning the
// [*errors.HTTPError] as error for non-2xx responses.
func Unwrap[T any](ctx context.Context, call *Call) (T, error) {
	out, resp, err := AwaitAs[T](ctx, call)
	if err != nil {
		return out, err
	}
	if resp.Error != nil {
		return out, resp.Error
	}
	return out, nil
}

// execute sends exactly one request.
func (c *Client) execute(ctx context.Context, d RequestDescriptor, route string) (*Response, error) {
	req, err := c.newRequest(ctx, d, route)
	if err != nil {
		return nil, err
	}

	log := logging.NewContextLogger(req.Context(), c.logger)
	args := []any{semconv.LogMethod, d.Method, semconv.LogPath, "/" + strings.TrimPrefix(d.Path, "/")}
	if route != "" {
		args = append(args, semconv.LogRoute, route)
	}
	log.Debug("rpc call started", args...)

	start := time.Now()
	raw, err := c.do(req)
	if err != nil {
		log.Debug("rpc call failed", append(args, semconv.LogError, err)...)
		return nil, err
	}
	resp, err := readResponse(raw)
	if err != nil {
		return nil, err
	}

	args = append(args, semconv.LogStatus, resp.Status, semconv.LogDuration, time.Since(start))
	if resp.Error != nil {
		log.Warn("rpc call returned error status", args...)
	} else {
		log.Debug("rpc call completed", args...)
	}
	return resp, nil
}
