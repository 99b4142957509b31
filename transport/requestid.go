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
package transport

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// DefaultRequestIDHeader is the header [RequestID] sets by default.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// ContextWithRequestID returns a context whose requests carry id instead of
// a generated one. Useful to forward the id of an incoming server request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by [ContextWithRequestID].
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDOption configures [RequestID].
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	header    string
	generator func() string
}

// WithRequestIDHeader changes the header name.
func WithRequestIDHeader(name string) RequestIDOption {
	return func(c *requestIDConfig) { c.header = name }
}

// WithULID generates 26-character ULIDs instead of UUID v7.
func WithULID() RequestIDOption {
	return func(c *requestIDConfig) { c.generator = generateULID }
}

// WithGenerator sets a custom id generator.
func WithGenerator(fn func() string) RequestIDOption {
	return func(c *requestIDConfig) { c.generator = fn }
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is monotonic within a millisecond and not safe for
// concurrent use on its own.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// RequestID returns middleware that tags every outgoing request with an id.
//
// An id already present in the header wins, then one stored in the request
// context, then a freshly generated UUID v7.
func RequestID(opts ...RequestIDOption) Middleware {
	cfg := &requestIDConfig{
		header:    DefaultRequestIDHeader,
		generator: generateUUIDv7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next DoerFunc) DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(cfg.header) != "" {
				return next(r)
			}
			id := RequestIDFromContext(r.Context())
			if id == "" {
				id = cfg.generator()
			}
			r = r.Clone(r.Context())
			r.Header.Set(cfg.header, id)
			return next(r)
		}
	}
}
