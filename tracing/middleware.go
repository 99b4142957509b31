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
package tracing

import (
	"net/http"

	"rivaas.dev/client/transport"
)

// Middleware returns transport middleware that wraps each request in a
// client span and injects trace context headers.
func Middleware(t *Tracer) transport.Middleware {
	return func(next transport.DoerFunc) transport.DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			ctx, span := t.StartClientSpan(r.Context(), r, transport.RouteFromContext(r.Context()))

			r = r.Clone(ctx)
			t.InjectTraceContext(ctx, r.Header)

			resp, err := next(r)
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			t.FinishClientSpan(span, status, err)
			return resp, err
		}
	}
}
