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
package metrics

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/client/telemetry/semconv"
	"rivaas.dev/client/transport"
)

// RequestMetrics tracks one in-flight request between [Recorder.Start] and
// [Recorder.Finish].
type RequestMetrics struct {
	StartTime  time.Time
	Attributes []attribute.KeyValue
}

// Start begins timing a request with the given method and route.
func (r *Recorder) Start(ctx context.Context, method, route string) *RequestMetrics {
	if route == "" {
		route = unmatchedRoute
	}
	m := &RequestMetrics{
		StartTime:  time.Now(),
		Attributes: make([]attribute.KeyValue, 0, len(r.serviceAttrs)+5),
	}
	m.Attributes = append(m.Attributes, r.serviceAttrs...)
	m.Attributes = append(m.Attributes,
		attribute.String(semconv.HTTPRequestMethod, method),
		attribute.String(semconv.RPCRoute, route),
	)
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(m.Attributes...))
	return m
}

// Finish records the outcome. statusCode is 0 when the transport failed.
func (r *Recorder) Finish(ctx context.Context, m *RequestMetrics, statusCode int, err error) {
	if m == nil {
		return
	}
	r.activeRequests.Add(ctx, -1, metric.WithAttributes(m.Attributes...))

	attrs := append(m.Attributes,
		attribute.Int(semconv.HTTPResponseStatusCode, statusCode),
		attribute.String(semconv.HTTPStatusClass, statusClass(statusCode)),
	)
	if err != nil {
		attrs = append(attrs, attribute.String(semconv.ErrorType, semconv.ErrorTransport))
	}
	opt := metric.WithAttributes(attrs...)

	r.requestDuration.Record(ctx, time.Since(m.StartTime).Seconds(), opt)
	r.requestCount.Add(ctx, 1, opt)
	if err != nil || statusCode >= http.StatusBadRequest {
		r.errorCount.Add(ctx, 1, opt)
	}
}

// statusClass returns the HTTP status class (2xx, 3xx, 4xx, 5xx).
func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 1:
		return "1xx"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

// Middleware returns transport middleware that records every request.
func Middleware(rec *Recorder) transport.Middleware {
	return func(next transport.DoerFunc) transport.DoerFunc {
		return func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			m := rec.Start(ctx, req.Method, transport.RouteFromContext(ctx))

			resp, err := next(req)
			status := 0
			if resp != nil {
				status = resp.StatusCode
			}
			rec.Finish(ctx, m, status, err)
			return resp, err
		}
	}
}
