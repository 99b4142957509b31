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
// Package tracing adds OpenTelemetry client spans to RPC calls.
//
// A [Tracer] owns a tracer provider and a propagator. [Middleware] turns it
// into transport middleware that starts one client span per request,
// injects W3C trace context into the outgoing headers and records the
// response status:
//
//	tracer := tracing.MustNew(ctx,
//	    tracing.WithServiceName("billing-web"),
//	    tracing.WithOTLP("otel-collector:4317", tracing.OTLPInsecure()),
//	)
//	defer tracer.Shutdown(context.Background())
//
//	doer := transport.New(http.DefaultClient, tracing.Middleware(tracer))
//
// Spans are named "METHOD route" when the client resolved the call to a
// table route, and "HTTP METHOD" otherwise. Status codes of 500 and above
// mark the span as an error. 4xx responses do not, following the client
// span conventions.
package tracing
