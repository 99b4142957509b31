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
package semconv

// Resource attributes, set once per recorder or tracer.
const (
	ServiceName    = "service.name"
	ServiceVersion = "service.version"
)

// Span and metric attributes for one outgoing request.
const (
	// HTTPRequestMethod is the request method, e.g. "GET".
	HTTPRequestMethod = "http.request.method"

	// HTTPResponseStatusCode is the numeric response status.
	HTTPResponseStatusCode = "http.response.status_code"

	// HTTPStatusClass buckets the status as "2xx", "4xx"... or "unknown"
	// when no response was received.
	HTTPStatusClass = "http.status_class"

	// URLFull is the absolute request URL with credentials redacted.
	URLFull = "url.full"

	ServerAddress = "server.address"
	ServerPort    = "server.port"

	// RPCRoute is the route table name the request was sent to. It is the
	// template, never the expanded path, so cardinality stays bounded.
	RPCRoute = "rpc.route"

	// ErrorType classifies failed requests. The client only sets
	// [ErrorTransport].
	ErrorType = "error.type"
)

// ErrorTransport is the [ErrorType] value for requests that got no response.
const ErrorTransport = "transport"

// Trace correlation fields added to log records.
const (
	TraceID = "trace_id"
	SpanID  = "span_id"
)

// Log fields.
const (
	LogMethod    = "method"
	LogURL       = "url"
	LogPath      = "path"
	LogRoute     = "route"
	LogStatus    = "status"
	LogDuration  = "duration"
	LogRequestID = "request_id"
	LogError     = "error"
)
