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

// Package errors defines the error taxonomy of the RPC client.
//
// Three kinds of failure are distinguished:
//
//   - Lookup failures raised synchronously while resolving a route:
//     [RouteNotFoundError] and [MissingRouteParamError].
//   - Server failures: any non-2xx response becomes an [HTTPError] carrying
//     the status code and the decoded response payload.
//   - Chain misuse: [ErrNotCallable], [ErrMethodNotAllowed], [ErrParamMismatch]
//     and [ErrInvalidParam].
//
// Transport failures (DNS, connection reset, context cancellation) are never
// wrapped into this taxonomy. They reach the caller exactly as the transport
// returned them.
//
// Every typed error implements the optional interfaces [ErrorType],
// [ErrorDetails] and [ErrorCode], so the same error values can be fed to a
// server-side formatter or inspected generically:
//
//	var typed errors.ErrorType
//	if stderrors.As(err, &typed) {
//		log.Printf("status %d", typed.HTTPStatus())
//	}
//
// # Narrowing HTTP errors
//
// The payload of an [HTTPError] is whatever the server sent. Callers narrow it
// by status and decode it into their own types:
//
//	var httpErr *errors.HTTPError
//	if stderrors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
//		var body struct{ Message string `json:"message"` }
//		_ = httpErr.Decode(&body)
//	}
//
// Servers that answer with RFC 9457 problem details or JSON:API error
// documents can be read with [HTTPError.Problem] and [HTTPError.JSONAPIErrors].
package errors
