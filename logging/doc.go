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

// Package logging builds the structured loggers used by the RPC client and
// its transport middleware.
//
// Loggers are thin wrappers around [log/slog]. Three handlers are available:
// JSON (default), key=value text, and a console handler styled with
// lipgloss for local development.
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("billing-web"),
//	    logging.WithDebugLevel(),
//	)
//	rpc, err := client.New(baseURL, routes, client.WithLogger(logger.Logger()))
//
// # Redaction
//
// Attributes named password, token, secret, api_key, authorization, cookie
// or set-cookie are replaced with "***REDACTED***" at any nesting depth,
// so request headers can be logged as a group. More keys can be added with
// [WithRedactKeys].
//
// # Trace correlation
//
// [NewContextLogger] adds trace_id and span_id from the active
// OpenTelemetry span in a context.
package logging
