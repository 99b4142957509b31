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
// Package semconv defines the attribute keys shared by the client's logs,
// metrics and traces.
//
// Span and metric attributes follow the OpenTelemetry HTTP client
// conventions. Log fields use shorter keys so console output stays
// readable; trace correlation fields are the same in both.
//
//	logger.Debug("rpc call completed",
//	    semconv.LogMethod, "GET",
//	    semconv.LogRoute, "posts.show",
//	    semconv.LogStatus, 200,
//	)
//
// Reference: https://opentelemetry.io/docs/specs/semconv/http/http-spans/
package semconv
