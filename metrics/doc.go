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
// Package metrics records client-side HTTP metrics for RPC calls.
//
// A [Recorder] owns an OpenTelemetry meter provider backed by Prometheus
// (default, on a private registry), stdout or OTLP HTTP. [Middleware]
// records, per request:
//
//   - http_client_requests_total
//   - http_client_request_duration_seconds
//   - http_client_requests_active
//   - http_client_errors_total (transport failures and status >= 400)
//
// labelled by method, route name, status code and status class. Requests
// that did not resolve to a table route are labelled route="unmatched" to
// keep cardinality bounded.
package metrics
