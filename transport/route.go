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

import "context"

type routeKey struct{}

// ContextWithRoute records the name of the table route a request targets.
// The RPC client sets it for every matched call so middleware can label
// spans, metrics and logs by route instead of by raw path.
func ContextWithRoute(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, routeKey{}, name)
}

// RouteFromContext returns the route name stored by [ContextWithRoute].
func RouteFromContext(ctx context.Context) string {
	name, _ := ctx.Value(routeKey{}).(string)
	return name
}
