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
	"log/slog"
	"net/http"
	"time"

	"rivaas.dev/client/logging"
	"rivaas.dev/client/telemetry/semconv"
)

// Logging returns middleware that logs each exchange. Requests and 2xx/3xx
// responses are logged at debug, 4xx at info, 5xx and transport errors at
// warn. Trace ids from the request context are included.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next DoerFunc) DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			log := logging.NewContextLogger(r.Context(), logger)
			attrs := []any{
				semconv.LogMethod, r.Method,
				semconv.LogURL, r.URL.Redacted(),
			}
			if route := RouteFromContext(r.Context()); route != "" {
				attrs = append(attrs, semconv.LogRoute, route)
			}
			if id := r.Header.Get(DefaultRequestIDHeader); id != "" {
				attrs = append(attrs, semconv.LogRequestID, id)
			}

			log.Debug("http request", attrs...)
			start := time.Now()
			resp, err := next(r)
			attrs = append(attrs, semconv.LogDuration, time.Since(start))

			if err != nil {
				log.Warn("http request failed", append(attrs, semconv.LogError, err)...)
				return resp, err
			}

			attrs = append(attrs, semconv.LogStatus, resp.StatusCode)
			switch {
			case resp.StatusCode >= http.StatusInternalServerError:
				log.Warn("http response", attrs...)
			case resp.StatusCode >= http.StatusBadRequest:
				log.Info("http response", attrs...)
			default:
				log.Debug("http response", attrs...)
			}
			return resp, nil
		}
	}
}
