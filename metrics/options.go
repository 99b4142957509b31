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
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// WithServiceName labels every measurement with service.name.
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithServiceVersion labels every measurement with service.version.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) { r.serviceVersion = version }
}

// WithPrometheus selects the Prometheus exporter (default).
func WithPrometheus() Option {
	return func(r *Recorder) { r.provider = PrometheusProvider }
}

// WithStdout writes metrics to w, or stdout when w is nil, every export
// interval.
func WithStdout(w io.Writer) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.stdout = w
	}
}

// WithOTLP pushes metrics to an OTLP HTTP collector. An http:// endpoint
// disables TLS.
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithExportInterval sets the push interval for stdout and OTLP.
func WithExportInterval(d time.Duration) Option {
	return func(r *Recorder) { r.exportInterval = d }
}

// WithDurationBuckets overrides the request duration histogram buckets, in
// seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) { r.durationBuckets = buckets }
}

// WithMeterProvider uses an existing provider. [Recorder.Shutdown] leaves it
// running.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customProvider = true
	}
}

// WithGlobalMeterProvider registers the provider with the otel globals.
func WithGlobalMeterProvider() Option {
	return func(r *Recorder) { r.registerGlobal = true }
}

// WithLogger reports setup events to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}
