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
package tracing

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) { t.serviceName = name }
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithSampleRate samples root spans at rate (0 to 1). Child spans follow
// their parent's decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = rate }
}

// WithNoop creates spans without exporting them (default).
func WithNoop() Option {
	return func(t *Tracer) { t.provider = NoopProvider }
}

// WithStdout exports spans as indented JSON to w, or to stdout when w is nil.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.stdout = w
	}
}

// OTLPOption configures OTLP export.
type OTLPOption func(*Tracer)

// OTLPInsecure disables TLS towards the collector.
func OTLPInsecure() OTLPOption {
	return func(t *Tracer) { t.otlpInsecure = true }
}

// WithOTLP exports over OTLP gRPC to endpoint (host:port).
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithOTLPHTTP exports over OTLP HTTP. An http:// endpoint implies
// [OTLPInsecure].
func WithOTLPHTTP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithTracerProvider uses an existing provider. [Tracer.Shutdown] does not
// shut it down.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = tp
		t.customProvider = true
	}
}

// WithPropagator replaces the default W3C trace context and baggage
// propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) { t.propagator = p }
}

// WithGlobalTracerProvider registers the provider and propagator with the
// otel globals.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) { t.registerGlobal = true }
}

// WithLogger reports setup events to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) { t.logger = logger }
}
