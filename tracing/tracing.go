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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/client/telemetry/semconv"
)

// Provider selects the span exporter.
type Provider string

const (
	// NoopProvider records nothing (default).
	NoopProvider Provider = "noop"
	// StdoutProvider writes spans as JSON to a writer.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

const (
	DefaultServiceName    = "rivaas-client"
	DefaultServiceVersion = "1.0.0"
	instrumentationName   = "rivaas.dev/client"
)

// ErrInvalidSampleRate is returned for sample rates outside [0, 1].
var ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")

// Tracer starts client spans and propagates their context.
type Tracer struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	sampleRate     float64
	otlpEndpoint   string
	otlpInsecure   bool
	stdout         io.Writer
	registerGlobal bool
	logger         *slog.Logger

	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	customProvider bool
	propagator     propagation.TextMapPropagator
	tracer         trace.Tracer
}

// Option configures a [Tracer].
type Option func(*Tracer)

// New builds a Tracer. ctx bounds exporter setup only.
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:       NoopProvider,
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
		sampleRate:     1.0,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}
	if err := t.initializeProvider(ctx); err != nil {
		return nil, err
	}

	t.tracer = t.tracerProvider.Tracer(instrumentationName)
	if t.registerGlobal {
		otel.SetTracerProvider(t.tracerProvider)
		otel.SetTextMapPropagator(t.propagator)
	}
	if t.logger != nil {
		t.logger.Debug("tracing initialized", "provider", string(t.provider), "service", t.serviceName)
	}
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(ctx context.Context, opts ...Option) *Tracer {
	t, err := New(ctx, opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return t
}

// Tracer returns the underlying OpenTelemetry tracer.
func (t *Tracer) Tracer() trace.Tracer { return t.tracer }

// Propagator returns the propagator used for header injection.
func (t *Tracer) Propagator() propagation.TextMapPropagator { return t.propagator }

// Shutdown flushes and stops an SDK provider created by [New]. Custom
// providers are left to their owner.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.sdkProvider == nil || t.customProvider {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

// InjectTraceContext writes the span context of ctx into h.
func (t *Tracer) InjectTraceContext(ctx context.Context, h http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(h))
}

// StartClientSpan starts a client span for req. route is the table route
// name and may be empty.
func (t *Tracer) StartClientSpan(ctx context.Context, req *http.Request, route string) (context.Context, trace.Span) {
	name := "HTTP " + req.Method
	if route != "" {
		name = req.Method + " " + route
	}

	attrs := []attribute.KeyValue{
		attribute.String(semconv.HTTPRequestMethod, req.Method),
		attribute.String(semconv.URLFull, req.URL.Redacted()),
		attribute.String(semconv.ServerAddress, req.URL.Hostname()),
	}
	if port := req.URL.Port(); port != "" {
		attrs = append(attrs, attribute.String(semconv.ServerPort, port))
	}
	if route != "" {
		attrs = append(attrs, attribute.String(semconv.RPCRoute, route))
	}

	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// FinishClientSpan records the outcome and ends span. err is a transport
// error; statusCode is ignored when err is set.
func (t *Tracer) FinishClientSpan(span trace.Span, statusCode int, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(attribute.Int(semconv.HTTPResponseStatusCode, statusCode))
	if statusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
	}
}
