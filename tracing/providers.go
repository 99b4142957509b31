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
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.customProvider {
		if t.tracerProvider == nil {
			return fmt.Errorf("custom tracer provider is nil")
		}
		return nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch t.provider {
	case NoopProvider:
		// Spans get real ids for propagation but are never exported.
	case StdoutProvider:
		exporter, err = t.newStdoutExporter()
	case OTLPProvider:
		exporter, err = t.newOTLPExporter(ctx)
	case OTLPHTTPProvider:
		exporter, err = t.newOTLPHTTPExporter(ctx)
	default:
		return fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
	if err != nil {
		return err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	t.sdkProvider = tp
	t.tracerProvider = tp
	return nil
}

func (t *Tracer) newStdoutExporter() (sdktrace.SpanExporter, error) {
	w := t.stdout
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return exporter, nil
}

func (t *Tracer) newOTLPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracegrpc.Option
	if t.otlpEndpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
	}
	if t.otlpInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}
	return exporter, nil
}

func (t *Tracer) newOTLPHTTPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracehttp.Option
	if t.otlpEndpoint != "" {
		endpoint, insecure := splitEndpoint(t.otlpEndpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure || t.otlpInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}
	return exporter, nil
}

// splitEndpoint reduces a collector URL to host:port and reports whether
// it used plain http.
func splitEndpoint(endpoint string) (string, bool) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = rest, true
	} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
	}
	if i := strings.Index(endpoint, "/"); i != -1 {
		endpoint = endpoint[:i]
	}
	return endpoint, insecure
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)
}
