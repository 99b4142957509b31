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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/client/telemetry/semconv"
)

// Provider selects the metrics exporter.
type Provider string

const (
	// PrometheusProvider exposes metrics through [Recorder.Handler] (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider periodically writes metrics as JSON.
	StdoutProvider Provider = "stdout"
	// OTLPProvider pushes metrics over OTLP HTTP.
	OTLPProvider Provider = "otlp"
)

const (
	DefaultServiceName    = "rivaas-client"
	DefaultServiceVersion = "1.0.0"
	meterName             = "rivaas.dev/client"
	unmatchedRoute        = "unmatched"
)

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ErrHandlerUnavailable is returned by [Recorder.Handler] for providers
// other than Prometheus.
var ErrHandlerUnavailable = errors.New("metrics handler is only available with the prometheus provider")

// Recorder owns the meter provider and the client instruments.
type Recorder struct {
	provider        Provider
	serviceName     string
	serviceVersion  string
	durationBuckets []float64
	exportInterval  time.Duration
	otlpEndpoint    string
	stdout          io.Writer
	registerGlobal  bool
	logger          *slog.Logger

	meterProvider  metric.MeterProvider
	sdkProvider    *sdkmetric.MeterProvider
	customProvider bool
	registry       *promclient.Registry
	handler        http.Handler

	serviceAttrs    []attribute.KeyValue
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	errorCount      metric.Int64Counter
}

// Option configures a [Recorder].
type Option func(*Recorder)

// New builds a Recorder and its instruments.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		serviceName:     DefaultServiceName,
		serviceVersion:  DefaultServiceVersion,
		durationBuckets: defaultDurationBuckets,
		exportInterval:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.exportInterval <= 0 {
		return nil, fmt.Errorf("export interval must be positive, got %s", r.exportInterval)
	}
	if err := r.initializeProvider(); err != nil {
		return nil, err
	}
	if r.registerGlobal && !r.customProvider {
		otel.SetMeterProvider(r.meterProvider)
	}

	r.serviceAttrs = []attribute.KeyValue{
		attribute.String(semconv.ServiceName, r.serviceName),
		attribute.String(semconv.ServiceVersion, r.serviceVersion),
	}
	if err := r.initializeInstruments(r.meterProvider.Meter(meterName)); err != nil {
		return nil, err
	}
	if r.logger != nil {
		r.logger.Debug("metrics initialized", "provider", string(r.provider), "service", r.serviceName)
	}
	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics initialization failed: " + err.Error())
	}
	return r
}

// Provider returns the configured exporter kind.
func (r *Recorder) Provider() Provider { return r.provider }

// Handler serves the private Prometheus registry.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, ErrHandlerUnavailable
	}
	return r.handler, nil
}

// Registry returns the Prometheus registry, or nil for other providers.
func (r *Recorder) Registry() *promclient.Registry { return r.registry }

// Shutdown flushes and stops a provider created by [New].
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.sdkProvider == nil || r.customProvider {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}

func (r *Recorder) initializeInstruments(meter metric.Meter) error {
	var err error

	r.requestDuration, err = meter.Float64Histogram(
		"http_client_request_duration_seconds",
		metric.WithDescription("Duration of outgoing HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	r.requestCount, err = meter.Int64Counter(
		"http_client_requests_total",
		metric.WithDescription("Total number of outgoing HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request count counter: %w", err)
	}

	r.activeRequests, err = meter.Int64UpDownCounter(
		"http_client_requests_active",
		metric.WithDescription("Number of in-flight outgoing HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create active requests gauge: %w", err)
	}

	r.errorCount, err = meter.Int64Counter(
		"http_client_errors_total",
		metric.WithDescription("Total number of failed outgoing HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error count counter: %w", err)
	}
	return nil
}
