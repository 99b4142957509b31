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
	"fmt"
	"os"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func (r *Recorder) initializeProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		return nil
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheusProvider()
	case StdoutProvider:
		return r.initStdoutProvider()
	case OTLPProvider:
		return r.initOTLPProvider()
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
}

// initPrometheusProvider uses a private registry so several clients in one
// process do not collide on the global one.
func (r *Recorder) initPrometheusProvider() error {
	r.registry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.setSDKProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)))
	r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return nil
}

func (r *Recorder) initStdoutProvider() error {
	w := r.stdout
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.setSDKProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	return nil
}

func (r *Recorder) initOTLPProvider() error {
	var opts []otlpmetrichttp.Option
	if r.otlpEndpoint != "" {
		endpoint := r.otlpEndpoint
		insecure := false
		if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
			endpoint, insecure = rest, true
		} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
			endpoint = rest
		}
		if i := strings.Index(endpoint, "/"); i != -1 {
			endpoint = endpoint[:i]
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))
	r.setSDKProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	return nil
}

func (r *Recorder) setSDKProvider(mp *sdkmetric.MeterProvider) {
	r.sdkProvider = mp
	r.meterProvider = mp
}
