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
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/client"
	"rivaas.dev/client/config"
	"rivaas.dev/client/config/codec"
	"rivaas.dev/client/metrics"
	"rivaas.dev/client/tracing"
)

const envPrefix = "RPC_"

var errInvalidFlag = errors.New("invalid flag value")

type rootOptions struct {
	configFile string
	consulKey  string
	baseURL    string
	routesFile string
	logLevel   string
	strict     bool
	trace      string
	metrics    bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rivaas-rpc",
		Short: "Build URLs for and call named HTTP routes",
		Long: `rivaas-rpc loads a route table and a base URL, then resolves route
names to URLs, matches paths back to route names and sends requests.

Environment variables with the RPC_ prefix are read as settings, for
example RPC_TIMEOUT=5s or RPC_LOG_LEVEL=debug.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&o.configFile, "config", "c", "", "settings file (json, yaml or toml)")
	f.StringVar(&o.consulKey, "consul-key", "", "Consul KV key holding settings, read when CONSUL_HTTP_ADDR is set")
	f.StringVar(&o.baseURL, "base-url", "", "base URL, overrides settings")
	f.StringVar(&o.routesFile, "routes", "", "route table file, overrides settings")
	f.StringVar(&o.logLevel, "log-level", "", "log level, overrides settings")
	f.BoolVar(&o.strict, "strict", false, "only call paths that match a declared route and method")
	f.StringVar(&o.trace, "trace", "", "export request spans: stdout, otlp or otlp-http://host:port")
	f.BoolVar(&o.metrics, "metrics", false, "print request metrics to stderr on exit")

	cmd.AddCommand(
		routesCmd(o),
		urlCmd(o),
		matchCmd(o),
		callCmd(o),
	)
	return cmd
}

// overrides returns the flags that were set as a settings document.
func (o *rootOptions) overrides() map[string]any {
	doc := make(map[string]any)
	if o.baseURL != "" {
		doc["base_url"] = o.baseURL
	}
	if o.routesFile != "" {
		doc["routes_file"] = o.routesFile
	}
	if o.logLevel != "" {
		doc["log"] = map[string]any{"level": o.logLevel}
	}
	if o.strict {
		doc["strict_routes"] = true
	}
	return doc
}

func (o *rootOptions) settings(ctx context.Context) (*client.Settings, error) {
	var opts []config.Option
	if o.configFile != "" {
		opts = append(opts, config.WithFile(o.configFile))
	}
	if o.consulKey != "" {
		opts = append(opts, config.WithConsul(o.consulKey))
	}
	opts = append(opts, config.WithEnv(envPrefix))

	if doc := o.overrides(); len(doc) > 0 {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithContent(data, codec.TypeJSON))
	}
	return client.LoadSettings(ctx, opts...)
}

// session is a configured client plus the exporters that need flushing.
type session struct {
	client   *client.Client
	settings *client.Settings
	tracer   *tracing.Tracer
	recorder *metrics.Recorder
}

func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	s, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	sess := &session{settings: s}
	var extra []client.Option

	if o.trace != "" {
		topts, err := traceOptions(o.trace, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		topts = append(topts, tracing.WithServiceName(s.Service), tracing.WithServiceVersion(version))
		if sess.tracer, err = tracing.New(ctx, topts...); err != nil {
			return nil, err
		}
		extra = append(extra, client.WithMiddleware(tracing.Middleware(sess.tracer)))
	}
	if o.metrics {
		if sess.recorder, err = metrics.New(
			metrics.WithServiceName(s.Service),
			metrics.WithServiceVersion(version),
			metrics.WithStdout(cmd.ErrOrStderr()),
		); err != nil {
			_ = sess.close()
			return nil, err
		}
		extra = append(extra, client.WithMiddleware(metrics.Middleware(sess.recorder)))
	}

	if sess.client, err = client.NewFromSettings(s, extra...); err != nil {
		_ = sess.close()
		return nil, err
	}
	return sess, nil
}

// close flushes exporters. It uses its own deadline so a cancelled command
// still reports what it did.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if s.tracer != nil {
		errs = append(errs, s.tracer.Shutdown(ctx))
	}
	if s.recorder != nil {
		errs = append(errs, s.recorder.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func traceOptions(target string, stderr io.Writer) ([]tracing.Option, error) {
	switch {
	case target == "stdout":
		return []tracing.Option{tracing.WithStdout(stderr)}, nil
	case target == "otlp":
		return []tracing.Option{tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure())}, nil
	case strings.HasPrefix(target, "otlp-"):
		return []tracing.Option{tracing.WithOTLPHTTP(strings.TrimPrefix(target, "otlp-"))}, nil
	default:
		return nil, fmt.Errorf("%w: --trace %q", errInvalidFlag, target)
	}
}

// keyValues parses repeated k=v flags. A key given more than once becomes
// a list, which is how wildcard params and array query values are passed.
func keyValues(flag string, pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: --%s %q, want key=value", errInvalidFlag, flag, p)
		}
		switch prev := out[k].(type) {
		case nil:
			out[k] = v
		case string:
			out[k] = []string{prev, v}
		case []string:
			out[k] = append(prev, v)
		}
	}
	return out, nil
}
