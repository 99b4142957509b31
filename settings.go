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
package client

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/client/config"
	"rivaas.dev/client/logging"
	"rivaas.dev/client/matcher"
	"rivaas.dev/client/table"
	"rivaas.dev/client/transport"
)

// Settings is the file and environment form of a client configuration.
//
//	base_url: https://api.example.com
//	routes_file: routes.json
//	matchers:
//	  id: int
//	  code: "[A-Z]{3}"
//	timeout: 10s
//	headers:
//	  Accept-Language: en
//	request_id:
//	  generator: ulid
//	log:
//	  level: debug
//	  format: console
type Settings struct {
	BaseURL string `config:"base_url" validate:"required,http_url"`
	// RoutesFile is a JSON, YAML or TOML route table.
	RoutesFile string `config:"routes_file" validate:"excluded_with=Routes"`
	// Routes is an inline route table, for settings served from Consul.
	Routes []any `config:"routes"`
	// Matchers constrains route parameters by name, with a built-in matcher
	// name ("int", "uuid", "slug", ...) or an anchored regular expression.
	Matchers           map[string]string `config:"matchers"`
	Service            string            `config:"service" default:"rivaas-client"`
	Timeout            time.Duration     `config:"timeout" default:"30s" validate:"gte=0"`
	Headers            map[string]string `config:"headers"`
	StrictRoutes       bool              `config:"strict_routes"`
	DisableCompression bool              `config:"disable_compression"`
	RequestID          RequestIDSettings `config:"request_id"`
	Log                LogSettings       `config:"log"`
}

// RequestIDSettings configures the request id middleware.
type RequestIDSettings struct {
	Disabled  bool   `config:"disabled"`
	Header    string `config:"header" default:"X-Request-ID"`
	Generator string `config:"generator" default:"uuid" validate:"omitempty,oneof=uuid ulid"`
}

// LogSettings configures the client logger.
type LogSettings struct {
	Level  string `config:"level" default:"info" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `config:"format" default:"json" validate:"omitempty,oneof=json text console"`
}

var settingsValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Validate checks the settings. It is called by [LoadSettings] and
// [NewFromSettings].
func (s *Settings) Validate() error {
	if err := settingsValidator().Struct(s); err != nil {
		return fmt.Errorf("invalid client settings: %w", err)
	}
	return nil
}

// LoadSettings loads [Settings] from the given configuration sources.
//
// Example:
//
//	settings, err := client.LoadSettings(ctx,
//		config.WithFile("client.yaml"),
//		config.WithEnv("RPC_"),
//	)
func LoadSettings(ctx context.Context, opts ...config.Option) (*Settings, error) {
	var s Settings
	cfg, err := config.New(append(opts, config.WithBinding(&s))...)
	if err != nil {
		return nil, err
	}
	if err = cfg.Load(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

// NewFromSettings builds a Client from s. The transport is an
// [*http.Client] with the configured timeout, wrapped in request id,
// decompression and logging middleware. opts are applied last.
func NewFromSettings(s *Settings, opts ...Option) (*Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	routes, err := s.routeTable()
	if err != nil {
		return nil, err
	}
	logger, err := s.logger()
	if err != nil {
		return nil, err
	}

	var mws []transport.Middleware
	if !s.RequestID.Disabled {
		mws = append(mws, transport.RequestID(s.requestIDOptions()...))
	}
	if !s.DisableCompression {
		mws = append(mws, transport.Decompress())
	}
	mws = append(mws, transport.Logging(logger.Logger()))

	headers := make(http.Header, len(s.Headers))
	for k, v := range s.Headers {
		headers.Set(k, v)
	}

	base := []Option{
		WithDoer(&http.Client{Timeout: s.Timeout}),
		WithLogger(logger.Logger()),
		WithMiddleware(mws...),
		WithHeaders(headers),
	}
	if s.StrictRoutes {
		base = append(base, WithStrictRoutes())
	}
	return New(s.BaseURL, routes, append(base, opts...)...)
}

func (s *Settings) routeTable() (*table.Table, error) {
	ms, err := s.paramMatchers()
	if err != nil {
		return nil, err
	}
	opts := []table.Option{table.WithMatchers(ms)}
	switch {
	case s.RoutesFile != "":
		return table.Load(s.RoutesFile, opts...)
	case len(s.Routes) > 0:
		return table.Decode(s.Routes, opts...)
	default:
		return nil, nil
	}
}

func (s *Settings) paramMatchers() (matcher.Matchers, error) {
	if len(s.Matchers) == 0 {
		return nil, nil
	}
	ms := make(matcher.Matchers, len(s.Matchers))
	for param, expr := range s.Matchers {
		if m, ok := matcher.Named(expr); ok {
			ms[param] = m
			continue
		}
		m, err := matcher.Regex(expr)
		if err != nil {
			return nil, fmt.Errorf("matcher for parameter %q: %w", param, err)
		}
		ms[param] = m
	}
	return ms, nil
}

func (s *Settings) logger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}
	format := logging.HandlerType(s.Log.Format)
	if format == "" {
		format = logging.JSONHandler
	}
	return logging.New(
		logging.WithHandlerType(format),
		logging.WithLevel(level),
		logging.WithOutput(os.Stderr),
		logging.WithServiceName(s.Service),
	)
}

func (s *Settings) requestIDOptions() []transport.RequestIDOption {
	var opts []transport.RequestIDOption
	if s.RequestID.Header != "" {
		opts = append(opts, transport.WithRequestIDHeader(s.RequestID.Header))
	}
	if s.RequestID.Generator == "ulid" {
		opts = append(opts, transport.WithULID())
	}
	return opts
}
