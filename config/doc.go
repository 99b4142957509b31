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

// Package config loads layered configuration for the RPC client.
//
// Sources are applied in the order they are given; later sources override
// earlier ones key by key, nested maps included. Keys are case-insensitive.
//
//	var settings client.Settings
//	cfg := config.MustNew(
//		config.WithFile("client.yaml"),
//		config.WithConsul("${APP_ENV}/rpc-client.yaml"),
//		config.WithEnv("RPC_"),
//		config.WithBinding(&settings),
//	)
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//
// Binding uses the "config" struct tag. Fields tagged `default:"..."` are
// filled when still zero after binding, and a bound struct implementing
// [Validator] is checked before it is published.
package config
