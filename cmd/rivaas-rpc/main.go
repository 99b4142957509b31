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
// Command rivaas-rpc inspects a route table and calls the routes it names.
//
// Settings come from --config (JSON, YAML or TOML), an optional Consul key
// and RPC_ prefixed environment variables, in that order. Flags override
// all of them.
//
//	rivaas-rpc --config client.yaml routes
//	rivaas-rpc --config client.yaml url users.posts.show -p user_id=1 -p id=42
//	rivaas-rpc --config client.yaml call posts.store --data '{"title":"hi"}'
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
