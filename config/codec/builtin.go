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

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Built-in codec types.
const (
	TypeJSON   Type = "json"
	TypeYAML   Type = "yaml"
	TypeTOML   Type = "toml"
	TypeEnvVar Type = "env_var"
)

func init() {
	Register(TypeJSON, JSON{})
	Register(TypeYAML, YAML{})
	Register(TypeTOML, TOML{})
	Register(TypeEnvVar, EnvVar{})
}

// JSON is the encoding/json codec.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAML is the goccy/go-yaml codec.
type YAML struct{}

func (YAML) Encode(v any) ([]byte, error) { return yaml.Marshal(v) }

func (YAML) Decode(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// TOML is the BurntSushi/toml codec.
type TOML struct{}

func (TOML) Encode(v any) ([]byte, error) { return toml.Marshal(v) }

func (TOML) Decode(data []byte, v any) error { return toml.Unmarshal(data, v) }

// EnvVar decodes newline separated KEY=value lines into a nested map.
// Keys are lower-cased and split on underscores, so SERVER_PORT=80 becomes
// {"server": {"port": "80"}}. Values stay strings.
type EnvVar struct{}

// ErrEncodeUnsupported is returned by EnvVar.Encode.
var ErrEncodeUnsupported = errors.New("encoding to environment variables is not supported")

func (EnvVar) Encode(any) ([]byte, error) { return nil, ErrEncodeUnsupported }

func (EnvVar) Decode(data []byte, v any) error {
	out, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env codec: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for _, line := range bytes.Split(data, []byte("\n")) {
		key, value, found := strings.Cut(string(line), "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}

		var parts []string
		for _, p := range strings.Split(strings.ToLower(key), "_") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, p := range parts[:len(parts)-1] {
			next, ok := current[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[p] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*out = conf
	return nil
}
