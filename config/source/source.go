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

// Package source provides configuration sources: files and in-memory
// content, process environment variables, and Consul KV entries.
//
// Every source returns a map[string]any from Load. The config package merges
// the maps in registration order, later sources overriding earlier ones.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/client/config/codec"
)

// File loads a document from disk, or from bytes given up front.
type File struct {
	path    string
	data    []byte
	decoder codec.Decoder
}

// NewFile returns a source reading path on every Load.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewContent returns a source decoding data.
func NewContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load reads and decodes the document.
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var conf map[string]any
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}
	return conf, nil
}

// Env loads variables whose names start with a prefix. The prefix is
// removed before decoding, so with prefix "RIVAAS_" the variable
// RIVAAS_LOG_LEVEL becomes log.level.
type Env struct {
	prefix  string
	environ func() []string
}

// NewEnv returns an environment source for prefix.
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix, environ: os.Environ}
}

// Load collects and decodes the matching variables.
func (e *Env) Load(context.Context) (map[string]any, error) {
	var lines []string
	for _, kv := range e.environ() {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var conf map[string]any
	if err := (codec.EnvVar{}).Decode([]byte(strings.Join(lines, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}
