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

// Package codec converts configuration and route table documents between
// bytes and Go values. JSON, YAML, TOML and environment variable codecs are
// registered at init time; others can be added with [Register].
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Type names a registered codec.
type Type string

// Encoder converts a value into bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts bytes into the value pointed to by v.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec both encodes and decodes.
type Codec interface {
	Encoder
	Decoder
}

var (
	mu     sync.RWMutex
	codecs = make(map[Type]Codec)
)

// Register makes c available under name, replacing any previous codec.
func Register(name Type, c Codec) {
	mu.Lock()
	defer mu.Unlock()
	codecs[name] = c
}

// Get returns the codec registered under name.
func Get(name Type) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec not found for type: %s", name)
	}
	return c, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	return Get(name)
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	return Get(name)
}

var extensions = map[string]Type{
	".yaml": TypeYAML,
	".yml":  TypeYAML,
	".json": TypeJSON,
	".toml": TypeTOML,
}

// Detect returns the codec type for the extension of path.
func Detect(path string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensions[ext]; ok {
		return t, nil
	}
	return "", fmt.Errorf("cannot detect format from extension %q", ext)
}
