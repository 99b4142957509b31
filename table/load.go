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

package table

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/client/config"
	"rivaas.dev/client/config/codec"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return config.CompileSchema("route-table.json", schemaJSON)
})

// Load reads a route table file. The format comes from the extension:
// .json, .yaml, .yml or .toml.
func Load(path string, opts ...Option) (*Table, error) {
	format, err := codec.Detect(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	return Parse(data, format, opts...)
}

// Parse decodes a route table document. The document is either an array of
// records or an object whose "routes" member is that array; TOML files
// always use the second form.
func Parse(data []byte, format codec.Type, opts ...Option) (*Table, error) {
	dec, err := codec.GetDecoder(format)
	if err != nil {
		return nil, err
	}
	var doc any
	if err = dec.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode route table: %w", err)
	}
	return Decode(doc, opts...)
}

// Decode builds a table from an already decoded document, such as the
// "routes" member of a configuration file.
func Decode(doc any, opts ...Option) (*Table, error) {
	if m, ok := doc.(map[string]any); ok {
		doc = m["routes"]
	}
	if doc == nil {
		return New(nil, opts...)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile route table schema: %w", err)
	}
	if err = schema.Validate(config.ToSchemaValue(doc)); err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}

	var records []Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &records,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode route records: %w", err)
	}
	return New(records, opts...)
}
