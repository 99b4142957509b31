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

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"

	"rivaas.dev/client/config/codec"
	"rivaas.dev/client/config/source"
)

// Source loads one layer of configuration.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// Validator is implemented by bound structs that check themselves after
// defaults are applied.
type Validator interface {
	Validate() error
}

// Option configures a [Config].
type Option func(c *Config) error

// Config merges configuration sources and binds the result to a struct.
// It is safe for concurrent use.
type Config struct {
	mu         sync.RWMutex
	values     map[string]any
	sources    []Source
	binding    any
	tagName    string
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
}

// New applies options and returns the Config. Option errors are joined and
// returned together with the partially configured Config.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		values:  map[string]any{},
		tagName: "config",
	}

	var errs error
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return c, errs
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return c
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithFile adds a file source. The format comes from the extension and
// environment variables in path are expanded.
func WithFile(path string) Option {
	return func(c *Config) error {
		path = os.ExpandEnv(path)
		format, err := codec.Detect(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}
		return WithFileAs(path, format)(c)
	}
}

// WithFileAs adds a file source with an explicit format.
func WithFileAs(path string, format codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("file-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewFile(os.ExpandEnv(path), decoder))
		return nil
	}
}

// WithContent adds an in-memory document.
func WithContent(data []byte, format codec.Type) Option {
	return func(c *Config) error {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}
		c.sources = append(c.sources, source.NewContent(data, decoder))
		return nil
	}
}

// WithEnv adds the process environment filtered by prefix.
// With prefix "RPC_", RPC_LOG_LEVEL is read as log.level.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, source.NewEnv(prefix))
		return nil
	}
}

// WithConsul adds a Consul KV key as a source. The format comes from the
// key's extension.
//
// The option is skipped when CONSUL_HTTP_ADDR is unset, so local runs work
// without a Consul agent.
func WithConsul(key string) Option {
	return func(c *Config) error {
		if os.Getenv("CONSUL_HTTP_ADDR") == "" {
			return nil
		}
		key = os.ExpandEnv(key)
		format, err := codec.Detect(key)
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			return NewError("consul-source", "get-decoder", err)
		}
		src, err := source.NewConsul(key, decoder, nil)
		if err != nil {
			return NewError("consul-source", "create-client", err)
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithBinding binds the merged configuration to v, a pointer to a struct,
// on every Load.
func WithBinding(v any) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("binding target cannot be nil")
		}
		if reflect.TypeOf(v).Kind() != reflect.Pointer {
			return errors.New("binding target must be a pointer")
		}
		c.binding = v
		return nil
	}
}

// WithTag sets the struct tag used for binding. The default is "config".
func WithTag(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = name
		return nil
	}
}

// WithJSONSchema validates the merged values against schema on Load.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		s, err := CompileSchema("config-schema.json", schema)
		if err != nil {
			return NewError("json-schema", "compile", err)
		}
		c.schema = s
		return nil
	}
}

// WithValidator adds a validation function run on the merged values.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// CompileSchema compiles a JSON schema document registered under name.
func CompileSchema(name string, schema []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// Load reads every source in order, merges them (later sources win),
// validates the result and binds it. The previous values are kept when any
// step fails.
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		conf, err := src.Load(ctx)
		if err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if err = mergo.Map(&merged, normalizeKeys(conf), mergo.WithOverride); err != nil {
			return NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	if c.schema != nil {
		if err := c.schema.Validate(toSchemaValue(merged)); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.validators {
		if err := fn(merged); err != nil {
			return NewError(fmt.Sprintf("custom-validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		// A failed bind or validation leaves the caller's struct untouched.
		scratch := reflect.New(reflect.TypeOf(c.binding).Elem()).Interface()
		if err := c.bind(merged, scratch); err != nil {
			return NewError("binding", "bind", err)
		}
		if v, ok := scratch.(Validator); ok {
			if err := v.Validate(); err != nil {
				return NewError("binding", "validate", err)
			}
		}
		reflect.ValueOf(c.binding).Elem().Set(reflect.ValueOf(scratch).Elem())
	}

	c.values = merged
	return nil
}

// MustLoad is like Load but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) bind(values map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToURLHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err = applyDefaults(reflect.ValueOf(target).Elem()); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	return nil
}

// Values returns a copy of the merged top-level values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Get returns the value at a dot separated, case-insensitive path, or nil.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	key = strings.ToLower(key)
	if v, ok := c.values[key]; ok {
		return v
	}

	current := c.values
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return v
		}
		if current, ok = v.(map[string]any); !ok {
			return nil
		}
	}
	return nil
}

// String returns the value at key converted to a string.
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// StringOr returns the value at key, or def when it is missing or empty.
func (c *Config) StringOr(key, def string) string {
	if s := c.String(key); s != "" {
		return s
	}
	return def
}

// Bool returns the value at key converted to a bool.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Duration returns the value at key converted to a duration.
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

// StringMap returns the value at key as a map.
func (c *Config) StringMap(key string) map[string]any {
	return cast.ToStringMap(c.Get(key))
}

func normalizeKeys(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

// toSchemaValue converts decoded values into the shapes the schema
// validator understands: map[string]any, []any and float64 numbers.
func toSchemaValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = toSchemaValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toSchemaValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toSchemaValue(e)
		}
		return out
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return cast.ToFloat64(t)
	default:
		return v
	}
}

// ToSchemaValue is exported for packages that validate documents decoded by
// the YAML and TOML codecs.
func ToSchemaValue(v any) any {
	return toSchemaValue(v)
}

func applyDefaults(val reflect.Value) error {
	if val.Kind() != reflect.Struct {
		return nil
	}
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := applyDefaults(field); err != nil {
				return err
			}
			continue
		}
		def := typ.Field(i).Tag.Get("default")
		if def == "" || !field.IsZero() {
			continue
		}
		if err := setDefault(field, def); err != nil {
			return fmt.Errorf("field %s: %w", typ.Field(i).Name, err)
		}
	}
	return nil
}

func setDefault(field reflect.Value, def string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(def)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := cast.ToInt64E(def)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(def)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(def)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(def)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type for default tag: %s", field.Type())
		}
		field.Set(reflect.ValueOf(cast.ToStringSlice(strings.Split(def, ","))))
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}
	return nil
}
