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

// Package query encodes query strings the way browser clients do.
//
// Scalar values that are falsy (nil, "", false, numeric zero, NaN) are
// dropped. Slices and arrays are expanded into repeated "key[]" entries.
// Keys and values are escaped with encodeURIComponent rules, so a space
// becomes %20 rather than "+".
//
//	query.Encode(map[string]any{"q": "go lang", "tags": []string{"a", "b"}, "page": 0})
//	// "?q=go%20lang&tags[]=a&tags[]=b"
package query

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Pair is one key and value of an ordered query.
type Pair struct {
	Key   string
	Value any
}

// Encode serializes q into a query string with a leading "?". Keys are
// emitted in sorted order. It returns "" when nothing survives filtering.
func Encode(q map[string]any) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: q[k]})
	}
	return EncodePairs(pairs)
}

// EncodePairs is like [Encode] but keeps the order of pairs.
func EncodePairs(pairs []Pair) string {
	var b strings.Builder
	for _, p := range pairs {
		appendPair(&b, p.Key, p.Value)
	}
	if b.Len() == 0 {
		return ""
	}
	return "?" + b.String()
}

func appendPair(b *strings.Builder, key string, value any) {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return
	}

	if (rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8) || rv.Kind() == reflect.Array {
		arrayKey := Escape(key) + "[]="
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if isNil(elem) {
				continue
			}
			write(b, arrayKey, Escape(Stringify(elem.Interface())))
		}
		return
	}

	v := rv.Interface()
	if IsFalsy(v) {
		return
	}
	write(b, Escape(key)+"=", Escape(Stringify(v)))
}

func write(b *strings.Builder, prefix, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(prefix)
	b.WriteString(value)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return !v.IsValid()
	}
}

// IsFalsy reports whether a scalar is dropped by [Encode]: nil, a nil
// pointer, "", false, numeric zero or NaN.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsFalsy(rv.Elem().Interface())
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	default:
		return false
	}
}

// Stringify formats a scalar for a query string or path segment.
// Times use RFC 3339; anything cast cannot convert falls back to fmt.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Escape percent-encodes s with encodeURIComponent rules: everything except
// ASCII letters, digits and -_.!~*'() is escaped as UTF-8 bytes.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	const hex = "0123456789ABCDEF"
	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', hex[c>>4], hex[c&15])
	}
	return string(buf)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
