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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"rivaas.dev/client/query"
)

// File is an in-memory or streamed file part of a multipart body.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// NewFile returns a File reading from data.
func NewFile(name string, data []byte) *File {
	return &File{Name: name, Reader: bytes.NewReader(data)}
}

type formEntry struct {
	key   string
	value string
	file  any
}

// FormData is a multipart body built by hand. It is sent as is.
type FormData struct {
	entries []formEntry
}

// Append adds a field value.
func (f *FormData) Append(key, value string) *FormData {
	f.entries = append(f.entries, formEntry{key: key, value: value})
	return f
}

// AppendFile adds a file part. file is a [File], [*File], [*os.File] or
// [*multipart.FileHeader].
func (f *FormData) AppendFile(key string, file any) *FormData {
	f.entries = append(f.entries, formEntry{key: key, file: file})
	return f
}

// Len returns the number of entries.
func (f *FormData) Len() int { return len(f.entries) }

// isFile reports whether v is sent as a file part.
func isFile(v any) bool {
	switch v.(type) {
	case File, *File, *os.File, *multipart.FileHeader:
		return true
	}
	return false
}

// encodeBody picks JSON or multipart for body.
func encodeBody(body any) (io.Reader, string, error) {
	if fd, ok := body.(*FormData); ok {
		return fd.encode()
	}
	if hasFile(reflect.ValueOf(body)) {
		fd := &FormData{}
		if err := fd.flatten("", reflect.ValueOf(body)); err != nil {
			return nil, "", err
		}
		return fd.encode()
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// hasFile scans the values of a map or struct, nested maps and structs, and
// the elements of slices directly under them.
func hasFile(rv reflect.Value) bool {
	rv = indirect(rv)
	if !rv.IsValid() {
		return false
	}
	if rv.CanInterface() && isFile(rv.Interface()) {
		return true
	}
	found := false
	eachField(rv, func(_ string, v reflect.Value) bool {
		v = indirect(v)
		switch {
		case !v.IsValid():
		case v.CanInterface() && isFile(v.Interface()):
			found = true
		case v.Kind() == reflect.Slice || v.Kind() == reflect.Array:
			for i := 0; i < v.Len() && !found; i++ {
				e := indirect(v.Index(i))
				found = e.IsValid() && e.CanInterface() && isFile(e.Interface())
			}
		case v.Kind() == reflect.Map || v.Kind() == reflect.Struct:
			found = hasFile(v)
		}
		return !found
	})
	return found
}

// flatten appends rv under prefix using bracket notation: user[name],
// tags[0], items[0][id].
func (f *FormData) flatten(prefix string, rv reflect.Value) error {
	rv = indirect(rv)
	if !rv.IsValid() {
		return nil
	}
	if rv.CanInterface() && isFile(rv.Interface()) {
		f.AppendFile(prefix, rv.Interface())
		return nil
	}

	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "[" + k + "]"
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		if _, ok := rv.Interface().(json.Marshaler); ok && rv.Kind() == reflect.Struct {
			return f.appendScalar(prefix, rv.Interface())
		}
		var err error
		eachField(rv, func(name string, v reflect.Value) bool {
			err = f.flatten(key(name), v)
			return err == nil
		})
		return err
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return f.appendScalar(prefix, string(rv.Bytes()))
		}
		for i := 0; i < rv.Len(); i++ {
			if err := f.flatten(key(strconv.Itoa(i)), rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return f.appendScalar(prefix, rv.Interface())
	}
}

func (f *FormData) appendScalar(key string, v any) error {
	if key == "" {
		return fmt.Errorf("cannot send %T as a multipart body", v)
	}
	if m, ok := v.(json.Marshaler); ok {
		data, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		f.Append(key, strings.Trim(string(data), "\""))
		return nil
	}
	f.Append(key, query.Stringify(v))
	return nil
}

func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, e := range f.entries {
		if e.file == nil {
			if err := w.WriteField(e.key, e.value); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := writeFile(w, e.key, e.file); err != nil {
			return nil, "", fmt.Errorf("failed to write file %q: %w", e.key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, key string, file any) error {
	var (
		name, contentType string
		r                 io.Reader
	)
	switch t := file.(type) {
	case File:
		name, contentType, r = t.Name, t.ContentType, t.Reader
	case *File:
		name, contentType, r = t.Name, t.ContentType, t.Reader
	case *os.File:
		name, r = filepath.Base(t.Name()), t
	case *multipart.FileHeader:
		src, err := t.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		name, contentType, r = t.Filename, t.Header.Get("Content-Type"), src
	}
	if name == "" {
		name = "blob"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if r == nil {
		r = bytes.NewReader(nil)
	}

	h := make(textproto.MIMEHeader)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(key), escapeQuotes(name))}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		if rv.Kind() == reflect.Pointer && rv.CanInterface() && isFile(rv.Interface()) {
			return rv
		}
		rv = rv.Elem()
	}
	return rv
}

// eachField visits the entries of a map in sorted key order, or the exported
// fields of a struct under their json names, until fn returns false.
func eachField(rv reflect.Value, fn func(name string, v reflect.Value) bool) {
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
		for _, k := range keys {
			if !fn(k.String(), rv.MapIndex(k)) {
				return
			}
		}
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			sf := typ.Field(i)
			if !sf.IsExported() {
				continue
			}
			name, omitEmpty, skip := jsonName(sf)
			if skip || (omitEmpty && rv.Field(i).IsZero()) {
				continue
			}
			if !fn(name, rv.Field(i)) {
				return
			}
		}
	}
}

func jsonName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}
