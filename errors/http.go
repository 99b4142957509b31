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

package errors

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// HTTPError is produced for every response whose status is outside 2xx.
//
// Value holds the decoded response payload: a JSON value (map, slice,
// string, number...), raw bytes for octet streams, a msgpack value, or the
// body text for any other content type. It is nil for an empty body.
type HTTPError struct {
	Status int
	Value  any
}

// NewHTTPError returns an [HTTPError] for status carrying value.
func NewHTTPError(status int, value any) *HTTPError {
	return &HTTPError{Status: status, Value: value}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return "Request failed with an unknown error"
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int {
	return e.Status
}

// Details returns the decoded response payload.
func (e *HTTPError) Details() any {
	return e.Value
}

// Code returns the "code" member of an object payload, or the status code
// in decimal when the payload carries none.
func (e *HTTPError) Code() string {
	if m, ok := e.Value.(map[string]any); ok {
		if code, ok := m["code"].(string); ok && code != "" {
			return code
		}
	}
	return strconv.Itoa(e.Status)
}

// StatusText returns the standard text for the status code.
func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Status)
}

// Decode converts the payload into target, which must be a pointer.
// Struct fields are matched by their json tag.
//
// Example:
//
//	var notFound struct {
//		Message string `json:"message"`
//	}
//	if err := httpErr.Decode(&notFound); err != nil {
//		return err
//	}
func (e *HTTPError) Decode(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(e.Value); err != nil {
		return fmt.Errorf("failed to decode error payload: %w", err)
	}
	return nil
}
