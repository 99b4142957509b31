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
	"errors"
	"fmt"
	"net/http"
)

// ErrorType allows errors to declare their own HTTP status code.
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// Sentinel errors. Typed errors below match them through [errors.Is].
var (
	// ErrRouteNotFound is matched by every [RouteNotFoundError].
	ErrRouteNotFound = errors.New("route not found")

	// ErrMissingRouteParam is matched by every [MissingRouteParamError].
	ErrMissingRouteParam = errors.New("missing route parameter")

	// ErrNotCallable is returned when a chain is invoked without a verb or
	// URL marker as its last segment and without a parameter argument.
	ErrNotCallable = errors.New("chain is not callable")

	// ErrMethodNotAllowed is returned when a route is called with a verb it
	// does not declare.
	ErrMethodNotAllowed = errors.New("method not allowed for route")

	// ErrParamMismatch is returned when a dynamic segment was supplied under
	// a key that differs from the parameter name declared by the route.
	ErrParamMismatch = errors.New("parameter key does not match route")

	// ErrInvalidParam is returned when a dynamic segment argument cannot be
	// used as a path parameter.
	ErrInvalidParam = errors.New("invalid path parameter")
)

// RouteNotFoundError is raised synchronously when a name or path does not
// resolve to any route of the table.
type RouteNotFoundError struct {
	// Name is the route name that was looked up. Empty for path lookups.
	Name string
	// Path is the URL path that was matched. Empty for name lookups.
	Path string
}

// NewRouteNotFound returns a [RouteNotFoundError] for a route name.
func NewRouteNotFound(name string) *RouteNotFoundError {
	return &RouteNotFoundError{Name: name}
}

// NewPathNotFound returns a [RouteNotFoundError] for a URL path.
func NewPathNotFound(path string) *RouteNotFoundError {
	return &RouteNotFoundError{Path: path}
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no route matches path %q", e.Path)
	}
	return fmt.Sprintf("route %q not found", e.Name)
}

// Is reports whether target is [ErrRouteNotFound].
func (e *RouteNotFoundError) Is(target error) bool {
	return target == ErrRouteNotFound
}

// HTTPStatus returns 404.
func (e *RouteNotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Code returns "route_not_found".
func (e *RouteNotFoundError) Code() string {
	return "route_not_found"
}

// MissingRouteParamError is raised when URL generation needs a required
// parameter the caller did not supply.
type MissingRouteParamError struct {
	Route string
	Param string
}

// NewMissingRouteParam returns a [MissingRouteParamError].
func NewMissingRouteParam(route, param string) *MissingRouteParamError {
	return &MissingRouteParamError{Route: route, Param: param}
}

// Error implements the error interface.
func (e *MissingRouteParamError) Error() string {
	return fmt.Sprintf("missing required parameter %q for route %q", e.Param, e.Route)
}

// Is reports whether target is [ErrMissingRouteParam].
func (e *MissingRouteParamError) Is(target error) bool {
	return target == ErrMissingRouteParam
}

// HTTPStatus returns 400.
func (e *MissingRouteParamError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns "missing_route_param".
func (e *MissingRouteParamError) Code() string {
	return "missing_route_param"
}

// Details returns the route and parameter names.
func (e *MissingRouteParamError) Details() any {
	return map[string]string{"route": e.Route, "param": e.Param}
}

// StatusOf returns the HTTP status declared by err through [ErrorType], or
// 500 when err does not declare one.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
