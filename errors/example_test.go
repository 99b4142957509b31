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

package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"rivaas.dev/client/errors"
)

func ExampleHTTPError_Decode() {
	var err error = errors.NewHTTPError(http.StatusNotFound, map[string]any{
		"message": "User not found",
	})

	var httpErr *errors.HTTPError
	if stderrors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
		var body struct {
			Message string `json:"message"`
		}
		_ = httpErr.Decode(&body)
		fmt.Println(httpErr.Error())
		fmt.Println(body.Message)
	}
	// Output:
	// Request failed with status code 404
	// User not found
}

func ExampleRouteNotFoundError() {
	err := fmt.Errorf("lookup: %w", errors.NewRouteNotFound("users.show"))

	fmt.Println(stderrors.Is(err, errors.ErrRouteNotFound))
	fmt.Println(errors.StatusOf(err))
	// Output:
	// true
	// 404
}
