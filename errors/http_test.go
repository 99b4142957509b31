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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Request failed with status code 404", NewHTTPError(404, nil).Error())
	assert.Equal(t, "Request failed with status code 500", NewHTTPError(500, "boom").Error())
	assert.Equal(t, "Request failed with an unknown error", NewHTTPError(0, nil).Error())
}

func TestHTTPError_Code(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"object with code", map[string]any{"code": "user_missing"}, "user_missing"},
		{"object without code", map[string]any{"message": "x"}, "404"},
		{"non-string code", map[string]any{"code": 12}, "404"},
		{"text payload", "not here", "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewHTTPError(http.StatusNotFound, tt.value).Code())
		})
	}
}

func TestHTTPError_Decode(t *testing.T) {
	t.Parallel()

	type notFound struct {
		Message string `json:"message"`
		Retry   int    `json:"retry"`
	}

	t.Run("object payload", func(t *testing.T) {
		t.Parallel()

		err := NewHTTPError(404, map[string]any{"message": "User not found", "retry": float64(3)})

		var body notFound
		require.NoError(t, err.Decode(&body))
		assert.Equal(t, "User not found", body.Message)
		assert.Equal(t, 3, body.Retry)
	})

	t.Run("weakly typed fields", func(t *testing.T) {
		t.Parallel()

		err := NewHTTPError(404, map[string]any{"message": "x", "retry": "7"})

		var body notFound
		require.NoError(t, err.Decode(&body))
		assert.Equal(t, 7, body.Retry)
	})

	t.Run("text payload into struct fails", func(t *testing.T) {
		t.Parallel()

		err := NewHTTPError(500, "oops")

		var body notFound
		assert.Error(t, err.Decode(&body))
	})
}

func TestHTTPError_Problem(t *testing.T) {
	t.Parallel()

	t.Run("problem document", func(t *testing.T) {
		t.Parallel()

		err := NewHTTPError(422, map[string]any{
			"type":     "https://example.com/problems/validation",
			"title":    "Unprocessable Entity",
			"status":   float64(422),
			"detail":   "email is invalid",
			"instance": "/users",
			"error_id": "err-1",
		})

		p, ok := err.Problem()
		require.True(t, ok)
		assert.Equal(t, "https://example.com/problems/validation", p.Type)
		assert.Equal(t, 422, p.Status)
		assert.Equal(t, "email is invalid", p.Detail)
		assert.Equal(t, "/users", p.Instance)
		assert.Equal(t, map[string]any{"error_id": "err-1"}, p.Extensions)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		p, ok := NewHTTPError(503, map[string]any{"title": "Service Unavailable"}).Problem()
		require.True(t, ok)
		assert.Equal(t, "about:blank", p.Type)
		assert.Equal(t, 503, p.Status)
		assert.Nil(t, p.Extensions)
	})

	t.Run("not a problem", func(t *testing.T) {
		t.Parallel()

		_, ok := NewHTTPError(400, map[string]any{"message": "bad"}).Problem()
		assert.False(t, ok)

		_, ok = NewHTTPError(400, "bad").Problem()
		assert.False(t, ok)
	})
}

func TestHTTPError_JSONAPIErrors(t *testing.T) {
	t.Parallel()

	err := NewHTTPError(400, map[string]any{
		"errors": []any{
			map[string]any{
				"status": "400",
				"code":   "required",
				"detail": "name is required",
				"source": map[string]any{"pointer": "/data/attributes/name"},
			},
			map[string]any{
				"status": "400",
				"title":  "Invalid Attribute",
			},
		},
	})

	got := err.JSONAPIErrors()
	require.Len(t, got, 2)
	assert.Equal(t, "required", got[0].Code)
	assert.Equal(t, "/data/attributes/name", got[0].Source.Pointer)
	assert.Equal(t, "Invalid Attribute", got[1].Title)

	assert.Nil(t, NewHTTPError(400, map[string]any{"message": "x"}).JSONAPIErrors())
	assert.Nil(t, NewHTTPError(400, nil).JSONAPIErrors())
}
