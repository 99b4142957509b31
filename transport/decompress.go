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
package transport

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is advertised when the caller did not set Accept-Encoding.
const acceptEncoding = "br, gzip"

// Decompress returns middleware that advertises brotli and gzip support and
// decodes matching response bodies. The Content-Encoding and Content-Length
// headers are removed from decoded responses.
//
// Setting Accept-Encoding disables the automatic gzip handling of
// [http.Transport], so gzip is decoded here as well.
func Decompress() Middleware {
	return func(next DoerFunc) DoerFunc {
		return func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("Accept-Encoding") == "" {
				r = r.Clone(r.Context())
				r.Header.Set("Accept-Encoding", acceptEncoding)
			}

			resp, err := next(r)
			if err != nil || resp == nil || resp.Body == nil {
				return resp, err
			}
			if err = decodeBody(resp); err != nil {
				resp.Body.Close()
				return nil, err
			}
			return resp, nil
		}
	}
}

func decodeBody(resp *http.Response) error {
	var rc io.ReadCloser
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		rc = &decodedBody{Reader: brotli.NewReader(resp.Body), raw: resp.Body}
	case "gzip":
		if resp.Request != nil && resp.Request.Method == http.MethodHead {
			return nil
		}
		zr, err := gzip.NewReader(resp.Body)
		if errors.Is(err, io.EOF) {
			// empty body
			return nil
		}
		if err != nil {
			return err
		}
		rc = &decodedBody{Reader: zr, raw: resp.Body, closer: zr}
	default:
		return nil
	}

	resp.Body = rc
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

type decodedBody struct {
	io.Reader
	raw    io.Closer
	closer io.Closer
}

func (b *decodedBody) Close() error {
	var err error
	if b.closer != nil {
		err = b.closer.Close()
	}
	return errors.Join(err, b.raw.Close())
}
