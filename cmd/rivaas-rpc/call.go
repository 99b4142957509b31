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
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/client"
)

func callCmd(o *rootOptions) *cobra.Command {
	var (
		method  string
		params  []string
		query   []string
		headers []string
		data    string
	)

	cmd := &cobra.Command{
		Use:   "call NAME",
		Short: "Send a request to a named route",
		Long: `Send a request to a named route and print the response body. JSON
bodies are printed indented. The command fails when the response status
is outside 2xx.

Without --method the first method the route declares is used, or GET when
it declares none.`,
		Example: `  rivaas-rpc call posts.show -p id=5
  rivaas-rpc call posts.store --data '{"title":"hello"}'
  rivaas-rpc call posts.destroy -X DELETE -p id=5 -H 'If-Match=abc'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := keyValues("param", params)
			if err != nil {
				return err
			}
			q, err := keyValues("query", query)
			if err != nil {
				return err
			}
			h, err := keyValues("header", headers)
			if err != nil {
				return err
			}
			var body any
			if data != "" {
				if err = json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("%w: --data is not JSON: %w", errInvalidFlag, err)
				}
			}

			sess, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sess.close() }()

			rc, err := sess.client.Route(args[0], p)
			if err != nil {
				return err
			}
			if method == "" {
				method = http.MethodGet
				if m := rc.Methods(); len(m) > 0 {
					method = m[0]
				}
			}

			opts := []client.RequestOption{client.WithQuery(q)}
			for k, v := range h {
				switch v := v.(type) {
				case string:
					opts = append(opts, client.WithHeader(k, v))
				case []string:
					for _, s := range v {
						opts = append(opts, client.AddHeader(k, s))
					}
				}
			}

			resp, err := rc.Call(method, body, opts...).Await(cmd.Context())
			if err != nil {
				return err
			}
			if err = printResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.OK() {
				return resp.Error
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&method, "method", "X", "", "request method")
	f.StringArrayVarP(&params, "param", "p", nil, "route parameter as key=value, repeatable")
	f.StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value, repeatable")
	f.StringArrayVarP(&headers, "header", "H", nil, "request header as key=value, repeatable")
	f.StringVarP(&data, "data", "d", "", "JSON request body")
	return cmd
}

func printResponse(w io.Writer, resp *client.Response) error {
	var v any
	switch {
	case resp.Error != nil:
		v = resp.Error.Value
	default:
		v = resp.Data
	}

	switch t := v.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(w, strings.TrimRight(t, "\n"))
		return err
	case []byte:
		_, err := w.Write(t)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
}
