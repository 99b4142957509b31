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
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	rpcerrors "rivaas.dev/client/errors"
	"rivaas.dev/client/query"
)

func matchCmd(o *rootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "match PATH",
		Short: "Print the route a path or URL resolves to",
		Long: `Print the name of the first route whose pattern matches PATH, then one
key=value line per captured parameter. PATH may be a full URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sess.close() }()

			path := args[0]
			if u, err := url.Parse(path); err == nil && u.Host != "" {
				path = u.Path
			}

			routes := sess.client.Table()
			rec, params, ok := routes.Match(path)
			if method != "" {
				rec, params, ok = routes.MatchMethod(path, method)
			}
			if !ok {
				return rpcerrors.NewPathNotFound(path)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, rec.Name)
			keys := make([]string, 0, len(params))
			for k := range params {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				_, _ = fmt.Fprintf(out, "%s=%s\n", k, paramValue(params[k]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "", "only match routes that accept this method")
	return cmd
}

func paramValue(v any) string {
	if parts, ok := v.([]string); ok {
		return strings.Join(parts, "/")
	}
	return query.Stringify(v)
}
