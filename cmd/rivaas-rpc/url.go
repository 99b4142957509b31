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

	"github.com/spf13/cobra"

	"rivaas.dev/client"
)

func urlCmd(o *rootOptions) *cobra.Command {
	var params, query []string

	cmd := &cobra.Command{
		Use:   "url NAME",
		Short: "Print the URL of a named route",
		Example: `  rivaas-rpc url posts.show -p id=5
  rivaas-rpc url files.show -p path=docs -p path=readme.md
  rivaas-rpc url posts.index -q tags=go -q tags=http -q page=2`,
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

			sess, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sess.close() }()

			u, err := sess.client.URL(args[0], client.URLOptions{Params: p, Query: q})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "route parameter as key=value, repeatable")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter as key=value, repeatable")
	return cmd
}
