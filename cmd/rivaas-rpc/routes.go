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
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	rpctable "rivaas.dev/client/table"
)

func routesCmd(o *rootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route with its methods and path pattern. --filter takes a
name pattern where "*" matches any run of characters, as in "posts.*".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := o.open(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sess.close() }()

			records := sess.client.Table().Records()
			if filter != "" {
				re := rpctable.NamePattern(filter)
				kept := records[:0]
				for _, r := range records {
					if re.MatchString(r.Name) {
						kept = append(kept, r)
					}
				}
				records = kept
			}
			renderRoutes(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list routes whose name matches")
	return cmd
}

var methodStyles = map[string]lipgloss.Style{
	http.MethodGet:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	http.MethodPost:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	http.MethodPut:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	http.MethodDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	http.MethodPatch:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	http.MethodHead:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	http.MethodOptions: lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
}

// renderRoutes writes records as a table. Output goes through a
// colorprofile writer, which downsamples colors to what w supports and
// strips them when w is not a terminal or NO_COLOR is set.
func renderRoutes(w io.Writer, records []rpctable.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "no routes")
		return
	}

	width := 0
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = tw
		}
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		methods := "ANY"
		if len(r.Method) > 0 {
			styled := make([]string, len(r.Method))
			for i, m := range r.Method {
				styled[i] = m
				if style, ok := methodStyles[m]; ok {
					styled[i] = style.Render(m)
				}
			}
			methods = strings.Join(styled, ",")
		}
		rows = append(rows, []string{r.Name, methods, r.Path})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Name", "Methods", "Path").
		Rows(rows...)
	if width > 0 {
		t = t.Width(min(width, 120))
	}

	cpw := colorprofile.NewWriter(w, os.Environ())
	_, _ = fmt.Fprintln(cpw, t.Render())
}
